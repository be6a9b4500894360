package assessment

import (
	"time"

	"htb-gateway/internal/regulations"
)

// CreditStanding is the part of a bureau report the rules read.
type CreditStanding struct {
	Score int
	Pass  bool
}

// Evaluate runs every rule, the grant calculator, and the aggregator over a
// validated application. It is pure: identical inputs give identical results.
// Identity, timestamps, and documents are stamped by the caller.
func Evaluate(app Application, credit CreditStanding, regs regulations.Set, now time.Time) (AssessmentResult, error) {
	personal := app.Applicant.Personal
	financial := app.Applicant.Financial
	homeType := regs.ClassifyHome(app.Property.AgeYears)

	eligibility := EligibilityBreakdown{
		FirstTimeBuyer: EvaluateFirstTimeBuyer(personal),
		Age:            EvaluateAge(personal, regs),
		Residency:      EvaluateResidency(personal, regs),
		Income:         EvaluateIncome(personal, financial, regs),
		Employment:     EvaluateEmployment(app.Applicant.Employment, regs, now),
		Credit:         EvaluateCredit(credit.Score, credit.Pass, regs),
	}

	property := PropertyAssessment{
		Type:      EvaluatePropertyType(app.Property, regs),
		Price:     EvaluatePrice(app.Property, homeType, regs),
		Age:       EvaluatePropertyAge(app.Property, homeType, regs),
		Energy:    EvaluateEnergyRating(app.Property, homeType, regs),
		Location:  EvaluateLocation(app.Property, regs),
		Valuation: EvaluateValuation(app.Property, regs, now),
	}

	dti, err := EvaluateDebtToIncome(financial, app.Mortgage, regs)
	if err != nil {
		return AssessmentResult{}, err
	}
	affordability, err := EvaluateAffordability(financial, app.Mortgage, regs)
	if err != nil {
		return AssessmentResult{}, err
	}
	stress, err := EvaluateStressTest(financial, app.Mortgage, regs)
	if err != nil {
		return AssessmentResult{}, err
	}
	fin := FinancialAssessment{
		Deposit:       EvaluateDeposit(financial, app.Property, regs),
		DebtToIncome:  dti,
		Affordability: affordability,
		StressTest:    stress,
		LoanToValue:   EvaluateLoanToValue(app.Mortgage, regs),
	}

	grant := CalculateGrant(app.Property, homeType, regs, eligibility, property, fin)
	decision := Aggregate(app, regs, eligibility, property, fin, grant)

	return AssessmentResult{
		Eligible:                decision.Eligible,
		Appealable:              decision.Appealable,
		HomeType:                homeType,
		RegulationsVersion:      regs.Version,
		MaxGrantAmount:          grant.MaxAmount,
		ActualGrantAmount:       grant.ActualAmount,
		GrantRate:               grant.Rate,
		Eligibility:             eligibility,
		Property:                property,
		Financial:               fin,
		RequiresManualReview:    decision.ManualReview,
		RequiresAdvisorReview:   decision.AdvisorReview,
		Compliance:              decision.Compliance,
		Conditions:              decision.Conditions,
		Warnings:                decision.Warnings,
		NextSteps:               decision.NextSteps,
		RequiredActions:         decision.RequiredActions,
		RequiredDocuments:       []RequiredDocument{},
		EstimatedProcessingDays: decision.ProcessingDays,
	}, nil
}
