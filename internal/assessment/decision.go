package assessment

import (
	"fmt"

	"htb-gateway/internal/regulations"
)

// Decision is the aggregated verdict over all rule outcomes.
type Decision struct {
	Eligible        bool
	Appealable      bool
	ManualReview    bool
	AdvisorReview   bool
	Conditions      []string
	Warnings        []string
	NextSteps       []string
	RequiredActions []string
	ProcessingDays  int
	Compliance      ComplianceStatus
}

// outcomes is the full rule state the aggregator reads from.
type outcomes struct {
	app         Application
	regs        regulations.Set
	eligibility EligibilityBreakdown
	property    PropertyAssessment
	financial   FinancialAssessment
	grant       Grant
}

// Aggregate combines rule outcomes into a decision. Every list generator is
// independent and emits entries in the order its checks are declared.
func Aggregate(
	app Application,
	regs regulations.Set,
	eligibility EligibilityBreakdown,
	property PropertyAssessment,
	financial FinancialAssessment,
	grant Grant,
) Decision {
	o := outcomes{app: app, regs: regs, eligibility: eligibility, property: property, financial: financial, grant: grant}

	eligible := IsEligible(eligibility, property, financial)
	manual := o.requiresManualReview()
	advisor := RequiresAdvisorReview(grant.ActualAmount, app.Applicant.Financial.GrossAnnualIncome, regs)

	return Decision{
		Eligible:        eligible,
		Appealable:      !eligible,
		ManualReview:    manual,
		AdvisorReview:   advisor,
		Conditions:      o.conditions(),
		Warnings:        o.warnings(),
		NextSteps:       NextSteps(eligible, manual, advisor),
		RequiredActions: o.requiredActions(),
		ProcessingDays:  ProcessingDays(manual, advisor, regs),
		Compliance: ComplianceStatus{
			RegulatoryCompliance:   eligible,
			FinancialAdvisorReview: advisor,
			AppealRights:           true,
		},
	}
}

// IsEligible is false iff a critical dimension fails: first-time buyer, age,
// residency, income, property price, property type, deposit, or LTV.
func IsEligible(e EligibilityBreakdown, p PropertyAssessment, f FinancialAssessment) bool {
	critical := []Check{
		e.FirstTimeBuyer.Outcome,
		e.Age.Outcome,
		e.Residency.Outcome,
		e.Income.Outcome,
		p.Price.Outcome,
		p.Type.Outcome,
		f.Deposit.Outcome,
		f.LoanToValue.Outcome,
	}
	for _, c := range critical {
		if c.Failed() {
			return false
		}
	}
	return true
}

func (o outcomes) requiresManualReview() bool {
	return o.eligibility.FirstTimeBuyer.Outcome.Failed() ||
		o.property.Price.Outcome.Failed() ||
		o.financial.StressTest.Outcome.Failed() ||
		o.financial.DebtToIncome.Ratio > o.regs.Lending.MaxDebtToIncome ||
		o.app.Applicant.Employment.Type == EmploymentSelfEmployed ||
		o.app.Property.AgeYears > o.regs.Review.ManualReviewPropertyAge
}

// RequiresAdvisorReview routes large grants and high earners to a financial advisor.
func RequiresAdvisorReview(actualGrant int64, grossIncome float64, regs regulations.Set) bool {
	return float64(actualGrant) >= regs.Review.AdvisorGrantThreshold ||
		grossIncome >= regs.Review.AdvisorIncomeThreshold
}

func (o outcomes) conditions() []string {
	out := []string{}
	if o.financial.DebtToIncome.Ratio > o.regs.Lending.SoftDebtToIncome {
		out = append(out, "High debt-to-income ratio requires additional monitoring")
	}
	if o.app.Property.AgeYears > o.regs.Review.StructuralSurveyPropertyAge {
		out = append(out, "Older property requires structural survey")
	}
	return out
}

func (o outcomes) warnings() []string {
	out := []string{}
	if o.financial.Affordability.Outcome.Failed() {
		out = append(out, "Repayments at the offered rate exceed the affordability guideline")
	}
	if o.financial.StressTest.Outcome.Failed() {
		out = append(out, "May not afford repayments if interest rates increase")
	}
	if o.eligibility.Credit.Outcome.Failed() {
		out = append(out, "Credit history may delay mortgage approval")
	}
	term := o.app.Mortgage.TermYears
	if term < o.regs.Lending.MinTermYears || term > o.regs.Lending.MaxTermYears {
		out = append(out, fmt.Sprintf("Mortgage term of %d years is outside the %d-%d year range accepted by lenders",
			term, o.regs.Lending.MinTermYears, o.regs.Lending.MaxTermYears))
	}
	return out
}

// NextSteps picks the applicant's next steps; ineligibility takes precedence
// over manual review, which takes precedence over advisor review.
func NextSteps(eligible, manualReview, advisorReview bool) []string {
	switch {
	case !eligible:
		return []string{"Review eligibility criteria", "Consider appeal if appropriate", "Seek financial advice"}
	case manualReview:
		return []string{"Await manual review by Housing Agency", "Provide additional documentation if requested"}
	case advisorReview:
		return []string{"Schedule consultation with qualified financial advisor", "Complete financial advisor assessment"}
	default:
		return []string{"Submit HTB application", "Await automated processing"}
	}
}

func (o outcomes) requiredActions() []string {
	out := []string{}
	if o.property.Valuation.Outcome.Failed() {
		out = append(out, "Obtain professional property valuation")
	}
	if o.financial.Deposit.Outcome.Failed() {
		out = append(out, "Increase deposit amount")
	}
	if o.property.Energy.Outcome.Failed() {
		out = append(out, fmt.Sprintf("Upgrade energy rating to %s or better", o.property.Energy.Required))
	}
	return out
}

// ProcessingDays estimates the time to a final answer.
func ProcessingDays(manualReview, advisorReview bool, regs regulations.Set) int {
	days := regs.Processing.InitialAssessmentDays
	if advisorReview {
		days += regs.Processing.AdvisorReviewDays
	}
	if manualReview {
		days += regs.Processing.FinalApprovalDays
	}
	return days
}
