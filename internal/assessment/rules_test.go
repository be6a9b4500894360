package assessment_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/regulations"
)

func TestMonthlyPayment(t *testing.T) {
	t.Run("amortising loan", func(t *testing.T) {
		p, err := assessment.MonthlyPayment(340000, 0.035, 30)
		require.NoError(t, err)
		assert.InDelta(t, 1526.78, p, 0.01)
	})

	t.Run("zero rate repays principal evenly", func(t *testing.T) {
		p, err := assessment.MonthlyPayment(120000, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, p)
	})

	t.Run("zero term", func(t *testing.T) {
		_, err := assessment.MonthlyPayment(120000, 0.03, 0)
		require.Error(t, err)
		assert.True(t, assessment.IsComputation(err))
	})
}

func TestEvaluateFirstTimeBuyer_ReportsFirstFlag(t *testing.T) {
	p := assessment.PersonalDetails{InheritedProperty: true, SpousePropertyHistory: true}

	reason, failed := assessment.EvaluateFirstTimeBuyer(p).Outcome.Reason()
	require.True(t, failed)
	assert.Equal(t, assessment.ReasonInheritedProperty, reason)

	assert.True(t, assessment.EvaluateFirstTimeBuyer(assessment.PersonalDetails{}).Outcome.Passed())
}

func TestEvaluateIncome_SingleIgnoresPartnerIncome(t *testing.T) {
	check := assessment.EvaluateIncome(
		assessment.PersonalDetails{MaritalStatus: assessment.MaritalCohabiting},
		assessment.FinancialDetails{GrossAnnualIncome: 70000, PartnerIncome: 50000},
		regulations.Default(),
	)
	assert.True(t, check.Outcome.Passed())
	assert.False(t, check.Couple)
	assert.Equal(t, 70000.0, check.HouseholdIncome)
	assert.Equal(t, 80000.0, check.Threshold)
}

func TestEvaluateEmployment(t *testing.T) {
	regs := regulations.Default()

	t.Run("employee under minimum months", func(t *testing.T) {
		check := assessment.EvaluateEmployment(assessment.EmploymentDetails{
			Type:      assessment.EmploymentEmployed,
			StartDate: assessedAt.AddDate(0, -6, 0),
		}, regs, assessedAt)
		assert.True(t, check.Outcome.Failed())
		assert.Equal(t, 6, check.MonthsEmployed)
	})

	t.Run("self-employed judged on trading years", func(t *testing.T) {
		check := assessment.EvaluateEmployment(assessment.EmploymentDetails{
			Type:              assessment.EmploymentSelfEmployed,
			StartDate:         assessedAt.AddDate(-5, 0, 0),
			BusinessStartDate: assessedAt.AddDate(-1, 0, 0),
		}, regs, assessedAt)
		reason, failed := check.Outcome.Reason()
		require.True(t, failed)
		assert.Equal(t, "Self-employed applicants require minimum 2 years trading history", reason)
	})
}

func TestEvaluateCredit(t *testing.T) {
	regs := regulations.Default()
	assert.True(t, assessment.EvaluateCredit(600, true, regs).Outcome.Passed())
	assert.True(t, assessment.EvaluateCredit(599, true, regs).Outcome.Failed())
	assert.True(t, assessment.EvaluateCredit(800, false, regs).Outcome.Failed())
}

func TestEvaluatePropertyAge_UsesGivenClassification(t *testing.T) {
	regs := regulations.Default()
	p := assessment.PropertyDetails{AgeYears: 2}

	assert.True(t, assessment.EvaluatePropertyAge(p, regulations.HomeTypeNew, regs).Outcome.Passed())
	assert.True(t, assessment.EvaluatePropertyAge(p, regulations.HomeTypeSecondHand, regs).Outcome.Passed())
	p.AgeYears = 1
	assert.True(t, assessment.EvaluatePropertyAge(p, regulations.HomeTypeSecondHand, regs).Outcome.Failed())
}

func TestEvaluateEnergyRating_UnknownRatingFails(t *testing.T) {
	regs := regulations.Default()
	check := assessment.EvaluateEnergyRating(assessment.PropertyDetails{EnergyRating: "X"}, regulations.HomeTypeSecondHand, regs)
	assert.True(t, check.Outcome.Failed())
	assert.Equal(t, "D1", check.Required)

	check = assessment.EvaluateEnergyRating(assessment.PropertyDetails{EnergyRating: "b3"}, regulations.HomeTypeNew, regs)
	assert.True(t, check.Outcome.Passed())
}

func TestEvaluateLocation_ExcludedArea(t *testing.T) {
	regs := regulations.Default()
	regs.Property.ExcludedAreas = []string{"Spike Island"}

	assert.True(t, assessment.EvaluateLocation(assessment.PropertyDetails{Address: "1 spike island, Cork"}, regs).Outcome.Failed())
	assert.True(t, assessment.EvaluateLocation(assessment.PropertyDetails{Address: "1 Main St, Cork"}, regs).Outcome.Passed())
}

func TestEvaluateValuation(t *testing.T) {
	regs := regulations.Default()
	base := assessment.PropertyDetails{
		Price: 400000,
		Valuation: assessment.Valuation{
			Professional:  true,
			ValuedPrice:   400000,
			ValuationDate: assessedAt.AddDate(0, 0, -30),
		},
	}

	assert.True(t, assessment.EvaluateValuation(base, regs, assessedAt).Outcome.Passed())

	stale := base
	stale.Valuation.ValuationDate = assessedAt.AddDate(0, 0, -91)
	assert.True(t, assessment.EvaluateValuation(stale, regs, assessedAt).Outcome.Failed())

	missing := base
	missing.Valuation.ValuationDate = time.Time{}
	check := assessment.EvaluateValuation(missing, regs, assessedAt)
	assert.True(t, check.Outcome.Failed())
	assert.Equal(t, 365, check.AgeDays)

	far := base
	far.Valuation.ValuedPrice = 370000
	check = assessment.EvaluateValuation(far, regs, assessedAt)
	reason, failed := check.Outcome.Reason()
	require.True(t, failed)
	assert.Equal(t, "Valuation variance exceeds 5.0% of agreed price", reason)
}

func TestEvaluateDebtToIncome_HardLimitIsInclusive(t *testing.T) {
	regs := regulations.Default()
	// 420000 over 120 months at 0% is exactly 3500 a month
	mortgage := assessment.MortgageTerms{LoanAmount: 420000, InterestRate: 0, TermYears: 10}
	financial := assessment.FinancialDetails{GrossAnnualIncome: 120000}

	check, err := assessment.EvaluateDebtToIncome(financial, mortgage, regs)
	require.NoError(t, err)
	assert.Equal(t, 0.35, check.Ratio)
	assert.True(t, check.Outcome.Passed())

	financial.MonthlyDebtPayments = 1
	check, err = assessment.EvaluateDebtToIncome(financial, mortgage, regs)
	require.NoError(t, err)
	assert.True(t, check.Outcome.Failed())
}

func TestEvaluateAffordability_DefaultsForMissingIncome(t *testing.T) {
	regs := regulations.Default()
	// net = 60000/12*0.7 = 3500, expenses = 3500*0.4 = 1400, capacity 2100
	financial := assessment.FinancialDetails{GrossAnnualIncome: 60000}
	mortgage := assessment.MortgageTerms{LoanAmount: 84000, InterestRate: 0, TermYears: 10}

	check, err := assessment.EvaluateAffordability(financial, mortgage, regs)
	require.NoError(t, err)
	assert.InDelta(t, 2100, check.Capacity, 1e-9)
	assert.InDelta(t, 700, check.MonthlyPayment, 1e-9)
	assert.True(t, check.Outcome.Passed())
}

func TestCalculateGrant(t *testing.T) {
	regs := regulations.Default()
	property := assessment.PropertyDetails{Price: 400000}
	passing := func(ratio float64) assessment.FinancialAssessment {
		return assessment.FinancialAssessment{
			DebtToIncome: assessment.DebtToIncomeCheck{Outcome: assessment.Pass(), Ratio: ratio},
		}
	}

	t.Run("soft threshold itself is not reduced", func(t *testing.T) {
		g := assessment.CalculateGrant(property, regulations.HomeTypeSecondHand, regs,
			assessment.EligibilityBreakdown{}, assessment.PropertyAssessment{}, passing(0.30))
		assert.EqualValues(t, 20000, g.ActualAmount)
	})

	t.Run("above soft threshold is reduced", func(t *testing.T) {
		g := assessment.CalculateGrant(property, regulations.HomeTypeSecondHand, regs,
			assessment.EligibilityBreakdown{}, assessment.PropertyAssessment{}, passing(0.3000001))
		assert.EqualValues(t, 20000, g.MaxAmount)
		assert.EqualValues(t, 16000, g.ActualAmount)
	})

	t.Run("below cap uses the rate", func(t *testing.T) {
		g := assessment.CalculateGrant(assessment.PropertyDetails{Price: 250000.6}, regulations.HomeTypeNew, regs,
			assessment.EligibilityBreakdown{}, assessment.PropertyAssessment{}, passing(0.1))
		assert.EqualValues(t, 25000, g.MaxAmount)
		assert.EqualValues(t, 25000, g.ActualAmount)
	})

	t.Run("deposit failure zeroes the actual grant", func(t *testing.T) {
		f := passing(0.1)
		f.Deposit.Outcome = assessment.Fail("short")
		g := assessment.CalculateGrant(property, regulations.HomeTypeSecondHand, regs,
			assessment.EligibilityBreakdown{}, assessment.PropertyAssessment{}, f)
		assert.EqualValues(t, 20000, g.MaxAmount)
		assert.Zero(t, g.ActualAmount)
	})
}

func TestNextSteps_Precedence(t *testing.T) {
	assert.Equal(t, "Review eligibility criteria", assessment.NextSteps(false, true, true)[0])
	assert.Equal(t, "Await manual review by Housing Agency", assessment.NextSteps(true, true, true)[0])
	assert.Equal(t, "Schedule consultation with qualified financial advisor", assessment.NextSteps(true, false, true)[0])
	assert.Equal(t, "Submit HTB application", assessment.NextSteps(true, false, false)[0])
}

func TestRequiresAdvisorReview(t *testing.T) {
	regs := regulations.Default()
	assert.True(t, assessment.RequiresAdvisorReview(20000, 50000, regs))
	assert.True(t, assessment.RequiresAdvisorReview(0, 100000, regs))
	assert.False(t, assessment.RequiresAdvisorReview(19999, 99999, regs))
}

func TestCheck_JSON(t *testing.T) {
	raw, err := json.Marshal(assessment.Fail("too old"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"passed":false,"reason":"too old"}`, string(raw))

	raw, err = json.Marshal(assessment.Pass())
	require.NoError(t, err)
	assert.JSONEq(t, `{"passed":true}`, string(raw))

	var c assessment.Check
	require.Error(t, json.Unmarshal([]byte(`{"passed":true,"reason":"x"}`), &c))
}
