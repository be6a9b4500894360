package assessment_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/regulations"
)

func criticalFailed(r assessment.AssessmentResult) bool {
	for _, c := range []assessment.Check{
		r.Eligibility.FirstTimeBuyer.Outcome,
		r.Eligibility.Age.Outcome,
		r.Eligibility.Residency.Outcome,
		r.Eligibility.Income.Outcome,
		r.Property.Price.Outcome,
		r.Property.Type.Outcome,
		r.Financial.Deposit.Outcome,
		r.Financial.LoanToValue.Outcome,
	} {
		if c.Failed() {
			return true
		}
	}
	return false
}

func TestEvaluate_GrantBoundsHoldAcrossInputs(t *testing.T) {
	regs := regulations.Default()
	rng := rand.New(rand.NewPCG(2025, 6))
	ages := []float64{0, 1, 2, 2.0001, 5, 49, 120}

	for i := range 500 {
		app := baselineApplication()
		app.Property.Price = 50000 + rng.Float64()*900000
		app.Property.AgeYears = ages[rng.IntN(len(ages))]
		app.Property.Valuation.ValuedPrice = app.Property.Price
		app.Applicant.Financial.GrossAnnualIncome = 20000 + rng.Float64()*180000
		app.Applicant.Financial.DepositAmount = rng.Float64() * app.Property.Price * 0.3
		app.Applicant.Financial.MonthlyDebtPayments = rng.Float64() * 2500
		app.Mortgage.LoanAmount = 10000 + rng.Float64()*app.Property.Price
		app.Mortgage.InterestRate = rng.Float64() * 0.09
		app.Mortgage.TermYears = 5 + rng.IntN(31)
		app.Mortgage.LoanToValue = 0

		valid, err := app.Validate()
		require.NoError(t, err, "case %d", i)
		result, err := assessment.Evaluate(valid, goodCredit, regs, assessedAt)
		require.NoError(t, err, "case %d", i)

		limit := int64(regs.Grant.Cap.For(result.HomeType))
		assert.GreaterOrEqual(t, result.ActualGrantAmount, int64(0), "case %d", i)
		assert.LessOrEqual(t, result.ActualGrantAmount, result.MaxGrantAmount, "case %d", i)
		assert.LessOrEqual(t, result.MaxGrantAmount, limit, "case %d", i)
		assert.Equal(t, !criticalFailed(result), result.Eligible, "case %d", i)
		assert.Equal(t, !result.Eligible, result.Appealable, "case %d", i)
		assert.Equal(t, regs.ClassifyHome(app.Property.AgeYears), result.HomeType, "case %d", i)
	}
}

// debtAtHardLimit puts debt-to-income at exactly the 0.35 limit with room to
// spare on affordability at the stress rate: 1,500 repayment plus 687.50
// existing debt against 6,250 gross monthly income.
func debtAtHardLimit() assessment.Application {
	app := baselineApplication()
	app.Applicant.Financial.MonthlyDebtPayments = 687.5
	app.Mortgage.LoanAmount = 180000
	app.Mortgage.InterestRate = 0
	app.Mortgage.TermYears = 10
	app.Mortgage.LoanToValue = 0.45
	return app
}

func TestEvaluate_DebtToIncomeAtHardLimitSkipsManualReview(t *testing.T) {
	result := evaluate(t, debtAtHardLimit())

	require.Equal(t, 0.35, result.Financial.DebtToIncome.Ratio)
	require.False(t, result.Financial.StressTest.Outcome.Failed())
	assert.False(t, result.Financial.DebtToIncome.Outcome.Failed())
	assert.True(t, result.Eligible)
	assert.False(t, result.RequiresManualReview)
	// still above the soft limit, so the grant is cut
	assert.EqualValues(t, 16000, result.ActualGrantAmount)
}

func TestEvaluate_DebtToIncomeAboveHardLimitRequiresManualReview(t *testing.T) {
	app := debtAtHardLimit()
	app.Applicant.Financial.MonthlyDebtPayments += 0.01

	result := evaluate(t, app)

	require.Greater(t, result.Financial.DebtToIncome.Ratio, 0.35)
	require.False(t, result.Financial.StressTest.Outcome.Failed())
	assert.True(t, result.RequiresManualReview)
}
