package assessment_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htb-gateway/internal/assessment"
	"htb-gateway/internal/regulations"
)

func evaluate(t *testing.T, app assessment.Application) assessment.AssessmentResult {
	t.Helper()
	app, err := app.Validate()
	require.NoError(t, err)
	result, err := assessment.Evaluate(app, goodCredit, regulations.Default(), assessedAt)
	require.NoError(t, err)
	return result
}

func TestEvaluate_SingleSecondHandBuyer(t *testing.T) {
	result := evaluate(t, baselineApplication())

	assert.True(t, result.Eligible)
	assert.False(t, result.Appealable)
	assert.Equal(t, regulations.HomeTypeSecondHand, result.HomeType)
	assert.EqualValues(t, 20000, result.MaxGrantAmount)
	assert.EqualValues(t, 20000, result.ActualGrantAmount)
	assert.InDelta(t, 0.05, result.GrantRate, 1e-12)
	// a grant of exactly the advisor threshold routes to an advisor
	assert.True(t, result.RequiresAdvisorReview)
	assert.False(t, result.RequiresManualReview)
	assert.Empty(t, result.Conditions)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.RequiredActions)
	assert.Equal(t, []string{
		"Schedule consultation with qualified financial advisor",
		"Complete financial advisor assessment",
	}, result.NextSteps)
	assert.Equal(t, 12, result.EstimatedProcessingDays)
	assert.Equal(t, assessment.ComplianceStatus{
		RegulatoryCompliance:   true,
		FinancialAdvisorReview: true,
		AppealRights:           true,
	}, result.Compliance)
	assert.Equal(t, regulations.Default().Version, result.RegulationsVersion)
}

func TestEvaluate_CoupleOverIncomeThreshold(t *testing.T) {
	app := baselineApplication()
	app.Applicant.Personal.MaritalStatus = assessment.MaritalMarried
	app.Applicant.Financial.PartnerIncome = 55000

	result := evaluate(t, app)

	assert.False(t, result.Eligible)
	assert.True(t, result.Appealable)
	assert.True(t, result.Eligibility.Income.Couple)
	assert.Equal(t, 130000.0, result.Eligibility.Income.HouseholdIncome)
	reason, failed := result.Eligibility.Income.Outcome.Reason()
	require.True(t, failed)
	assert.Equal(t, "Combined income €130,000 exceeds threshold of €120,000 for couples", reason)
	assert.Zero(t, result.ActualGrantAmount)
	assert.EqualValues(t, 20000, result.MaxGrantAmount)
	assert.Equal(t, "Review eligibility criteria", result.NextSteps[0])
}

func TestEvaluate_NewHomeOverPriceCap(t *testing.T) {
	app := baselineApplication()
	app.Property.Price = 650000
	app.Property.AgeYears = 1
	app.Property.EnergyRating = "A2"
	app.Property.Valuation.ValuedPrice = 650000
	app.Applicant.Financial.DepositAmount = 65000
	app.Mortgage.LoanAmount = 585000
	app.Mortgage.LoanToValue = 0

	result := evaluate(t, app)

	assert.Equal(t, regulations.HomeTypeNew, result.HomeType)
	assert.True(t, result.Property.Price.Outcome.Failed())
	assert.False(t, result.Eligible)
	assert.True(t, result.Appealable)
	assert.Zero(t, result.ActualGrantAmount)
	assert.EqualValues(t, 30000, result.MaxGrantAmount)
	assert.True(t, result.RequiresManualReview)
	assert.InDelta(t, 0.9, result.Financial.LoanToValue.Ratio, 1e-12)
}

func TestEvaluate_SelfEmployedGoesToManualReview(t *testing.T) {
	app := baselineApplication()
	app.Applicant.Employment = assessment.EmploymentDetails{
		Type:              assessment.EmploymentSelfEmployed,
		StartDate:         assessedAt.AddDate(-3, 0, 0),
		BusinessStartDate: assessedAt.AddDate(-3, 0, 0),
	}

	result := evaluate(t, app)

	assert.True(t, result.Eligible)
	assert.True(t, result.RequiresManualReview)
	assert.True(t, result.Eligibility.Employment.Outcome.Passed())
	assert.InDelta(t, 3.0, result.Eligibility.Employment.TradingYears, 0.01)
	assert.Equal(t, []string{
		"Await manual review by Housing Agency",
		"Provide additional documentation if requested",
	}, result.NextSteps)
	assert.Equal(t, 27, result.EstimatedProcessingDays)
}

func TestEvaluate_NonCriticalFailuresKeepEligibility(t *testing.T) {
	app := baselineApplication()
	app.Property.EnergyRating = "G"
	app.Property.Valuation.Professional = false
	app.Mortgage.TermYears = 40

	result, err := assessment.Evaluate(app, assessment.CreditStanding{Score: 550, Pass: true}, regulations.Default(), assessedAt)
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.True(t, result.Eligibility.Credit.Outcome.Failed())
	assert.Equal(t, []string{
		"Obtain professional property valuation",
		"Upgrade energy rating to D1 or better",
	}, result.RequiredActions)
	assert.Equal(t, []string{
		"Credit history may delay mortgage approval",
		"Mortgage term of 40 years is outside the 5-35 year range accepted by lenders",
	}, result.Warnings)
}

func TestEvaluate_OldPropertyConditions(t *testing.T) {
	app := baselineApplication()
	app.Property.AgeYears = 120

	result := evaluate(t, app)

	assert.True(t, result.RequiresManualReview)
	assert.Equal(t, []string{"Older property requires structural survey"}, result.Conditions)
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	app, err := baselineApplication().Validate()
	require.NoError(t, err)

	first, err := assessment.Evaluate(app, goodCredit, regulations.Default(), assessedAt)
	require.NoError(t, err)
	second, err := assessment.Evaluate(app, goodCredit, regulations.Default(), assessedAt)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluate_ZeroTermIsComputationError(t *testing.T) {
	app := baselineApplication()
	app.Mortgage.TermYears = 0

	_, err := assessment.Evaluate(app, goodCredit, regulations.Default(), assessedAt)
	require.Error(t, err)
	assert.True(t, assessment.IsComputation(err))
}

func TestAssessmentResult_JSONRoundTrip(t *testing.T) {
	result := evaluate(t, baselineApplication())
	result.AssessmentID = uuid.New()
	result.IssuedAt = assessedAt
	result.ValidUntil = assessedAt.AddDate(0, 0, 90)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded assessment.AssessmentResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result, decoded)
	assert.Equal(t, result.ActualGrantAmount, decoded.ActualGrantAmount)
	assert.Equal(t, result.Financial.DebtToIncome.Ratio, decoded.Financial.DebtToIncome.Ratio)
}
