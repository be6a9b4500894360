package assessment

import (
	"math"

	"htb-gateway/internal/regulations"
)

// CalculateGrant sizes the incentive for a property already classified as
// homeType.
//
// The maximum is min(price × rate, cap) truncated to whole euro, so the
// rounded actual amount can never exceed it. The actual amount is zero when
// income, price, or deposit fails, and is cut by the high-DTI factor when the
// ratio is strictly above the soft threshold.
func CalculateGrant(
	p PropertyDetails,
	homeType regulations.HomeType,
	regs regulations.Set,
	eligibility EligibilityBreakdown,
	property PropertyAssessment,
	financial FinancialAssessment,
) Grant {
	rate := regs.Grant.Rate.For(homeType)
	maxAmount := math.Floor(math.Min(p.Price*rate, regs.Grant.Cap.For(homeType)))
	if maxAmount < 0 {
		maxAmount = 0
	}
	grant := Grant{Rate: rate, MaxAmount: int64(maxAmount)}

	if eligibility.Income.Outcome.Failed() ||
		property.Price.Outcome.Failed() ||
		financial.Deposit.Outcome.Failed() {
		return grant
	}

	actual := maxAmount
	if financial.DebtToIncome.Ratio > regs.Lending.SoftDebtToIncome {
		actual *= regs.Grant.HighDebtToIncomeFactor
	}
	grant.ActualAmount = int64(math.Round(actual))
	return grant
}
