package assessment

import (
	"fmt"

	"htb-gateway/internal/regulations"
)

func EvaluateDeposit(f FinancialDetails, p PropertyDetails, regs regulations.Set) DepositCheck {
	required := p.Price * regs.MinimumDepositRatio
	check := DepositCheck{Outcome: Pass(), Deposit: f.DepositAmount, Required: required}
	if f.DepositAmount < required {
		check.Outcome = Fail(fmt.Sprintf("Deposit of %s insufficient. Minimum required: %s (%s)",
			euro(f.DepositAmount), euro(required), percent(regs.MinimumDepositRatio)))
	}
	return check
}

// EvaluateDebtToIncome adds the new mortgage repayment to existing monthly
// debt and divides by gross monthly income. Only the hard limit fails the
// check; the soft limit is applied by the grant calculator.
func EvaluateDebtToIncome(f FinancialDetails, m MortgageTerms, regs regulations.Set) (DebtToIncomeCheck, error) {
	if f.GrossAnnualIncome <= 0 {
		return DebtToIncomeCheck{}, computationError("gross annual income must be positive to compute debt-to-income")
	}
	payment, err := MonthlyPayment(m.LoanAmount, m.InterestRate, m.TermYears)
	if err != nil {
		return DebtToIncomeCheck{}, err
	}

	monthlyIncome := f.GrossAnnualIncome / 12
	monthlyDebt := f.MonthlyDebtPayments + payment
	ratio := monthlyDebt / monthlyIncome

	check := DebtToIncomeCheck{Outcome: Pass(), Ratio: ratio, MonthlyDebt: monthlyDebt, MonthlyIncome: monthlyIncome}
	if ratio > regs.Lending.MaxDebtToIncome {
		check.Outcome = Fail(fmt.Sprintf("Debt-to-income ratio %s exceeds maximum of %s",
			percent(ratio), percent(regs.Lending.MaxDebtToIncome)))
	}
	return check, nil
}

// disposableIncome is net monthly income less expenses, substituting the
// regulation defaults for values the applicant did not supply.
func disposableIncome(f FinancialDetails, regs regulations.Set) float64 {
	net := f.NetMonthlyIncome
	if net == 0 {
		net = f.GrossAnnualIncome / 12 * regs.Lending.DefaultNetIncomeShare
	}
	expenses := f.MonthlyExpenses
	if expenses == 0 {
		expenses = net * regs.Lending.DefaultExpenseShare
	}
	return net - expenses
}

// EvaluateAffordability checks the repayment at the offered rate against the
// affordability share of disposable income.
func EvaluateAffordability(f FinancialDetails, m MortgageTerms, regs regulations.Set) (AffordabilityCheck, error) {
	check, err := affordabilityAt(f, m, m.InterestRate, regs)
	if err != nil {
		return AffordabilityCheck{}, err
	}
	if check.Outcome.Failed() {
		check.Outcome = Fail(fmt.Sprintf("Monthly mortgage payment exceeds %s of disposable income",
			percent(regs.Lending.AffordabilityShare)))
	}
	return check, nil
}

// EvaluateStressTest repeats the affordability check with the stress buffer
// added to the offered rate.
func EvaluateStressTest(f FinancialDetails, m MortgageTerms, regs regulations.Set) (AffordabilityCheck, error) {
	rate := m.InterestRate + regs.Lending.StressRateBuffer
	check, err := affordabilityAt(f, m, rate, regs)
	if err != nil {
		return AffordabilityCheck{}, err
	}
	if check.Outcome.Failed() {
		check.Outcome = Fail(fmt.Sprintf("Cannot afford repayments at stress test rate of %.2f%%", rate*100))
	}
	return check, nil
}

func affordabilityAt(f FinancialDetails, m MortgageTerms, rate float64, regs regulations.Set) (AffordabilityCheck, error) {
	payment, err := MonthlyPayment(m.LoanAmount, rate, m.TermYears)
	if err != nil {
		return AffordabilityCheck{}, err
	}
	capacity := disposableIncome(f, regs)
	check := AffordabilityCheck{Outcome: Pass(), Rate: rate, MonthlyPayment: payment, Capacity: capacity}
	if payment > capacity*regs.Lending.AffordabilityShare {
		check.Outcome = Fail("")
	}
	return check, nil
}

func EvaluateLoanToValue(m MortgageTerms, regs regulations.Set) LoanToValueCheck {
	limit := regs.Lending.MaxLoanToValue
	check := LoanToValueCheck{Outcome: Pass(), Ratio: m.LoanToValue, Limit: limit}
	if m.LoanToValue > limit {
		check.Outcome = Fail(fmt.Sprintf("LTV ratio %s exceeds %s limit for first-time buyers",
			percent(m.LoanToValue), percent(limit)))
	}
	return check
}
