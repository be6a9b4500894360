package assessment

import (
	"fmt"
	"math"
)

// MonthlyPayment returns the repayment on an amortising loan.
//
//	P = L * r(1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate and n the term in months. A zero rate repays the
// principal in equal instalments.
func MonthlyPayment(loan, annualRate float64, termYears int) (float64, error) {
	if termYears <= 0 {
		return 0, computationError(fmt.Sprintf("mortgage term must be positive, got %d years", termYears))
	}
	if annualRate < 0 {
		return 0, computationError("interest rate must not be negative")
	}
	n := float64(termYears * 12)
	r := annualRate / 12
	if r == 0 {
		return loan / n, nil
	}
	growth := math.Pow(1+r, n)
	return loan * r * growth / (growth - 1), nil
}
