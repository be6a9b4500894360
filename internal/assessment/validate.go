package assessment

import (
	"fmt"
	"strings"
)

// Validate rejects malformed input before any rule runs and fills the
// derived loan-to-value when it was not supplied. It returns the normalised
// application; the receiver is never mutated.
func (a Application) Validate() (Application, error) {
	p := a.Applicant.Personal
	f := a.Applicant.Financial
	e := a.Applicant.Employment

	// Applicant
	if p.Age <= 0 {
		return a, inputError("applicant.personal.age must be positive")
	}
	if strings.TrimSpace(p.Nationality) == "" {
		return a, inputError("applicant.personal.nationality is required")
	}
	if !p.MaritalStatus.IsValid() {
		return a, inputError(fmt.Sprintf("applicant.personal.marital_status %q is not recognised", p.MaritalStatus))
	}
	if strings.TrimSpace(p.PPSNumber) == "" {
		return a, inputError("applicant.personal.pps_number is required")
	}

	if f.GrossAnnualIncome <= 0 {
		return a, inputError("applicant.financial.gross_annual_income must be positive")
	}
	amounts := []struct {
		name  string
		value float64
	}{
		{"partner_income", f.PartnerIncome},
		{"net_monthly_income", f.NetMonthlyIncome},
		{"monthly_expenses", f.MonthlyExpenses},
		{"monthly_debt_payments", f.MonthlyDebtPayments},
		{"deposit_amount", f.DepositAmount},
	}
	for _, amt := range amounts {
		if amt.value < 0 {
			return a, inputError("applicant.financial." + amt.name + " must not be negative")
		}
	}

	if !e.Type.IsValid() {
		return a, inputError(fmt.Sprintf("applicant.employment.type %q is not recognised", e.Type))
	}
	if e.StartDate.IsZero() {
		return a, inputError("applicant.employment.start_date is required")
	}
	if e.Type == EmploymentSelfEmployed && e.BusinessStartDate.IsZero() {
		return a, inputError("applicant.employment.business_start_date is required for self-employed applicants")
	}

	// Property
	if a.Property.Price <= 0 {
		return a, inputError("property.price must be positive")
	}
	if strings.TrimSpace(a.Property.Kind) == "" {
		return a, inputError("property.kind is required")
	}
	if a.Property.AgeYears < 0 {
		return a, inputError("property.age_years must not be negative")
	}
	if a.Property.Valuation.ValuedPrice < 0 {
		return a, inputError("property.valuation.valued_price must not be negative")
	}

	// Mortgage
	m := a.Mortgage
	if m.LoanAmount <= 0 {
		return a, inputError("mortgage.loan_amount must be positive")
	}
	if m.InterestRate < 0 {
		return a, inputError("mortgage.interest_rate must not be negative")
	}
	if m.TermYears <= 0 {
		return a, inputError("mortgage.term_years must be positive")
	}
	if m.LoanToValue < 0 {
		return a, inputError("mortgage.loan_to_value must not be negative")
	}

	out := a
	if out.Mortgage.LoanToValue == 0 {
		out.Mortgage.LoanToValue = m.LoanAmount / a.Property.Price
	}
	return out, nil
}
