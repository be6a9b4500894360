package assessment_test

import (
	"time"

	"htb-gateway/internal/assessment"
)

var assessedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// baselineApplication is a single, employed first-time buyer purchasing a
// five-year-old house well inside every limit.
func baselineApplication() assessment.Application {
	return assessment.Application{
		Applicant: assessment.ApplicantProfile{
			Personal: assessment.PersonalDetails{
				Age:           32,
				Nationality:   "Irish",
				IrishResident: true,
				MaritalStatus: assessment.MaritalSingle,
				PPSNumber:     "1234567TA",
			},
			Financial: assessment.FinancialDetails{
				GrossAnnualIncome: 75000,
				NetMonthlyIncome:  6000,
				MonthlyExpenses:   400,
				DepositAmount:     40000,
			},
			Employment: assessment.EmploymentDetails{
				Type:      assessment.EmploymentEmployed,
				StartDate: assessedAt.AddDate(-5, 0, 0),
			},
		},
		Property: assessment.PropertyDetails{
			Price:        400000,
			Kind:         "HOUSE",
			AgeYears:     5,
			EnergyRating: "C1",
			Address:      "12 Main Street, Galway",
			Valuation: assessment.Valuation{
				Professional:  true,
				ValuedPrice:   400000,
				ValuationDate: assessedAt.AddDate(0, 0, -10),
			},
		},
		Mortgage: assessment.MortgageTerms{
			LenderName:   "Bank of Ireland",
			LoanAmount:   340000,
			InterestRate: 0.035,
			TermYears:    30,
			LoanToValue:  0.85,
		},
	}
}

var goodCredit = assessment.CreditStanding{Score: 720, Pass: true}
