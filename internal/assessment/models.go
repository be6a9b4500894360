package assessment

import (
	"time"

	"github.com/google/uuid"

	"htb-gateway/internal/regulations"
)

// MaritalStatus of the primary applicant. Whether partner income is pooled
// is decided by the regulation table, not by this type.
type MaritalStatus string

const (
	MaritalSingle           MaritalStatus = "SINGLE"
	MaritalMarried          MaritalStatus = "MARRIED"
	MaritalCivilPartnership MaritalStatus = "CIVIL_PARTNERSHIP"
	MaritalCohabiting       MaritalStatus = "COHABITING"
	MaritalSeparated        MaritalStatus = "SEPARATED"
	MaritalDivorced         MaritalStatus = "DIVORCED"
	MaritalWidowed          MaritalStatus = "WIDOWED"
)

var maritalStatuses = map[MaritalStatus]bool{
	MaritalSingle: true, MaritalMarried: true, MaritalCivilPartnership: true,
	MaritalCohabiting: true, MaritalSeparated: true, MaritalDivorced: true, MaritalWidowed: true,
}

// IsValid reports whether s is a recognised marital status.
func (s MaritalStatus) IsValid() bool { return maritalStatuses[s] }

// EmploymentType distinguishes PAYE employees from self-employed applicants.
type EmploymentType string

const (
	EmploymentEmployed     EmploymentType = "EMPLOYED"
	EmploymentSelfEmployed EmploymentType = "SELF_EMPLOYED"
)

// IsValid reports whether t is a recognised employment type.
func (t EmploymentType) IsValid() bool {
	return t == EmploymentEmployed || t == EmploymentSelfEmployed
}

// PersonalDetails of the primary applicant.
type PersonalDetails struct {
	Age                       int           `json:"age"`
	Nationality               string        `json:"nationality"`
	IrishResident             bool          `json:"irish_resident"`
	MaritalStatus             MaritalStatus `json:"marital_status"`
	PPSNumber                 string        `json:"pps_number"`
	PreviousPropertyOwnership bool          `json:"previous_property_ownership"`
	InheritedProperty         bool          `json:"inherited_property"`
	SpousePropertyHistory     bool          `json:"spouse_property_history"`
}

// FinancialDetails in whole euro. Zero NetMonthlyIncome or MonthlyExpenses
// means "not supplied" and is replaced by the regulation defaults.
type FinancialDetails struct {
	GrossAnnualIncome   float64 `json:"gross_annual_income"`
	PartnerIncome       float64 `json:"partner_income"`
	NetMonthlyIncome    float64 `json:"net_monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	MonthlyDebtPayments float64 `json:"monthly_debt_payments"`
	DepositAmount       float64 `json:"deposit_amount"`
}

// EmploymentDetails of the primary applicant.
type EmploymentDetails struct {
	Type              EmploymentType `json:"type"`
	StartDate         time.Time      `json:"start_date"`
	BusinessStartDate time.Time      `json:"business_start_date"`
}

// ApplicantProfile bundles everything known about the applicant household.
type ApplicantProfile struct {
	Personal   PersonalDetails   `json:"personal"`
	Financial  FinancialDetails  `json:"financial"`
	Employment EmploymentDetails `json:"employment"`
}

// Valuation of the property by a professional valuer.
type Valuation struct {
	Professional  bool      `json:"professional"`
	ValuedPrice   float64   `json:"valued_price"`
	ValuationDate time.Time `json:"valuation_date"`
}

// PropertyDetails of the home being bought.
type PropertyDetails struct {
	Price        float64   `json:"price"`
	Kind         string    `json:"kind"`
	AgeYears     float64   `json:"age_years"`
	EnergyRating string    `json:"energy_rating"`
	Address      string    `json:"address"`
	Valuation    Valuation `json:"valuation"`
}

// MortgageTerms offered by the lender. A zero LoanToValue is derived from
// LoanAmount and the property price during validation.
type MortgageTerms struct {
	LenderName   string  `json:"lender_name"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	TermYears    int     `json:"term_years"`
	LoanToValue  float64 `json:"loan_to_value"`
}

// Application is the complete assessment input.
type Application struct {
	Applicant ApplicantProfile `json:"applicant"`
	Property  PropertyDetails  `json:"property"`
	Mortgage  MortgageTerms    `json:"mortgage"`
}

// -----------------------------------------------------------------------------
// Eligibility breakdown
// -----------------------------------------------------------------------------

type FirstTimeBuyerCheck struct {
	Outcome Check `json:"outcome"`
}

type AgeCheck struct {
	Outcome    Check `json:"outcome"`
	Age        int   `json:"age"`
	MinimumAge int   `json:"minimum_age"`
}

type ResidencyCheck struct {
	Outcome       Check  `json:"outcome"`
	Nationality   string `json:"nationality"`
	IrishResident bool   `json:"irish_resident"`
}

type IncomeCheck struct {
	Outcome         Check   `json:"outcome"`
	HouseholdIncome float64 `json:"household_income"`
	Threshold       float64 `json:"threshold"`
	Couple          bool    `json:"couple"`
}

type EmploymentCheck struct {
	Outcome        Check          `json:"outcome"`
	Type           EmploymentType `json:"type"`
	MonthsEmployed int            `json:"months_employed"`
	TradingYears   float64        `json:"trading_years,omitempty"`
}

type CreditCheck struct {
	Outcome      Check `json:"outcome"`
	Score        int   `json:"score"`
	MinimumScore int   `json:"minimum_score"`
}

// EligibilityBreakdown holds the applicant-side dimensions.
type EligibilityBreakdown struct {
	FirstTimeBuyer FirstTimeBuyerCheck `json:"first_time_buyer"`
	Age            AgeCheck            `json:"age"`
	Residency      ResidencyCheck      `json:"residency"`
	Income         IncomeCheck         `json:"income"`
	Employment     EmploymentCheck     `json:"employment"`
	Credit         CreditCheck         `json:"credit"`
}

// -----------------------------------------------------------------------------
// Property assessment
// -----------------------------------------------------------------------------

type PropertyTypeCheck struct {
	Outcome Check  `json:"outcome"`
	Kind    string `json:"kind"`
}

type PriceCheck struct {
	Outcome Check   `json:"outcome"`
	Price   float64 `json:"price"`
	Limit   float64 `json:"limit"`
}

type PropertyAgeCheck struct {
	Outcome  Check                `json:"outcome"`
	AgeYears float64              `json:"age_years"`
	HomeType regulations.HomeType `json:"home_type"`
}

type EnergyCheck struct {
	Outcome  Check  `json:"outcome"`
	Rating   string `json:"rating"`
	Required string `json:"required"`
}

type LocationCheck struct {
	Outcome Check `json:"outcome"`
}

type ValuationCheck struct {
	Outcome  Check   `json:"outcome"`
	AgeDays  int     `json:"age_days"`
	Variance float64 `json:"variance"`
}

// PropertyAssessment holds the property-side dimensions.
type PropertyAssessment struct {
	Type      PropertyTypeCheck `json:"type"`
	Price     PriceCheck        `json:"price"`
	Age       PropertyAgeCheck  `json:"age"`
	Energy    EnergyCheck       `json:"energy"`
	Location  LocationCheck     `json:"location"`
	Valuation ValuationCheck    `json:"valuation"`
}

// -----------------------------------------------------------------------------
// Financial assessment
// -----------------------------------------------------------------------------

type DepositCheck struct {
	Outcome  Check   `json:"outcome"`
	Deposit  float64 `json:"deposit"`
	Required float64 `json:"required"`
}

type DebtToIncomeCheck struct {
	Outcome       Check   `json:"outcome"`
	Ratio         float64 `json:"ratio"`
	MonthlyDebt   float64 `json:"monthly_debt"`
	MonthlyIncome float64 `json:"monthly_income"`
}

// AffordabilityCheck compares a repayment against disposable income. It is
// used for both the offered rate and the stressed rate.
type AffordabilityCheck struct {
	Outcome        Check   `json:"outcome"`
	Rate           float64 `json:"rate"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Capacity       float64 `json:"capacity"`
}

type LoanToValueCheck struct {
	Outcome Check   `json:"outcome"`
	Ratio   float64 `json:"ratio"`
	Limit   float64 `json:"limit"`
}

// FinancialAssessment holds the lending-side dimensions.
type FinancialAssessment struct {
	Deposit       DepositCheck       `json:"deposit"`
	DebtToIncome  DebtToIncomeCheck  `json:"debt_to_income"`
	Affordability AffordabilityCheck `json:"affordability"`
	StressTest    AffordabilityCheck `json:"stress_test"`
	LoanToValue   LoanToValueCheck   `json:"loan_to_value"`
}

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Grant is the sized incentive in whole euro.
type Grant struct {
	Rate         float64 `json:"rate"`
	MaxAmount    int64   `json:"max_amount"`
	ActualAmount int64   `json:"actual_amount"`
}

// ComplianceStatus summarises the regulatory obligations attached to a result.
type ComplianceStatus struct {
	RegulatoryCompliance   bool `json:"regulatory_compliance"`
	FinancialAdvisorReview bool `json:"financial_advisor_review"`
	AppealRights           bool `json:"appeal_rights"`
}

// RequiredDocument is one entry of the applicant's document checklist.
type RequiredDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Mandatory bool      `json:"mandatory"`
	DueBy     time.Time `json:"due_by"`
}

// AssessmentResult is the terminal output of one assessment.
type AssessmentResult struct {
	AssessmentID            uuid.UUID            `json:"assessment_id"`
	Eligible                bool                 `json:"eligible"`
	Appealable              bool                 `json:"appealable"`
	HomeType                regulations.HomeType `json:"home_type"`
	RegulationsVersion      string               `json:"regulations_version"`
	MaxGrantAmount          int64                `json:"max_grant_amount"`
	ActualGrantAmount       int64                `json:"actual_grant_amount"`
	GrantRate               float64              `json:"grant_rate"`
	Eligibility             EligibilityBreakdown `json:"eligibility"`
	Property                PropertyAssessment   `json:"property"`
	Financial               FinancialAssessment  `json:"financial"`
	RequiresManualReview    bool                 `json:"requires_manual_review"`
	RequiresAdvisorReview   bool                 `json:"requires_advisor_review"`
	Compliance              ComplianceStatus     `json:"compliance"`
	Conditions              []string             `json:"conditions"`
	Warnings                []string             `json:"warnings"`
	NextSteps               []string             `json:"next_steps"`
	RequiredActions         []string             `json:"required_actions"`
	RequiredDocuments       []RequiredDocument   `json:"required_documents"`
	AssessedBy              string               `json:"assessed_by"`
	IssuedAt                time.Time            `json:"issued_at"`
	ValidUntil              time.Time            `json:"valid_until"`
	EstimatedProcessingDays int                  `json:"estimated_processing_days"`
}
