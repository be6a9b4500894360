// Package regulations holds the versioned Help-to-Buy rule table. A Set is
// plain data: evaluators receive it as a parameter and never mutate it, so a
// different year or jurisdiction is a different Set, not a code change.
package regulations

import (
	"slices"
	"strings"
)

// HomeType classifies a property for cap and rate selection.
type HomeType string

const (
	HomeTypeNew        HomeType = "new"
	HomeTypeSecondHand HomeType = "second_hand"
)

// ByHomeType is a value that differs between new and second-hand homes.
type ByHomeType[T any] struct {
	New        T `yaml:"new" json:"new"`
	SecondHand T `yaml:"second_hand" json:"second_hand"`
}

// For returns the value for the given home type.
func (b ByHomeType[T]) For(t HomeType) T {
	if t == HomeTypeNew {
		return b.New
	}
	return b.SecondHand
}

// IncomeThresholds are household income ceilings by household kind.
type IncomeThresholds struct {
	Single         float64  `yaml:"single" json:"single"`
	Couple         float64  `yaml:"couple" json:"couple"`
	CoupleStatuses []string `yaml:"couple_statuses" json:"couple_statuses"`
}

// IsCouple reports whether maritalStatus pools partner income.
func (t IncomeThresholds) IsCouple(maritalStatus string) bool {
	return slices.ContainsFunc(t.CoupleStatuses, func(s string) bool {
		return strings.EqualFold(s, maritalStatus)
	})
}

// Applicant holds the personal eligibility limits.
type Applicant struct {
	MinimumAge            int      `yaml:"minimum_age" json:"minimum_age"`
	EligibleNationalities []string `yaml:"eligible_nationalities" json:"eligible_nationalities"`
}

// Employment holds employment-history minimums.
type Employment struct {
	MinimumMonths               int     `yaml:"minimum_months" json:"minimum_months"`
	SelfEmployedMinTradingYears float64 `yaml:"self_employed_min_trading_years" json:"self_employed_min_trading_years"`
}

// Credit holds the credit-score floor.
type Credit struct {
	MinimumScore int `yaml:"minimum_score" json:"minimum_score"`
}

// Property holds the property-level conditions.
type Property struct {
	NewHomeMaxAgeYears          float64            `yaml:"new_home_max_age_years" json:"new_home_max_age_years"`
	AllowedTypes                []string           `yaml:"allowed_types" json:"allowed_types"`
	ExcludedAreas               []string           `yaml:"excluded_areas" json:"excluded_areas"`
	RequiredEnergyRating        ByHomeType[string] `yaml:"required_energy_rating" json:"required_energy_rating"`
	ValuationMaxAgeDays         int                `yaml:"valuation_max_age_days" json:"valuation_max_age_days"`
	MissingValuationDateAgeDays int                `yaml:"missing_valuation_date_age_days" json:"missing_valuation_date_age_days"`
	ValuationMaxVariance        float64            `yaml:"valuation_max_variance" json:"valuation_max_variance"`
}

// Lending holds the mortgage-side ratios.
type Lending struct {
	MaxDebtToIncome       float64 `yaml:"max_debt_to_income" json:"max_debt_to_income"`
	SoftDebtToIncome      float64 `yaml:"soft_debt_to_income" json:"soft_debt_to_income"`
	MaxLoanToValue        float64 `yaml:"max_loan_to_value" json:"max_loan_to_value"`
	StressRateBuffer      float64 `yaml:"stress_rate_buffer" json:"stress_rate_buffer"`
	AffordabilityShare    float64 `yaml:"affordability_share" json:"affordability_share"`
	DefaultNetIncomeShare float64 `yaml:"default_net_income_share" json:"default_net_income_share"`
	DefaultExpenseShare   float64 `yaml:"default_expense_share" json:"default_expense_share"`
	MinTermYears          int     `yaml:"min_term_years" json:"min_term_years"`
	MaxTermYears          int     `yaml:"max_term_years" json:"max_term_years"`
}

// Grant holds the grant sizing rules.
type Grant struct {
	Rate                   ByHomeType[float64] `yaml:"rate" json:"rate"`
	Cap                    ByHomeType[float64] `yaml:"cap" json:"cap"`
	HighDebtToIncomeFactor float64             `yaml:"high_debt_to_income_factor" json:"high_debt_to_income_factor"`
}

// Review holds the thresholds that route an assessment to a human.
type Review struct {
	AdvisorGrantThreshold       float64 `yaml:"advisor_grant_threshold" json:"advisor_grant_threshold"`
	AdvisorIncomeThreshold      float64 `yaml:"advisor_income_threshold" json:"advisor_income_threshold"`
	ManualReviewPropertyAge     float64 `yaml:"manual_review_property_age" json:"manual_review_property_age"`
	StructuralSurveyPropertyAge float64 `yaml:"structural_survey_property_age" json:"structural_survey_property_age"`
}

// Processing holds timing estimates and validity.
type Processing struct {
	InitialAssessmentDays int `yaml:"initial_assessment_days" json:"initial_assessment_days"`
	AdvisorReviewDays     int `yaml:"advisor_review_days" json:"advisor_review_days"`
	FinalApprovalDays     int `yaml:"final_approval_days" json:"final_approval_days"`
	ValidityDays          int `yaml:"validity_days" json:"validity_days"`
}

// Set is one complete, versioned rule table.
type Set struct {
	Version             string              `yaml:"version" json:"version"`
	Jurisdiction        string              `yaml:"jurisdiction" json:"jurisdiction"`
	EffectiveFrom       string              `yaml:"effective_from" json:"effective_from"`
	MaxPropertyPrice    ByHomeType[float64] `yaml:"max_property_price" json:"max_property_price"`
	MinimumDepositRatio float64             `yaml:"minimum_deposit_ratio" json:"minimum_deposit_ratio"`
	Income              IncomeThresholds    `yaml:"income" json:"income"`
	Applicant           Applicant           `yaml:"applicant" json:"applicant"`
	Employment          Employment          `yaml:"employment" json:"employment"`
	Credit              Credit              `yaml:"credit" json:"credit"`
	Property            Property            `yaml:"property" json:"property"`
	Lending             Lending             `yaml:"lending" json:"lending"`
	Grant               Grant               `yaml:"grant" json:"grant"`
	Review              Review              `yaml:"review" json:"review"`
	Processing          Processing          `yaml:"processing" json:"processing"`
}

// ClassifyHome derives the home type from the property age in years.
// A property aged exactly NewHomeMaxAgeYears is still new.
func (s Set) ClassifyHome(ageYears float64) HomeType {
	if ageYears <= s.Property.NewHomeMaxAgeYears {
		return HomeTypeNew
	}
	return HomeTypeSecondHand
}

// IncomeThreshold returns the household ceiling for maritalStatus.
func (s Set) IncomeThreshold(maritalStatus string) float64 {
	if s.Income.IsCouple(maritalStatus) {
		return s.Income.Couple
	}
	return s.Income.Single
}
