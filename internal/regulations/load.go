package regulations

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rule table from path. Keys absent from the file keep
// their Default values, so a file only needs to list what changed.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read regulations file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML rule table layered over Default and validates it.
func Parse(data []byte) (Set, error) {
	set := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return Set{}, fmt.Errorf("decode regulations: %w", err)
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate rejects rule tables that would make evaluation meaningless.
func (s Set) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	fraction := func(name string, v float64) {
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in (0, 1]", name))
		}
	}

	if s.Version == "" {
		errs = append(errs, errors.New("version is required"))
	}
	positive("max_property_price.new", s.MaxPropertyPrice.New)
	positive("max_property_price.second_hand", s.MaxPropertyPrice.SecondHand)
	positive("grant.cap.new", s.Grant.Cap.New)
	positive("grant.cap.second_hand", s.Grant.Cap.SecondHand)
	positive("income.single", s.Income.Single)
	positive("income.couple", s.Income.Couple)
	fraction("grant.rate.new", s.Grant.Rate.New)
	fraction("grant.rate.second_hand", s.Grant.Rate.SecondHand)
	fraction("grant.high_debt_to_income_factor", s.Grant.HighDebtToIncomeFactor)
	fraction("minimum_deposit_ratio", s.MinimumDepositRatio)
	fraction("lending.max_debt_to_income", s.Lending.MaxDebtToIncome)
	fraction("lending.soft_debt_to_income", s.Lending.SoftDebtToIncome)
	fraction("lending.max_loan_to_value", s.Lending.MaxLoanToValue)
	fraction("lending.affordability_share", s.Lending.AffordabilityShare)
	fraction("lending.default_net_income_share", s.Lending.DefaultNetIncomeShare)
	fraction("lending.default_expense_share", s.Lending.DefaultExpenseShare)
	fraction("property.valuation_max_variance", s.Property.ValuationMaxVariance)

	if s.Lending.SoftDebtToIncome > s.Lending.MaxDebtToIncome {
		errs = append(errs, errors.New("lending.soft_debt_to_income must not exceed max_debt_to_income"))
	}
	if s.Lending.StressRateBuffer < 0 {
		errs = append(errs, errors.New("lending.stress_rate_buffer must not be negative"))
	}
	if s.Lending.MinTermYears <= 0 || s.Lending.MaxTermYears < s.Lending.MinTermYears {
		errs = append(errs, errors.New("lending term range is invalid"))
	}
	if s.Property.NewHomeMaxAgeYears < 0 {
		errs = append(errs, errors.New("property.new_home_max_age_years must not be negative"))
	}
	if s.Property.ValuationMaxAgeDays <= 0 {
		errs = append(errs, errors.New("property.valuation_max_age_days must be positive"))
	}
	for _, code := range []string{s.Property.RequiredEnergyRating.New, s.Property.RequiredEnergyRating.SecondHand} {
		if !KnownEnergyRating(code) {
			errs = append(errs, fmt.Errorf("unknown required energy rating %q", code))
		}
	}
	if len(s.Property.AllowedTypes) == 0 {
		errs = append(errs, errors.New("property.allowed_types must not be empty"))
	}
	if len(s.Income.CoupleStatuses) == 0 {
		errs = append(errs, errors.New("income.couple_statuses must not be empty"))
	}
	if s.Processing.ValidityDays <= 0 {
		errs = append(errs, errors.New("processing.validity_days must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid regulations %q: %w", s.Version, errors.Join(errs...))
	}
	return nil
}
