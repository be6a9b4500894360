package assessment

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"htb-gateway/internal/regulations"
)

func EvaluatePropertyType(p PropertyDetails, regs regulations.Set) PropertyTypeCheck {
	check := PropertyTypeCheck{Outcome: Pass(), Kind: p.Kind}
	allowed := slices.ContainsFunc(regs.Property.AllowedTypes, func(t string) bool {
		return strings.EqualFold(t, strings.TrimSpace(p.Kind))
	})
	if !allowed {
		check.Outcome = Fail(fmt.Sprintf("Property type %s not eligible for HTB", p.Kind))
	}
	return check
}

// EvaluatePrice compares the price against the cap for homeType.
func EvaluatePrice(p PropertyDetails, homeType regulations.HomeType, regs regulations.Set) PriceCheck {
	limit := regs.MaxPropertyPrice.For(homeType)
	check := PriceCheck{Outcome: Pass(), Price: p.Price, Limit: limit}
	if p.Price > limit {
		check.Outcome = Fail(fmt.Sprintf("Property price %s exceeds limit of %s for %s homes",
			euro(p.Price), euro(limit), homeTypeLabel(homeType)))
	}
	return check
}

// EvaluatePropertyAge checks the age against the classification already made
// for the property. It never reclassifies.
func EvaluatePropertyAge(p PropertyDetails, homeType regulations.HomeType, regs regulations.Set) PropertyAgeCheck {
	check := PropertyAgeCheck{Outcome: Pass(), AgeYears: p.AgeYears, HomeType: homeType}
	boundary := regs.Property.NewHomeMaxAgeYears
	switch homeType {
	case regulations.HomeTypeNew:
		if p.AgeYears > boundary {
			check.Outcome = Fail(fmt.Sprintf("New homes must be completed within %g years for HTB eligibility", boundary))
		}
	default:
		if p.AgeYears < boundary {
			check.Outcome = Fail(fmt.Sprintf("Second-hand homes must be at least %g years old for HTB eligibility", boundary))
		}
	}
	return check
}

// EvaluateEnergyRating passes when the rating ranks at or above the minimum
// for homeType. Unknown ratings rank below G.
func EvaluateEnergyRating(p PropertyDetails, homeType regulations.HomeType, regs regulations.Set) EnergyCheck {
	required := regs.Property.RequiredEnergyRating.For(homeType)
	check := EnergyCheck{Outcome: Pass(), Rating: p.EnergyRating, Required: required}
	if regulations.EnergyOrdinal(p.EnergyRating) > regulations.EnergyOrdinal(required) {
		check.Outcome = Fail(fmt.Sprintf("Energy rating %s does not meet minimum requirement of %s", p.EnergyRating, required))
	}
	return check
}

// EvaluateLocation fails when the address names an excluded area.
func EvaluateLocation(p PropertyDetails, regs regulations.Set) LocationCheck {
	address := strings.ToLower(p.Address)
	for _, area := range regs.Property.ExcludedAreas {
		if area != "" && strings.Contains(address, strings.ToLower(area)) {
			return LocationCheck{Outcome: Fail("Property located in area not eligible for HTB scheme")}
		}
	}
	return LocationCheck{Outcome: Pass()}
}

// EvaluateValuation requires a recent professional valuation close to the
// agreed price. A valuation without a date is treated as stale.
func EvaluateValuation(p PropertyDetails, regs regulations.Set, now time.Time) ValuationCheck {
	v := p.Valuation
	if !v.Professional {
		return ValuationCheck{Outcome: Fail("Professional valuation required for HTB application")}
	}

	ageDays := regs.Property.MissingValuationDateAgeDays
	if !v.ValuationDate.IsZero() {
		ageDays = elapsedDays(v.ValuationDate, now)
	}
	variance := 0.0
	if p.Price > 0 {
		variance = math.Abs(v.ValuedPrice-p.Price) / p.Price
	}
	check := ValuationCheck{Outcome: Pass(), AgeDays: ageDays, Variance: variance}

	switch {
	case ageDays > regs.Property.ValuationMaxAgeDays:
		check.Outcome = Fail(fmt.Sprintf("Professional valuation must be within %d days of application", regs.Property.ValuationMaxAgeDays))
	case variance > regs.Property.ValuationMaxVariance:
		check.Outcome = Fail(fmt.Sprintf("Valuation variance exceeds %s of agreed price", percent(regs.Property.ValuationMaxVariance)))
	}
	return check
}

func homeTypeLabel(t regulations.HomeType) string {
	if t == regulations.HomeTypeNew {
		return "new"
	}
	return "second-hand"
}
