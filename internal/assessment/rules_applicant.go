package assessment

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"htb-gateway/internal/regulations"
)

const (
	daysPerMonth = 30
	daysPerYear  = 365
)

// Reasons reported by the first-time-buyer rule, in evaluation order.
const (
	ReasonPreviousOwnership = "Previous property ownership disqualifies from first-time buyer status"
	ReasonInheritedProperty = "Inherited property ownership disqualifies from first-time buyer status"
	ReasonSpouseOwnership   = "Spouse/partner previous ownership disqualifies from first-time buyer status"
)

// EvaluateFirstTimeBuyer fails on the first ownership flag set.
func EvaluateFirstTimeBuyer(p PersonalDetails) FirstTimeBuyerCheck {
	switch {
	case p.PreviousPropertyOwnership:
		return FirstTimeBuyerCheck{Outcome: Fail(ReasonPreviousOwnership)}
	case p.InheritedProperty:
		return FirstTimeBuyerCheck{Outcome: Fail(ReasonInheritedProperty)}
	case p.SpousePropertyHistory:
		return FirstTimeBuyerCheck{Outcome: Fail(ReasonSpouseOwnership)}
	}
	return FirstTimeBuyerCheck{Outcome: Pass()}
}

func EvaluateAge(p PersonalDetails, regs regulations.Set) AgeCheck {
	check := AgeCheck{Outcome: Pass(), Age: p.Age, MinimumAge: regs.Applicant.MinimumAge}
	if p.Age < regs.Applicant.MinimumAge {
		check.Outcome = Fail(fmt.Sprintf("Must be at least %d years old", regs.Applicant.MinimumAge))
	}
	return check
}

func EvaluateResidency(p PersonalDetails, regs regulations.Set) ResidencyCheck {
	check := ResidencyCheck{Outcome: Pass(), Nationality: p.Nationality, IrishResident: p.IrishResident}
	eligible := p.IrishResident || slices.ContainsFunc(regs.Applicant.EligibleNationalities, func(n string) bool {
		return strings.EqualFold(n, strings.TrimSpace(p.Nationality))
	})
	if !eligible {
		check.Outcome = Fail("Must be Irish/EU resident or have Irish residency status")
	}
	return check
}

// EvaluateIncome pools partner income only for couple statuses; a single
// applicant's partner income is ignored.
func EvaluateIncome(p PersonalDetails, f FinancialDetails, regs regulations.Set) IncomeCheck {
	couple := regs.Income.IsCouple(string(p.MaritalStatus))
	household := f.GrossAnnualIncome
	if couple {
		household += f.PartnerIncome
	}
	threshold := regs.IncomeThreshold(string(p.MaritalStatus))

	check := IncomeCheck{Outcome: Pass(), HouseholdIncome: household, Threshold: threshold, Couple: couple}
	if household > threshold {
		kind := "singles"
		if couple {
			kind = "couples"
		}
		check.Outcome = Fail(fmt.Sprintf("Combined income %s exceeds threshold of %s for %s",
			euro(household), euro(threshold), kind))
	}
	return check
}

// EvaluateEmployment judges employees on continuous months employed and
// self-employed applicants on years of trading.
func EvaluateEmployment(e EmploymentDetails, regs regulations.Set, now time.Time) EmploymentCheck {
	check := EmploymentCheck{
		Outcome:        Pass(),
		Type:           e.Type,
		MonthsEmployed: elapsedDays(e.StartDate, now) / daysPerMonth,
	}

	if e.Type == EmploymentSelfEmployed {
		check.TradingYears = float64(elapsedDays(e.BusinessStartDate, now)) / daysPerYear
		if check.TradingYears < regs.Employment.SelfEmployedMinTradingYears {
			check.Outcome = Fail(fmt.Sprintf("Self-employed applicants require minimum %g years trading history",
				regs.Employment.SelfEmployedMinTradingYears))
		}
		return check
	}

	if check.MonthsEmployed < regs.Employment.MinimumMonths {
		check.Outcome = Fail(fmt.Sprintf("Minimum %d months continuous employment required", regs.Employment.MinimumMonths))
	}
	return check
}

// EvaluateCredit applies the score floor to a bureau report.
func EvaluateCredit(score int, bureauPass bool, regs regulations.Set) CreditCheck {
	check := CreditCheck{Outcome: Pass(), Score: score, MinimumScore: regs.Credit.MinimumScore}
	if !bureauPass || score < regs.Credit.MinimumScore {
		check.Outcome = Fail("Credit score below minimum threshold")
	}
	return check
}

// elapsedDays counts whole days from start to now. A zero start counts as zero.
func elapsedDays(start, now time.Time) int {
	if start.IsZero() || !now.After(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}
