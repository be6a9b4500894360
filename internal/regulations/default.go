package regulations

// Default returns the 2025 Irish Help-to-Buy rule table.
func Default() Set {
	return Set{
		Version:       "IE-HTB-2025.1",
		Jurisdiction:  "IE",
		EffectiveFrom: "2025-01-01",
		MaxPropertyPrice: ByHomeType[float64]{
			New:        600000,
			SecondHand: 500000,
		},
		MinimumDepositRatio: 0.10,
		Income: IncomeThresholds{
			Single:         80000,
			Couple:         120000,
			CoupleStatuses: []string{"MARRIED", "CIVIL_PARTNERSHIP"},
		},
		Applicant: Applicant{
			MinimumAge:            18,
			EligibleNationalities: []string{"Irish", "EU", "EEA"},
		},
		Employment: Employment{
			MinimumMonths:               12,
			SelfEmployedMinTradingYears: 2,
		},
		Credit: Credit{MinimumScore: 600},
		Property: Property{
			NewHomeMaxAgeYears: 2,
			AllowedTypes:       []string{"HOUSE", "APARTMENT", "DUPLEX", "BUNGALOW", "TOWNHOUSE", "SELF_BUILD"},
			ExcludedAreas:      []string{},
			RequiredEnergyRating: ByHomeType[string]{
				New:        "B3",
				SecondHand: "D1",
			},
			ValuationMaxAgeDays:         90,
			MissingValuationDateAgeDays: 365,
			ValuationMaxVariance:        0.05,
		},
		Lending: Lending{
			MaxDebtToIncome:       0.35,
			SoftDebtToIncome:      0.30,
			MaxLoanToValue:        0.90,
			StressRateBuffer:      0.02,
			AffordabilityShare:    0.35,
			DefaultNetIncomeShare: 0.70,
			DefaultExpenseShare:   0.40,
			MinTermYears:          5,
			MaxTermYears:          35,
		},
		Grant: Grant{
			Rate:                   ByHomeType[float64]{New: 0.10, SecondHand: 0.05},
			Cap:                    ByHomeType[float64]{New: 30000, SecondHand: 20000},
			HighDebtToIncomeFactor: 0.8,
		},
		Review: Review{
			AdvisorGrantThreshold:       20000,
			AdvisorIncomeThreshold:      100000,
			ManualReviewPropertyAge:     100,
			StructuralSurveyPropertyAge: 50,
		},
		Processing: Processing{
			InitialAssessmentDays: 5,
			AdvisorReviewDays:     7,
			FinalApprovalDays:     15,
			ValidityDays:          90,
		},
	}
}
