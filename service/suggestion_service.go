package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Aashish23092/form16-tax-advisor/dto"
)

// Suggestion engine thresholds and section ceilings (AY 2024-25).
const (
	regimeSwitchThreshold = 5000.0
	minSuggestionSaving   = 500.0

	limit80C       = 150000.0
	limit80DBase   = 25000.0
	limit80DSenior = 50000.0
	limit80DParent = 25000.0
	limit80CCD1B   = 50000.0
	limit80TTA     = 10000.0
	limit80TTB     = 50000.0
	limitSection24 = 200000.0
	limit80EE      = 50000.0

	seniorCitizenAge = 60

	highEarnerIncome        = 1500000.0
	strategyIncomeThreshold = 2000000.0
	strategyDeductionFloor  = 200000.0
	strategyFixedSaving     = 30000.0
)

// GenerateSuggestions produces ranked, deduction-aware tax-saving
// recommendations. now drives the financial-year-end urgency check and is a
// parameter so the behavior is deterministic under test.
func GenerateSuggestions(grossIncome float64, deductions map[string]float64, assessmentYear string, profile *dto.UserProfile, now time.Time) []dto.Suggestion {
	if profile == nil {
		profile = &dto.UserProfile{}
	}
	if deductions == nil {
		deductions = map[string]float64{}
	}
	totalDeductions := SumDeductions(deductions)

	var suggestions []dto.Suggestion

	// Regime switch first: it dominates everything else when material.
	comparison := CompareRegimes(grossIncome, deductions, false)
	if math.Abs(comparison.Savings) > regimeSwitchThreshold {
		better := comparison.RecommendedRegime
		suggestions = append(suggestions, dto.Suggestion{
			Section: "REGIME",
			SuggestionText: fmt.Sprintf("Switching to the %s tax regime for AY %s would reduce your total tax by ₹%.0f.",
				better, orUnknown(assessmentYear), math.Abs(comparison.Savings)),
			PotentialSaving: math.Abs(comparison.Savings),
			Priority:        1,
			Category:        dto.CategoryStrategy,
			Urgency:         dto.UrgencyHigh,
		})
	}

	suggestions = append(suggestions, sectionHeadroomSuggestions(grossIncome, deductions, totalDeductions, profile)...)

	// Last quarter of the Indian financial year: December through March.
	if isYearEndQuarter(now) && totalDeductions < limit80C {
		additional := limit80C - totalDeductions
		saving := marginalSaving(grossIncome, totalDeductions, additional)
		suggestions = append(suggestions, dto.Suggestion{
			Section: "PLAN",
			SuggestionText: fmt.Sprintf("The financial year ends March 31. Investing the remaining ₹%.0f of your 80C limit now could save ₹%.0f in tax.",
				additional, saving),
			CurrentAmount:   totalDeductions,
			MaxAmount:       limit80C,
			PotentialSaving: saving,
			Priority:        2,
			Category:        dto.CategoryStrategy,
			Urgency:         dto.UrgencyHigh,
		})
	}

	if grossIncome > strategyIncomeThreshold && totalDeductions < strategyDeductionFloor {
		suggestions = append(suggestions, dto.Suggestion{
			Section: "PLAN",
			SuggestionText: "Your income is high but your deductions are minimal. A structured plan combining 80C, NPS and health insurance could lower your tax substantially.",
			CurrentAmount:   totalDeductions,
			PotentialSaving: strategyFixedSaving,
			Priority:        5,
			Category:        dto.CategoryStrategy,
			Urgency:         dto.UrgencyMedium,
		})
	}

	return rankSuggestions(suggestions)
}

func sectionHeadroomSuggestions(grossIncome float64, deductions map[string]float64, totalDeductions float64, profile *dto.UserProfile) []dto.Suggestion {
	var out []dto.Suggestion

	add := func(s dto.Suggestion) { out = append(out, s) }

	// 80C: the staple bucket (PPF, ELSS, EPF, life insurance premium).
	if current := deductions["80C"]; current < limit80C {
		additional := limit80C - current
		urgency := dto.UrgencyMedium
		if current == 0 {
			urgency = dto.UrgencyHigh
		}
		add(dto.Suggestion{
			Section: "80C",
			SuggestionText: fmt.Sprintf("Invest ₹%.0f more in 80C instruments (PPF, ELSS, EPF, life insurance) to reach the ₹%.0f limit.",
				additional, limit80C),
			CurrentAmount:   current,
			MaxAmount:       limit80C,
			PotentialSaving: marginalSaving(grossIncome, totalDeductions, additional),
			Priority:        2,
			Category:        dto.CategoryInvestment,
			Urgency:         urgency,
		})
	}

	// 80D: health insurance, scaled by age and dependent parents.
	max80D := limit80DBase
	if profile.Age >= seniorCitizenAge {
		max80D = limit80DSenior
	}
	if profile.HasDependentParents {
		max80D += limit80DParent
	}
	if current := deductions["80D"]; current < max80D {
		additional := max80D - current
		urgency := dto.UrgencyMedium
		if current == 0 {
			// No health cover at all is the single riskiest gap.
			urgency = dto.UrgencyHigh
		}
		add(dto.Suggestion{
			Section: "80D",
			SuggestionText: fmt.Sprintf("Health insurance premiums up to ₹%.0f are deductible under 80D; you have ₹%.0f of unused limit.",
				max80D, additional),
			CurrentAmount:   current,
			MaxAmount:       max80D,
			PotentialSaving: marginalSaving(grossIncome, totalDeductions, additional),
			Priority:        3,
			Category:        dto.CategoryInsurance,
			Urgency:         urgency,
		})
	}

	// 80CCD(1B): NPS over and above 80C.
	if current := deductions["80CCD(1B)"]; current < limit80CCD1B {
		additional := limit80CCD1B - current
		add(dto.Suggestion{
			Section: "80CCD(1B)",
			SuggestionText: fmt.Sprintf("An additional ₹%.0f in NPS qualifies under 80CCD(1B), over and above the 80C limit.",
				additional),
			CurrentAmount:   current,
			MaxAmount:       limit80CCD1B,
			PotentialSaving: marginalSaving(grossIncome, totalDeductions, additional),
			Priority:        4,
			Category:        dto.CategoryInvestment,
			Urgency:         dto.UrgencyMedium,
		})
	}

	// Savings interest: 80TTB replaces 80TTA for senior citizens.
	ttaSection, ttaLimit := "80TTA", limit80TTA
	if profile.Age >= seniorCitizenAge {
		ttaSection, ttaLimit = "80TTB", limit80TTB
	}
	if current := deductions[ttaSection]; current < ttaLimit {
		add(dto.Suggestion{
			Section: ttaSection,
			SuggestionText: fmt.Sprintf("Interest from savings accounts up to ₹%.0f is deductible under %s.",
				ttaLimit, ttaSection),
			CurrentAmount:   current,
			MaxAmount:       ttaLimit,
			PotentialSaving: marginalSaving(grossIncome, totalDeductions, ttaLimit-current),
			Priority:        6,
			Category:        dto.CategorySavings,
			Urgency:         dto.UrgencyLow,
		})
	}

	if profile.HasHomeLoan {
		// Section 24(b): home loan interest.
		if current := deductions["24(b)"]; current < limitSection24 {
			additional := limitSection24 - current
			add(dto.Suggestion{
				Section: "24(b)",
				SuggestionText: fmt.Sprintf("Home loan interest up to ₹%.0f is deductible under Section 24(b); you are claiming only ₹%.0f.",
					limitSection24, current),
				CurrentAmount:   current,
				MaxAmount:       limitSection24,
				PotentialSaving: marginalSaving(grossIncome, totalDeductions, additional),
				Priority:        3,
				Category:        dto.CategoryLoan,
				Urgency:         dto.UrgencyHigh,
			})
		}
	} else {
		// 80EE: first-time buyer incentive only makes sense without a loan.
		add(dto.Suggestion{
			Section: "80EE",
			SuggestionText: fmt.Sprintf("First-time home buyers can deduct up to ₹%.0f of loan interest under 80EE in addition to Section 24.",
				limit80EE),
			MaxAmount:       limit80EE,
			PotentialSaving: marginalSaving(grossIncome, totalDeductions, limit80EE),
			Priority:        8,
			Category:        dto.CategoryLoan,
			Urgency:         dto.UrgencyLow,
		})
	}

	// 80G: donations for high earners. Estimated against a 10%-of-income cap.
	if grossIncome > highEarnerIncome {
		current := deductions["80G"]
		cap80G := 0.10 * grossIncome
		if current < cap80G {
			add(dto.Suggestion{
				Section: "80G",
				SuggestionText: "Donations to approved charities are deductible under 80G, typically at 50-100% of the donated amount.",
				CurrentAmount:   current,
				MaxAmount:       cap80G,
				PotentialSaving: marginalSaving(grossIncome, totalDeductions, cap80G-current),
				Priority:        7,
				Category:        dto.CategorySavings,
				Urgency:         dto.UrgencyLow,
			})
		}
	}

	return out
}

// marginalSaving estimates the tax effect of claiming an additional amount by
// perturbing the aggregate deduction total under the old regime. This is an
// approximation: it does not attribute the perturbation to the named section,
// so combining several suggestions can over- or understate the joint effect.
func marginalSaving(grossIncome, currentTotal, additional float64) float64 {
	if additional <= 0 {
		return 0
	}
	before := CalculateTax(grossIncome, currentTotal, OldRegimeSlabs(), false).TotalTax
	after := CalculateTax(grossIncome, currentTotal+additional, OldRegimeSlabs(), false).TotalTax
	return before - after
}

func isYearEndQuarter(now time.Time) bool {
	switch now.Month() {
	case time.December, time.January, time.February, time.March:
		return true
	}
	return false
}

var urgencyRank = map[string]int{
	dto.UrgencyHigh:   0,
	dto.UrgencyMedium: 1,
	dto.UrgencyLow:    2,
}

// rankSuggestions drops immaterial suggestions and orders the rest by
// urgency, then potential saving (descending), then declared priority.
func rankSuggestions(suggestions []dto.Suggestion) []dto.Suggestion {
	filtered := suggestions[:0]
	for _, s := range suggestions {
		if s.PotentialSaving >= minSuggestionSaving {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if urgencyRank[filtered[i].Urgency] != urgencyRank[filtered[j].Urgency] {
			return urgencyRank[filtered[i].Urgency] < urgencyRank[filtered[j].Urgency]
		}
		if filtered[i].PotentialSaving != filtered[j].PotentialSaving {
			return filtered[i].PotentialSaving > filtered[j].PotentialSaving
		}
		return filtered[i].Priority < filtered[j].Priority
	})
	return filtered
}

func orUnknown(assessmentYear string) string {
	if assessmentYear == "" {
		return "2024-25"
	}
	return assessmentYear
}
