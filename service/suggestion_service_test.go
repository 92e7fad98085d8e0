package service

import (
	"testing"
	"time"

	"github.com/Aashish23092/form16-tax-advisor/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var midYear = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func findSuggestion(suggestions []dto.Suggestion, section string) *dto.Suggestion {
	for i := range suggestions {
		if suggestions[i].Section == section {
			return &suggestions[i]
		}
	}
	return nil
}

func TestGenerateSuggestionsRegimeSwitch(t *testing.T) {
	deductions := map[string]float64{"80C": 150000}

	suggestions := GenerateSuggestions(1000000, deductions, "2024-25", nil, midYear)

	regime := findSuggestion(suggestions, "REGIME")
	require.NotNil(t, regime)
	assert.Equal(t, 31200.00, regime.PotentialSaving)
	assert.Equal(t, dto.CategoryStrategy, regime.Category)
	assert.Equal(t, dto.UrgencyHigh, regime.Urgency)
	assert.Contains(t, regime.SuggestionText, "2024-25")

	// 80C is already at its limit, so no headroom suggestion for it.
	assert.Nil(t, findSuggestion(suggestions, "80C"))
}

func TestGenerateSuggestionsOrdering(t *testing.T) {
	deductions := map[string]float64{"80C": 150000}

	suggestions := GenerateSuggestions(1000000, deductions, "", nil, midYear)
	require.NotEmpty(t, suggestions)

	// Urgency first, then potential saving. The regime switch saves the most
	// of the high-urgency group, so it leads.
	assert.Equal(t, "REGIME", suggestions[0].Section)
	for i := 1; i < len(suggestions); i++ {
		prev, cur := suggestions[i-1], suggestions[i]
		if prev.Urgency == cur.Urgency {
			assert.GreaterOrEqual(t, prev.PotentialSaving, cur.PotentialSaving)
		}
	}
}

func TestGenerateSuggestions80CHeadroom(t *testing.T) {
	deductions := map[string]float64{"80C": 100000}

	suggestions := GenerateSuggestions(1200000, deductions, "", nil, midYear)

	s := findSuggestion(suggestions, "80C")
	require.NotNil(t, s)
	assert.Equal(t, 100000.00, s.CurrentAmount)
	assert.Equal(t, 150000.00, s.MaxAmount)
	assert.Equal(t, dto.UrgencyMedium, s.Urgency)
	assert.Equal(t, dto.CategoryInvestment, s.Category)
	// 50,000 more at the 30% bracket saves 15,000 plus cess.
	assert.Equal(t, 15600.00, s.PotentialSaving)
}

func TestGenerateSuggestionsNoDeductionsIsHighUrgency(t *testing.T) {
	suggestions := GenerateSuggestions(1200000, nil, "", nil, midYear)

	for _, section := range []string{"80C", "80D"} {
		s := findSuggestion(suggestions, section)
		require.NotNil(t, s, section)
		assert.Equal(t, dto.UrgencyHigh, s.Urgency, section)
		assert.Zero(t, s.CurrentAmount, section)
	}
}

func TestGenerateSuggestionsSeniorCitizenLimits(t *testing.T) {
	profile := &dto.UserProfile{Age: 65, HasDependentParents: true}

	suggestions := GenerateSuggestions(1200000, nil, "", profile, midYear)

	s80D := findSuggestion(suggestions, "80D")
	require.NotNil(t, s80D)
	assert.Equal(t, 75000.00, s80D.MaxAmount)

	// Seniors get 80TTB instead of 80TTA.
	assert.Nil(t, findSuggestion(suggestions, "80TTA"))
	sTTB := findSuggestion(suggestions, "80TTB")
	require.NotNil(t, sTTB)
	assert.Equal(t, 50000.00, sTTB.MaxAmount)
}

func TestGenerateSuggestionsHomeLoan(t *testing.T) {
	profile := &dto.UserProfile{HasHomeLoan: true}

	suggestions := GenerateSuggestions(1500000, map[string]float64{"24(b)": 50000}, "", profile, midYear)

	s := findSuggestion(suggestions, "24(b)")
	require.NotNil(t, s)
	assert.Equal(t, 50000.00, s.CurrentAmount)
	assert.Equal(t, 200000.00, s.MaxAmount)
	assert.Equal(t, dto.UrgencyHigh, s.Urgency)

	// 80EE targets buyers without an existing loan.
	assert.Nil(t, findSuggestion(suggestions, "80EE"))
}

func TestGenerateSuggestionsYearEndPlan(t *testing.T) {
	december := time.Date(2024, time.December, 10, 9, 0, 0, 0, time.UTC)

	suggestions := GenerateSuggestions(1000000, map[string]float64{"80C": 50000}, "", nil, december)

	plan := findSuggestion(suggestions, "PLAN")
	require.NotNil(t, plan)
	assert.Equal(t, dto.UrgencyHigh, plan.Urgency)
	assert.Contains(t, plan.SuggestionText, "March 31")

	// Same inputs outside the last quarter produce no year-end nudge.
	assert.Nil(t, findSuggestion(GenerateSuggestions(1000000, map[string]float64{"80C": 50000}, "", nil, midYear), "PLAN"))
}

func TestGenerateSuggestionsHighEarnerStrategy(t *testing.T) {
	suggestions := GenerateSuggestions(2500000, map[string]float64{"80C": 150000}, "", nil, midYear)

	var plan *dto.Suggestion
	for i := range suggestions {
		if suggestions[i].Section == "PLAN" && suggestions[i].Category == dto.CategoryStrategy {
			plan = &suggestions[i]
		}
	}
	require.NotNil(t, plan)
	assert.Equal(t, 30000.00, plan.PotentialSaving)
	assert.Equal(t, dto.UrgencyMedium, plan.Urgency)
}

func TestGenerateSuggestionsMaterialityFilter(t *testing.T) {
	// At this income every marginal saving is under the cutoff.
	suggestions := GenerateSuggestions(255000, nil, "", nil, midYear)

	assert.Empty(t, suggestions)
}

func TestRankSuggestionsOrder(t *testing.T) {
	ranked := rankSuggestions([]dto.Suggestion{
		{Section: "A", Urgency: dto.UrgencyLow, PotentialSaving: 9000, Priority: 1},
		{Section: "B", Urgency: dto.UrgencyHigh, PotentialSaving: 1000, Priority: 5},
		{Section: "C", Urgency: dto.UrgencyHigh, PotentialSaving: 4000, Priority: 2},
		{Section: "D", Urgency: dto.UrgencyHigh, PotentialSaving: 4000, Priority: 1},
		{Section: "E", Urgency: dto.UrgencyMedium, PotentialSaving: 100, Priority: 1},
	})

	var order []string
	for _, s := range ranked {
		order = append(order, s.Section)
	}
	assert.Equal(t, []string{"D", "C", "B", "A"}, order)
}

func TestIsYearEndQuarter(t *testing.T) {
	assert.True(t, isYearEndQuarter(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, isYearEndQuarter(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, isYearEndQuarter(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, isYearEndQuarter(time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC)))
}
