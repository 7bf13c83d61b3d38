package suggestions

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tripforge/tripforge/internal/app/models"
)

func strPtr(s string) *string { return &s }

func samplePreferences() *models.UserPreferences {
	return &models.UserPreferences{
		UserID:              uuid.MustParse("7d9a7f2e-51f4-43cd-9c4c-37e1bcbcbd0a"),
		ActivityPreferences: []string{"hiking", "museums"},
		DietaryRestrictions: []string{"vegetarian"},
		TravelStyle:         []string{"slow travel"},
		Budget:              strPtr("3"),
	}
}

func TestFormatDataForPromptDeterministic(t *testing.T) {
	prefs := samplePreferences()
	trips := []*models.Trip{
		{Title: "Alps Weekend", City: strPtr("Innsbruck"), Description: strPtr("Short hiking trip")},
		{Title: "Lisbon Food Tour", City: strPtr("Lisbon")},
	}

	first := FormatDataForPrompt(prefs, nil, trips)
	second := FormatDataForPrompt(prefs, nil, trips)

	assert.Equal(t, first, second)
}

func TestFormatDataForPromptSections(t *testing.T) {
	prefs := samplePreferences()
	trips := []*models.Trip{
		{Title: "Alps Weekend", City: strPtr("Innsbruck"), Description: strPtr("Short hiking trip")},
	}

	prompt := FormatDataForPrompt(prefs, nil, trips)

	assert.True(t, strings.HasPrefix(prompt, "Here is the user's data:\n"))
	assert.Contains(t, prompt, "--- User Preferences ---")
	assert.Contains(t, prompt, "--- User's Past Trips ---")
	assert.Contains(t, prompt, `"hiking"`)
	assert.Contains(t, prompt, `"Alps Weekend"`)
	assert.Contains(t, prompt, `"Innsbruck"`)
	assert.NotContains(t, prompt, "Group Preference Summary")
	assert.NotContains(t, prompt, "No past trips recorded.")
}

func TestFormatDataForPromptEmptyHistory(t *testing.T) {
	prompt := FormatDataForPrompt(samplePreferences(), nil, nil)

	assert.Contains(t, prompt, "--- User's Past Trips ---")
	assert.Contains(t, prompt, "No past trips recorded.\n")
}

func TestFormatDataForPromptGroupSummary(t *testing.T) {
	summary := &models.GroupPreferenceSummary{
		TripID:         uuid.New(),
		ActivityCounts: map[string]int{"hiking": 2},
		BudgetCounts:   map[string]int{"1": 0, "2": 0, "3": 2, "4": 0},
	}

	prompt := FormatDataForPrompt(samplePreferences(), summary, nil)

	assert.Contains(t, prompt, "--- Group Preference Summary ---")
	assert.Contains(t, prompt, `"hiking": 2`)
}

func TestAppendTripContext(t *testing.T) {
	base := "prompt body"

	tests := []struct {
		name     string
		tctx     models.TripContext
		expected []string
		absent   []string
	}{
		{
			name:     "Empty context leaves prompt untouched",
			tctx:     models.TripContext{},
			absent:   []string{"planning a new trip"},
			expected: nil,
		},
		{
			name: "Destination and dates",
			tctx: models.TripContext{Destination: "Kyoto", StartDate: "2026-04-01", EndDate: "2026-04-08"},
			expected: []string{
				`planning a new trip to "Kyoto"`,
				"starting 2026-04-01",
				"and ending 2026-04-08",
				"tailor your suggestions",
			},
		},
		{
			name:     "Extra fields serialized",
			tctx:     models.TripContext{Extra: map[string]any{"groupSize": float64(4)}},
			expected: []string{"Additional trip details:", `"groupSize":4`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendTripContext(base, tc.tctx)
			assert.True(t, strings.HasPrefix(result, base))
			for _, want := range tc.expected {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tc.absent {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}

func TestAppendTripContextDeterministicExtras(t *testing.T) {
	tctx := models.TripContext{Extra: map[string]any{"b": "2", "a": "1", "c": "3"}}

	first := AppendTripContext("p", tctx)
	second := AppendTripContext("p", tctx)

	assert.Equal(t, first, second)
}
