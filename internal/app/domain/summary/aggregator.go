package summary

import (
	"slices"

	"github.com/google/uuid"

	"github.com/tripforge/tripforge/internal/app/models"
)

// Aggregate folds member preference records into per-label counts for a trip.
// Labels are counted exactly as stored; no normalization of case or spacing.
// Members without a stored record contribute nothing. The budget histogram
// always carries every recognized level, zeros included, and a budget value
// outside the recognized levels is ignored.
func Aggregate(tripID uuid.UUID, members []*models.UserPreferences) *models.GroupPreferenceSummary {
	s := &models.GroupPreferenceSummary{
		TripID:            tripID,
		ActivityCounts:    map[string]int{},
		DietaryCounts:     map[string]int{},
		LifestyleCounts:   map[string]int{},
		TravelStyleCounts: map[string]int{},
		BudgetCounts:      map[string]int{},
	}
	for _, level := range models.BudgetLevels {
		s.BudgetCounts[level] = 0
	}

	for _, m := range members {
		if m == nil {
			continue
		}
		countLabels(s.ActivityCounts, m.ActivityPreferences)
		countLabels(s.DietaryCounts, m.DietaryRestrictions)
		countLabels(s.LifestyleCounts, m.LifestyleChoices)
		countLabels(s.TravelStyleCounts, m.TravelStyle)
		if m.Budget != nil && slices.Contains(models.BudgetLevels, *m.Budget) {
			s.BudgetCounts[*m.Budget]++
		}
	}

	return s
}

func countLabels(counts map[string]int, labels []string) {
	for _, label := range labels {
		counts[label]++
	}
}
