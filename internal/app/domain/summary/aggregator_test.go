package summary

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tripforge/tripforge/internal/app/models"
)

func strPtr(s string) *string { return &s }

func TestAggregate(t *testing.T) {
	tripID := uuid.New()

	tests := []struct {
		name             string
		members          []*models.UserPreferences
		expectedActivity map[string]int
		expectedDietary  map[string]int
		expectedBudget   map[string]int
	}{
		{
			name: "Two overlapping members",
			members: []*models.UserPreferences{
				{ActivityPreferences: []string{"hiking", "museums"}, Budget: strPtr("3")},
				{ActivityPreferences: []string{"hiking"}, Budget: strPtr("3")},
			},
			expectedActivity: map[string]int{"hiking": 2, "museums": 1},
			expectedDietary:  map[string]int{},
			expectedBudget:   map[string]int{"1": 0, "2": 0, "3": 2, "4": 0},
		},
		{
			name:             "No members",
			members:          nil,
			expectedActivity: map[string]int{},
			expectedDietary:  map[string]int{},
			expectedBudget:   map[string]int{"1": 0, "2": 0, "3": 0, "4": 0},
		},
		{
			name: "Member without record contributes nothing",
			members: []*models.UserPreferences{
				{DietaryRestrictions: []string{"vegan"}, Budget: strPtr("1")},
				nil,
			},
			expectedActivity: map[string]int{},
			expectedDietary:  map[string]int{"vegan": 1},
			expectedBudget:   map[string]int{"1": 1, "2": 0, "3": 0, "4": 0},
		},
		{
			name: "Unrecognized budget level is ignored",
			members: []*models.UserPreferences{
				{Budget: strPtr("5")},
				{Budget: strPtr("luxury")},
				{Budget: strPtr("2")},
			},
			expectedActivity: map[string]int{},
			expectedDietary:  map[string]int{},
			expectedBudget:   map[string]int{"1": 0, "2": 1, "3": 0, "4": 0},
		},
		{
			name: "Labels are case sensitive",
			members: []*models.UserPreferences{
				{ActivityPreferences: []string{"Hiking"}},
				{ActivityPreferences: []string{"hiking"}},
			},
			expectedActivity: map[string]int{"Hiking": 1, "hiking": 1},
			expectedDietary:  map[string]int{},
			expectedBudget:   map[string]int{"1": 0, "2": 0, "3": 0, "4": 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Aggregate(tripID, tc.members)

			assert.Equal(t, tripID, result.TripID)
			assert.Equal(t, tc.expectedActivity, result.ActivityCounts)
			assert.Equal(t, tc.expectedDietary, result.DietaryCounts)
			assert.Equal(t, tc.expectedBudget, result.BudgetCounts)
		})
	}
}

func TestAggregateIdempotent(t *testing.T) {
	tripID := uuid.New()
	members := []*models.UserPreferences{
		{
			ActivityPreferences: []string{"hiking", "museums"},
			DietaryRestrictions: []string{"vegetarian"},
			TravelStyle:         []string{"slow travel"},
			LifestyleChoices:    []string{"early riser"},
			Budget:              strPtr("2"),
		},
		{
			ActivityPreferences: []string{"hiking"},
			Budget:              strPtr("4"),
		},
	}

	first := Aggregate(tripID, members)
	second := Aggregate(tripID, members)

	assert.Equal(t, first, second)
}

func TestAggregateCountsAllCategories(t *testing.T) {
	tripID := uuid.New()
	members := []*models.UserPreferences{
		{
			ActivityPreferences: []string{"surfing"},
			DietaryRestrictions: []string{"halal"},
			LifestyleChoices:    []string{"nightlife"},
			TravelStyle:         []string{"backpacking", "backpacking"},
		},
	}

	result := Aggregate(tripID, members)

	assert.Equal(t, map[string]int{"surfing": 1}, result.ActivityCounts)
	assert.Equal(t, map[string]int{"halal": 1}, result.DietaryCounts)
	assert.Equal(t, map[string]int{"nightlife": 1}, result.LifestyleCounts)
	assert.Equal(t, map[string]int{"backpacking": 2}, result.TravelStyleCounts)
}
