package models

import (
	"time"

	"github.com/google/uuid"
)

// BudgetLevels are the recognized budget histogram keys, cheapest first.
var BudgetLevels = []string{"1", "2", "3", "4"}

// UserPreferences holds a user's stored travel preferences. At most one record
// per user; PUT replaces the whole record.
type UserPreferences struct {
	UserID                  uuid.UUID `json:"userId"`
	Age                     *int      `json:"age,omitempty"`
	Location                *string   `json:"location,omitempty"`
	DietaryRestrictions     []string  `json:"dietaryRestrictions"`
	ActivityPreferences     []string  `json:"activityPreferences"`
	Budget                  *string   `json:"budget,omitempty"`
	TravelStyle             []string  `json:"travelStyle"`
	LifestyleChoices        []string  `json:"lifestyleChoices"`
	AccessibilityNeeds      []string  `json:"accessibilityNeeds"`
	PreferredTransportation []string  `json:"preferredTransportation"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// UpsertPreferencesRequest mirrors the client payload field names of the
// original preference form.
type UpsertPreferencesRequest struct {
	Age           *int     `json:"age"`
	Location      *string  `json:"location"`
	Dietary       []string `json:"dietary"`
	ActivityType  []string `json:"activityType"`
	Budget        *string  `json:"budget"`
	TravelStyle   []string `json:"travelStyle"`
	Lifestyle     []string `json:"lifestyle"`
	Accessibility []string `json:"accessibility"`
	Transport     []string `json:"transport"`
}

// Preferences converts the request into the stored record shape. Missing list
// fields become empty lists, matching the original upsert behaviour.
func (r *UpsertPreferencesRequest) Preferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:                  userID,
		Age:                     r.Age,
		Location:                r.Location,
		DietaryRestrictions:     orEmpty(r.Dietary),
		ActivityPreferences:     orEmpty(r.ActivityType),
		Budget:                  r.Budget,
		TravelStyle:             orEmpty(r.TravelStyle),
		LifestyleChoices:        orEmpty(r.Lifestyle),
		AccessibilityNeeds:      orEmpty(r.Accessibility),
		PreferredTransportation: orEmpty(r.Transport),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// GroupPreferenceSummary is the derived per-trip aggregate of member
// preferences. The whole record is replaced on every recompute.
type GroupPreferenceSummary struct {
	TripID            uuid.UUID      `json:"tripId"`
	ActivityCounts    map[string]int `json:"activityCounts"`
	DietaryCounts     map[string]int `json:"dietaryCounts"`
	LifestyleCounts   map[string]int `json:"lifestyleCounts"`
	TravelStyleCounts map[string]int `json:"travelStyleCounts"`
	BudgetCounts      map[string]int `json:"budgetCounts"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}
