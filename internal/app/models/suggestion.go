package models

// LocationSuggestion is one entry of the "locations" suggestion flavor.
type LocationSuggestion struct {
	City        string   `json:"city"`
	Description string   `json:"description"`
	BestFor     []string `json:"best_for"`
}

// LocationSuggestions is the parsed payload returned to callers of the
// location-suggestion endpoints. Never persisted.
type LocationSuggestions struct {
	Locations []LocationSuggestion `json:"locations"`
}

// TripIdea is one entry of the "suggestions" flavor used by the trip-idea
// endpoint.
type TripIdea struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	City                string   `json:"city"`
	DurationDays        int      `json:"duration_days"`
	SuggestedActivities []string `json:"suggested_activities"`
}

type TripIdeas struct {
	Suggestions []TripIdea `json:"suggestions"`
}

// SuggestionRequest is the optional body of the suggestion endpoints. Unknown
// fields are collected as free-form trip context.
type SuggestionRequest struct {
	UserID          string                  `json:"userId"`
	Destination     string                  `json:"destination"`
	StartDate       string                  `json:"startDate"`
	EndDate         string                  `json:"endDate"`
	TripPreferences *GroupPreferenceSummary `json:"tripPreferences"`
	Extra           map[string]any          `json:"-"`
}

// TripContext carries the ad hoc trip fields appended to the prompt.
type TripContext struct {
	Destination string
	StartDate   string
	EndDate     string
	Extra       map[string]any
}

// Empty reports whether no contextual field is present.
func (c TripContext) Empty() bool {
	return c.Destination == "" && c.StartDate == "" && c.EndDate == "" && len(c.Extra) == 0
}
