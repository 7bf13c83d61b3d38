package suggestions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripforge/tripforge/internal/app/models"
)

// locationSystemPrompt instructs the model to answer with the "locations"
// payload shape. The response contract is part of the prompt; the extractor
// still tolerates fenced output because free-tier models routinely add it
// anyway.
const locationSystemPrompt = `You are an expert travel recommendation engine. Your task is to suggest 5 unique travel LOCATIONS (NOT CITIES) that perfectly match the user's preferences and travel style, inferred from their past trips and the details of the trip they are currently planning (if provided).

Your response MUST be a single, valid JSON object. Do not include any other text, explanations, or markdown formatting like ` + "```json" + `. The root of the JSON object must be a key named "locations", which holds an array of 5 location objects.

For each location, provide:
- "city": The location in "City, Country" format.
- "description": A compelling 2-sentence summary explaining WHY this place is a great match for the user based on their specific data and, if relevant, the trip they are planning.
- "best_for": An array of 2-3 keywords describing the vibe (e.g., "Adventure", "Relaxation", "Culture", "Foodie", "Nightlife").

Example of the required JSON structure:
{
  "locations": [
    {
      "city": "Muir Woods National Monument, Mill Valley, CA",
      "description": "Given your interest in hiking, Muir Woods is a serene, scenic escape. Its Redwoods and history align with your wishes for peaceful and beautiful environments.",
      "best_for": ["Culture", "History", "Relaxation"]
    }
  ]
}`

// tripIdeaSystemPrompt instructs the model to answer with the "suggestions"
// payload shape used by the trip-idea endpoint.
const tripIdeaSystemPrompt = `You are an expert travel recommendation engine. Your task is to suggest 5 unique TRIP IDEAS that perfectly match the user's preferences and travel style, inferred from their past trips.

Your response MUST be a single, valid JSON object. Do not include any other text, explanations, or markdown formatting like ` + "```json" + `. The root of the JSON object must be a key named "suggestions", which holds an array of 5 trip objects.

For each trip, provide:
- "title": A short, evocative trip name.
- "description": A compelling 2-sentence summary explaining WHY this trip is a great match for the user based on their specific data.
- "city": The main destination in "City, Country" format.
- "duration_days": A suggested trip length in whole days.
- "suggested_activities": An array of 2-3 activities drawn from the user's interests.

Example of the required JSON structure:
{
  "suggestions": [
    {
      "title": "Redwood Coast Escape",
      "description": "Given your interest in hiking, a few days along the Redwood coast offers serene trails and dramatic scenery. The slow pace fits your preference for relaxed, nature-first travel.",
      "city": "Mill Valley, United States",
      "duration_days": 4,
      "suggested_activities": ["Hiking", "Photography", "Coastal drives"]
    }
  ]
}`

type tripSummary struct {
	Title       string  `json:"title"`
	City        *string `json:"city"`
	Description *string `json:"description"`
}

// FormatDataForPrompt renders a user's preference data, an optional group
// aggregate, and recent trip history into the user-content block sent to the
// completion model. Pure string building; identical inputs always produce
// identical output.
func FormatDataForPrompt(prefs *models.UserPreferences, groupSummary *models.GroupPreferenceSummary, trips []*models.Trip) string {
	var b strings.Builder
	b.WriteString("Here is the user's data:\n")
	b.WriteString("--- User Preferences ---\n")
	b.WriteString(marshalIndent(prefs))

	if groupSummary != nil {
		b.WriteString("\n\n--- Group Preference Summary ---\n")
		b.WriteString(marshalIndent(groupSummary))
	}

	b.WriteString("\n\n--- User's Past Trips ---\n")
	if len(trips) > 0 {
		summaries := make([]tripSummary, 0, len(trips))
		for _, t := range trips {
			summaries = append(summaries, tripSummary{
				Title:       t.Title,
				City:        t.City,
				Description: t.Description,
			})
		}
		b.WriteString(marshalIndent(summaries))
	} else {
		b.WriteString("No past trips recorded.\n")
	}

	return b.String()
}

// AppendTripContext adds the free-text paragraph describing the trip being
// planned. No-op when the context carries nothing.
func AppendTripContext(prompt string, tctx models.TripContext) string {
	if tctx.Empty() {
		return prompt
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nThe user is currently planning a new trip")
	if tctx.Destination != "" {
		fmt.Fprintf(&b, " to %q", tctx.Destination)
	}
	if tctx.StartDate != "" || tctx.EndDate != "" {
		b.WriteString(" for the dates")
		if tctx.StartDate != "" {
			b.WriteString(" starting " + tctx.StartDate)
		}
		if tctx.EndDate != "" {
			b.WriteString(" and ending " + tctx.EndDate)
		}
	}
	if len(tctx.Extra) > 0 {
		// Map marshaling sorts keys, so the paragraph stays deterministic.
		extra, err := json.Marshal(tctx.Extra)
		if err == nil {
			b.WriteString(". Additional trip details: " + string(extra))
		}
	}
	b.WriteString(". Please tailor your suggestions to be especially relevant to this trip, but still offer a variety of options.")
	return b.String()
}

func marshalIndent(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Only reachable with unmarshalable types, which these inputs are not.
		return "{}"
	}
	return string(out)
}
