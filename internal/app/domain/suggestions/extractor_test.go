package suggestions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/tripforge/internal/app/models"
)

const fencedLocations = "Here are your suggestions!\n```json\n{\n  \"locations\": [\n" +
	"    {\"city\": \"Kyoto, Japan\", \"description\": \"Temples and gardens.\", \"best_for\": [\"Culture\", \"History\"]},\n" +
	"    {\"city\": \"Porto, Portugal\", \"description\": \"Riverside charm.\", \"best_for\": [\"Foodie\", \"Relaxation\"]},\n" +
	"    {\"city\": \"Queenstown, New Zealand\", \"description\": \"Adventure capital.\", \"best_for\": [\"Adventure\"]},\n" +
	"    {\"city\": \"Oaxaca, Mexico\", \"description\": \"Markets and mole.\", \"best_for\": [\"Foodie\", \"Culture\"]},\n" +
	"    {\"city\": \"Ljubljana, Slovenia\", \"description\": \"Compact and green.\", \"best_for\": [\"Relaxation\", \"Culture\"]}\n" +
	"  ]\n}\n```\nEnjoy your trip!"

func TestExtractJSONFencedBlock(t *testing.T) {
	var result models.LocationSuggestions
	err := ExtractJSON(fencedLocations, &result)

	require.NoError(t, err)
	require.Len(t, result.Locations, 5)
	assert.Equal(t, "Kyoto, Japan", result.Locations[0].City)
	assert.Equal(t, []string{"Culture", "History"}, result.Locations[0].BestFor)
	assert.Equal(t, "Ljubljana, Slovenia", result.Locations[4].City)
}

func TestExtractJSONBareObject(t *testing.T) {
	raw := `The model says: {"locations": [{"city": "Kyoto, Japan", "description": "Temples.", "best_for": ["Culture"]}]}`

	var result models.LocationSuggestions
	err := ExtractJSON(raw, &result)

	require.NoError(t, err)
	require.Len(t, result.Locations, 1)
	assert.Equal(t, "Kyoto, Japan", result.Locations[0].City)
}

func TestExtractJSONBareObjectWithNesting(t *testing.T) {
	// The bare branch must span from the first brace to the last so nested
	// objects survive.
	raw := `{"suggestions": [{"title": "Alps", "description": "d", "city": "Innsbruck, Austria", "duration_days": 3, "suggested_activities": ["Hiking"]}]}`

	var result models.TripIdeas
	err := ExtractJSON(raw, &result)

	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, 3, result.Suggestions[0].DurationDays)
}

func TestExtractJSONNoJSONFound(t *testing.T) {
	var result models.LocationSuggestions
	err := ExtractJSON("I could not come up with any suggestions, sorry.", &result)

	assert.ErrorIs(t, err, ErrNoJSONFound)
}

func TestExtractJSONEmptyFencedBlock(t *testing.T) {
	var result models.LocationSuggestions
	err := ExtractJSON("```json\n\n```", &result)

	assert.ErrorIs(t, err, ErrNoJSONFound)
}

func TestExtractJSONMalformed(t *testing.T) {
	raw := "```json\n{\"locations\": [1,2,}\n```"

	var result models.LocationSuggestions
	err := ExtractJSON(raw, &result)

	require.Error(t, err)
	var malformed *MalformedJSONError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, `{"locations": [1,2,}`, malformed.Raw)
}

func TestExtractJSONPrefersFencedOverBare(t *testing.T) {
	raw := "```json\n{\"locations\": []}\n```\ntrailing {\"locations\": [{\"city\": \"x\"}]}"

	var result models.LocationSuggestions
	err := ExtractJSON(raw, &result)

	require.NoError(t, err)
	assert.Empty(t, result.Locations)
}
