package suggestions

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

type MockPreferenceLoader struct {
	mock.Mock
}

func (m *MockPreferenceLoader) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

type MockTripLoader struct {
	mock.Mock
}

func (m *MockTripLoader) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripLoader) RecentUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trip), args.Error(1)
}

type MockSummaryLoader struct {
	mock.Mock
}

func (m *MockSummaryLoader) Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupPreferenceSummary), args.Error(1)
}

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func newTestService(prefs *MockPreferenceLoader, trips *MockTripLoader, summaries *MockSummaryLoader, client *MockCompletionClient) *ServiceImpl {
	return NewServiceImpl(prefs, trips, summaries, client, zap.NewNop())
}

const validLocationsJSON = `{"locations": [
  {"city": "Kyoto, Japan", "description": "Temples.", "best_for": ["Culture"]},
  {"city": "Porto, Portugal", "description": "Riverside.", "best_for": ["Foodie"]},
  {"city": "Queenstown, New Zealand", "description": "Adventure.", "best_for": ["Adventure"]},
  {"city": "Oaxaca, Mexico", "description": "Markets.", "best_for": ["Foodie"]},
  {"city": "Ljubljana, Slovenia", "description": "Green.", "best_for": ["Relaxation"]}
]}`

func TestSuggestLocationsForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID, ActivityPreferences: []string{"hiking"}}, nil).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Once()
		client.On("Complete", mock.Anything, locationSystemPrompt, mock.MatchedBy(func(prompt string) bool {
			return containsAll(prompt, "--- User Preferences ---", "No past trips recorded.")
		})).Return(validLocationsJSON, nil).Once()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForUser(ctx, userID, models.SuggestionRequest{})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Len(t, result.Locations, 5)
		assert.Equal(t, "Kyoto, Japan", result.Locations[0].City)
		client.AssertExpectations(t)
	})

	t.Run("Missing preferences short-circuits before the completion call", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		prefs.On("GetPreferences", mock.Anything, userID).
			Return(nil, fmt.Errorf("preferences for user %s: %w", userID, models.ErrNotFound)).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Maybe()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForUser(ctx, userID, models.SuggestionRequest{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrNotFound)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Gateway failure surfaces as upstream gateway error", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID}, nil).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Once()
		client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("", fmt.Errorf("completion request failed: %w", models.ErrUpstreamGateway)).Once()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForUser(ctx, userID, models.SuggestionRequest{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrUpstreamGateway)
	})

	t.Run("Unparsable content surfaces as upstream payload error", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID}, nil).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Once()
		client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("Sorry, I cannot help with that.", nil).Once()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForUser(ctx, userID, models.SuggestionRequest{})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrUpstreamPayload)
	})
}

func TestSuggestLocationsForTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	city := "Kyoto"

	t.Run("Supplied group summary wins over the stored one", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		trips.On("GetTrip", mock.Anything, tripID).
			Return(&models.Trip{ID: tripID, City: &city}, nil).Once()
		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID}, nil).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Once()
		client.On("Complete", mock.Anything, locationSystemPrompt, mock.MatchedBy(func(prompt string) bool {
			return containsAll(prompt, "--- Group Preference Summary ---", `"hiking": 2`)
		})).Return(validLocationsJSON, nil).Once()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForTrip(ctx, tripID, models.SuggestionRequest{
			UserID:          userID.String(),
			TripPreferences: &models.GroupPreferenceSummary{TripID: tripID, ActivityCounts: map[string]int{"hiking": 2}},
		})

		require.NoError(t, err)
		assert.Len(t, result.Locations, 5)
		summaries.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Missing trip is terminal", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		trips.On("GetTrip", mock.Anything, tripID).
			Return(nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)).Once()
		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID}, nil).Maybe()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Maybe()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForTrip(ctx, tripID, models.SuggestionRequest{UserID: userID.String()})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrNotFound)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stored summary absence is tolerated", func(t *testing.T) {
		prefs := new(MockPreferenceLoader)
		trips := new(MockTripLoader)
		summaries := new(MockSummaryLoader)
		client := new(MockCompletionClient)

		trips.On("GetTrip", mock.Anything, tripID).
			Return(&models.Trip{ID: tripID, City: &city}, nil).Once()
		prefs.On("GetPreferences", mock.Anything, userID).
			Return(&models.UserPreferences{UserID: userID}, nil).Once()
		trips.On("RecentUserTrips", mock.Anything, userID).
			Return([]*models.Trip{}, nil).Once()
		summaries.On("Get", mock.Anything, tripID).
			Return(nil, fmt.Errorf("preference summary for trip %s: %w", tripID, models.ErrNotFound)).Once()
		client.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return containsAll(prompt, `planning a new trip to "Kyoto"`)
		})).Return(validLocationsJSON, nil).Once()

		service := newTestService(prefs, trips, summaries, client)
		result, err := service.SuggestLocationsForTrip(ctx, tripID, models.SuggestionRequest{UserID: userID.String()})

		require.NoError(t, err)
		assert.Len(t, result.Locations, 5)
	})

	t.Run("Invalid user id", func(t *testing.T) {
		service := newTestService(new(MockPreferenceLoader), new(MockTripLoader), new(MockSummaryLoader), new(MockCompletionClient))

		result, err := service.SuggestLocationsForTrip(ctx, tripID, models.SuggestionRequest{UserID: "not-a-uuid"})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestSuggestTripIdeas(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	prefs := new(MockPreferenceLoader)
	trips := new(MockTripLoader)
	summaries := new(MockSummaryLoader)
	client := new(MockCompletionClient)

	prefs.On("GetPreferences", mock.Anything, userID).
		Return(&models.UserPreferences{UserID: userID}, nil).Once()
	trips.On("RecentUserTrips", mock.Anything, userID).
		Return([]*models.Trip{}, nil).Once()
	client.On("Complete", mock.Anything, tripIdeaSystemPrompt, mock.Anything).
		Return(`{"suggestions": [{"title": "Alps", "description": "d", "city": "Innsbruck, Austria", "duration_days": 3, "suggested_activities": ["Hiking"]}]}`, nil).Once()

	service := newTestService(prefs, trips, summaries, client)
	result, err := service.SuggestTripIdeas(ctx, userID, models.SuggestionRequest{})

	require.NoError(t, err)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Alps", result.Suggestions[0].Title)
	client.AssertExpectations(t)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
