package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

type MockSummaryRepo struct {
	mock.Mock
}

func (m *MockSummaryRepo) Upsert(ctx context.Context, s *models.GroupPreferenceSummary) (*models.GroupPreferenceSummary, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupPreferenceSummary), args.Error(1)
}

func (m *MockSummaryRepo) Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupPreferenceSummary), args.Error(1)
}

type MockAttendeeSource struct {
	mock.Mock
}

func (m *MockAttendeeSource) AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockPreferenceSource struct {
	mock.Mock
}

func (m *MockPreferenceSource) GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserPreferences), args.Error(1)
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()
	memberA := uuid.New()
	memberB := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func(*MockSummaryRepo, *MockAttendeeSource, *MockPreferenceSource)
		expectedError bool
		check         func(*testing.T, *models.GroupPreferenceSummary)
	}{
		{
			name: "Aggregates confirmed members",
			setupMocks: func(repo *MockSummaryRepo, attendees *MockAttendeeSource, prefs *MockPreferenceSource) {
				attendees.On("AttendeeIDs", mock.Anything, tripID).
					Return([]uuid.UUID{memberA, memberB}, nil).Once()
				prefs.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{memberA, memberB}).
					Return([]*models.UserPreferences{
						{ActivityPreferences: []string{"hiking", "museums"}, Budget: strPtr("3")},
						{ActivityPreferences: []string{"hiking"}, Budget: strPtr("3")},
					}, nil).Once()
				repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.GroupPreferenceSummary) bool {
					return s.TripID == tripID &&
						s.ActivityCounts["hiking"] == 2 &&
						s.ActivityCounts["museums"] == 1 &&
						s.BudgetCounts["3"] == 2
				})).Return(&models.GroupPreferenceSummary{
					TripID:         tripID,
					ActivityCounts: map[string]int{"hiking": 2, "museums": 1},
				}, nil).Once()
			},
			expectedError: false,
			check: func(t *testing.T, s *models.GroupPreferenceSummary) {
				assert.Equal(t, tripID, s.TripID)
			},
		},
		{
			name: "Member without stored preferences still aggregates",
			setupMocks: func(repo *MockSummaryRepo, attendees *MockAttendeeSource, prefs *MockPreferenceSource) {
				attendees.On("AttendeeIDs", mock.Anything, tripID).
					Return([]uuid.UUID{memberA, memberB}, nil).Once()
				// Only one of the two members has a record.
				prefs.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{memberA, memberB}).
					Return([]*models.UserPreferences{
						{DietaryRestrictions: []string{"vegan"}},
					}, nil).Once()
				repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.GroupPreferenceSummary) bool {
					return s.DietaryCounts["vegan"] == 1
				})).Return(&models.GroupPreferenceSummary{TripID: tripID}, nil).Once()
			},
			expectedError: false,
		},
		{
			name: "Attendee lookup failure",
			setupMocks: func(repo *MockSummaryRepo, attendees *MockAttendeeSource, prefs *MockPreferenceSource) {
				attendees.On("AttendeeIDs", mock.Anything, tripID).
					Return(nil, errors.New("connection refused")).Once()
			},
			expectedError: true,
		},
		{
			name: "Persist failure",
			setupMocks: func(repo *MockSummaryRepo, attendees *MockAttendeeSource, prefs *MockPreferenceSource) {
				attendees.On("AttendeeIDs", mock.Anything, tripID).
					Return([]uuid.UUID{memberA}, nil).Once()
				prefs.On("GetPreferencesForUsers", mock.Anything, []uuid.UUID{memberA}).
					Return([]*models.UserPreferences{}, nil).Once()
				repo.On("Upsert", mock.Anything, mock.Anything).
					Return(nil, errors.New("write failed")).Once()
			},
			expectedError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockSummaryRepo)
			attendees := new(MockAttendeeSource)
			prefs := new(MockPreferenceSource)
			tc.setupMocks(repo, attendees, prefs)

			service := NewServiceImpl(repo, attendees, prefs, zap.NewNop())
			result, err := service.Recompute(ctx, tripID)

			if tc.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				if tc.check != nil {
					tc.check(t, result)
				}
			}

			repo.AssertExpectations(t)
			attendees.AssertExpectations(t)
			prefs.AssertExpectations(t)
		})
	}
}
