package trips

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

type MockTripRepo struct {
	mock.Mock
}

var _ Repository = (*MockTripRepo)(nil)

func (m *MockTripRepo) Create(ctx context.Context, req models.CreateTripRequest, hostID uuid.UUID, start, end time.Time) (*models.Trip, error) {
	args := m.Called(ctx, req, hostID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) Get(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) List(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trip), args.Error(1)
}

func (m *MockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trip), args.Error(1)
}

func (m *MockTripRepo) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Trip, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trip), args.Error(1)
}

func (m *MockTripRepo) GetTimes(ctx context.Context, tripID uuid.UUID) (*models.TripTimes, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripTimes), args.Error(1)
}

func (m *MockTripRepo) UpdateEstimatedTime(ctx context.Context, tripID uuid.UUID, estimated string) error {
	args := m.Called(ctx, tripID, estimated)
	return args.Error(0)
}

func (m *MockTripRepo) UpdateStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error {
	args := m.Called(ctx, tripID, status)
	return args.Error(0)
}

func (m *MockTripRepo) Delete(ctx context.Context, tripID uuid.UUID) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *MockTripRepo) AddLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	args := m.Called(ctx, tripID, locationID)
	return args.Error(0)
}

func (m *MockTripRepo) RemoveLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	args := m.Called(ctx, tripID, locationID)
	return args.Error(0)
}

func (m *MockTripRepo) SetLocationOrder(ctx context.Context, tripID uuid.UUID, order []string) error {
	args := m.Called(ctx, tripID, order)
	return args.Error(0)
}

func (m *MockTripRepo) MarkOverdueCompleted(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocationLister struct {
	mock.Mock
}

func (m *MockLocationLister) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

func newTripService(repo Repository, locations LocationLister) *ServiceImpl {
	return NewServiceImpl(repo, locations, zap.NewNop())
}

func TestCreateTrip(t *testing.T) {
	hostID := uuid.New()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)

	validReq := models.CreateTripRequest{
		Title:     "Summer in Lisbon",
		HostID:    hostID.String(),
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	}

	tests := []struct {
		name       string
		req        models.CreateTripRequest
		setupMock  func(repo *MockTripRepo)
		wantErr    error
		expectCall bool
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func(repo *MockTripRepo) {
				repo.On("Create", mock.Anything, validReq, hostID, start, end).
					Return(&models.Trip{ID: uuid.New(), Title: validReq.Title, HostID: hostID, Status: models.TripStatusPlanning}, nil)
			},
			expectCall: true,
		},
		{
			name: "missing title",
			req: models.CreateTripRequest{
				HostID:    hostID.String(),
				StartTime: start.Format(time.RFC3339),
				EndTime:   end.Format(time.RFC3339),
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "malformed host id",
			req: models.CreateTripRequest{
				Title:     "Summer in Lisbon",
				HostID:    "not-a-uuid",
				StartTime: start.Format(time.RFC3339),
				EndTime:   end.Format(time.RFC3339),
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "end before start",
			req: models.CreateTripRequest{
				Title:     "Summer in Lisbon",
				HostID:    hostID.String(),
				StartTime: end.Format(time.RFC3339),
				EndTime:   start.Format(time.RFC3339),
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "planning cap reached",
			req:  validReq,
			setupMock: func(repo *MockTripRepo) {
				repo.On("Create", mock.Anything, validReq, hostID, start, end).
					Return(nil, fmt.Errorf("planning trip limit reached: %w", models.ErrConflict))
			},
			wantErr:    models.ErrConflict,
			expectCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTripRepo)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}
			svc := newTripService(repo, new(MockLocationLister))

			trip, err := svc.CreateTrip(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, trip)
				if !tt.expectCall {
					repo.AssertNotCalled(t, "Create")
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Title, trip.Title)
			repo.AssertExpectations(t)
		})
	}
}

func TestGetTripAttachesLocations(t *testing.T) {
	tripID := uuid.New()
	trip := &models.Trip{ID: tripID, Title: "Kyoto", HostID: uuid.New()}
	locs := []models.Location{{ID: uuid.New(), Name: "Fushimi Inari"}}

	repo := new(MockTripRepo)
	repo.On("Get", mock.Anything, tripID).Return(trip, nil)
	lister := new(MockLocationLister)
	lister.On("ListForTrip", mock.Anything, tripID).Return(locs, nil)

	svc := newTripService(repo, lister)
	got, err := svc.GetTrip(context.Background(), tripID)

	require.NoError(t, err)
	assert.Len(t, got.Locations, 1)
	assert.Equal(t, "Fushimi Inari", got.Locations[0].Name)
}

func TestGetTripToleratesLocationFailure(t *testing.T) {
	tripID := uuid.New()
	trip := &models.Trip{ID: tripID, Title: "Kyoto", HostID: uuid.New()}

	repo := new(MockTripRepo)
	repo.On("Get", mock.Anything, tripID).Return(trip, nil)
	lister := new(MockLocationLister)
	lister.On("ListForTrip", mock.Anything, tripID).Return(nil, errors.New("connection reset"))

	svc := newTripService(repo, lister)
	got, err := svc.GetTrip(context.Background(), tripID)

	require.NoError(t, err)
	assert.Empty(t, got.Locations)
}

func TestUpdateStatus(t *testing.T) {
	tripID := uuid.New()
	hostID := uuid.New()
	stranger := uuid.New()
	trip := &models.Trip{ID: tripID, HostID: hostID, Status: models.TripStatusPlanning}

	tests := []struct {
		name      string
		requester uuid.UUID
		status    models.TripStatus
		setupMock func(repo *MockTripRepo)
		wantErr   error
	}{
		{
			name:      "host promotes to active",
			requester: hostID,
			status:    models.TripStatusActive,
			setupMock: func(repo *MockTripRepo) {
				repo.On("Get", mock.Anything, tripID).Return(trip, nil)
				repo.On("UpdateStatus", mock.Anything, tripID, models.TripStatusActive).Return(nil)
			},
		},
		{
			name:      "non-host rejected",
			requester: stranger,
			status:    models.TripStatusActive,
			setupMock: func(repo *MockTripRepo) {
				repo.On("Get", mock.Anything, tripID).Return(trip, nil)
			},
			wantErr: models.ErrForbidden,
		},
		{
			name:      "unknown status rejected",
			requester: hostID,
			status:    models.TripStatus("CANCELLED"),
			wantErr:   models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTripRepo)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}
			svc := newTripService(repo, new(MockLocationLister))

			err := svc.UpdateStatus(context.Background(), tripID, tt.requester, tt.status)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateStatus")
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestDeleteTripHostOnly(t *testing.T) {
	tripID := uuid.New()
	hostID := uuid.New()
	trip := &models.Trip{ID: tripID, HostID: hostID, Status: models.TripStatusPlanning}

	repo := new(MockTripRepo)
	repo.On("Get", mock.Anything, tripID).Return(trip, nil)

	svc := newTripService(repo, new(MockLocationLister))
	err := svc.DeleteTrip(context.Background(), tripID, uuid.New())

	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "Delete")
}

func TestSweepOverdue(t *testing.T) {
	repo := new(MockTripRepo)
	repo.On("MarkOverdueCompleted", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil)

	svc := newTripService(repo, new(MockLocationLister))
	updated, err := svc.SweepOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	repo.AssertExpectations(t)
}

func TestUpdateEstimatedTimeRequiresValue(t *testing.T) {
	repo := new(MockTripRepo)
	svc := newTripService(repo, new(MockLocationLister))

	err := svc.UpdateEstimatedTime(context.Background(), uuid.New(), "")

	assert.ErrorIs(t, err, models.ErrValidation)
	repo.AssertNotCalled(t, "UpdateEstimatedTime")
}
