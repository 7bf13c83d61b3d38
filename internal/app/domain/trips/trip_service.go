package trips

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
	"github.com/tripforge/tripforge/internal/observability/metrics"
)

// RecentTripLimit is how many past trips feed the suggestion prompt.
const RecentTripLimit = 5

var _ Service = (*ServiceImpl)(nil)

// LocationLister is the slice of the location domain the trip service needs.
type LocationLister interface {
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error)
}

type Service interface {
	CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error)
	ListUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
	RecentUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
	GetTripTimes(ctx context.Context, tripID uuid.UUID) (*models.TripTimes, error)
	UpdateEstimatedTime(ctx context.Context, tripID uuid.UUID, estimated string) error
	UpdateStatus(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID, status models.TripStatus) error
	DeleteTrip(ctx context.Context, tripID, requesterID uuid.UUID) error
	AddLocation(ctx context.Context, tripID, locationID uuid.UUID) error
	RemoveLocation(ctx context.Context, tripID, locationID uuid.UUID) error
	SetLocationOrder(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID, order []string) error
	SweepOverdue(ctx context.Context) (int64, error)
}

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	locations LocationLister
}

func NewServiceImpl(repo Repository, locations LocationLister, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		locations: locations,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip")
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateTrip"), zap.String("hostID", req.HostID))

	hostID, err := uuid.Parse(req.HostID)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid host id")
		return nil, fmt.Errorf("invalid host id %q: %w", req.HostID, models.ErrValidation)
	}
	if req.Title == "" {
		span.SetStatus(codes.Error, "Missing title")
		return nil, fmt.Errorf("trip title is required: %w", models.ErrValidation)
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid start time")
		return nil, fmt.Errorf("invalid start time %q: %w", req.StartTime, models.ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid end time")
		return nil, fmt.Errorf("invalid end time %q: %w", req.EndTime, models.ErrValidation)
	}
	if !end.After(start) {
		span.SetStatus(codes.Error, "End before start")
		return nil, fmt.Errorf("trip must end after it starts: %w", models.ErrValidation)
	}

	trip, err := s.repo.Create(ctx, req, hostID, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.Info("Trip created", zap.String("tripID", trip.ID.String()), zap.String("title", trip.Title))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	trip, err := s.repo.Get(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	locs, err := s.locations.ListForTrip(ctx, tripID)
	if err != nil {
		// The trip itself loaded; serve it without the itinerary detail.
		s.logger.Warn("Failed to load trip locations",
			zap.String("tripID", tripID.String()), zap.Error(err))
	} else {
		trip.Locations = locs
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("trip.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) ListUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListUserTrips")
	defer span.End()

	trips, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "User trips listed")
	return trips, nil
}

func (s *ServiceImpl) RecentUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "RecentUserTrips")
	defer span.End()

	trips, err := s.repo.RecentForUser(ctx, userID, RecentTripLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Recent trips fetched")
	return trips, nil
}

func (s *ServiceImpl) GetTripTimes(ctx context.Context, tripID uuid.UUID) (*models.TripTimes, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTripTimes")
	defer span.End()

	times, err := s.repo.GetTimes(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip times fetched")
	return times, nil
}

func (s *ServiceImpl) UpdateEstimatedTime(ctx context.Context, tripID uuid.UUID, estimated string) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateEstimatedTime")
	defer span.End()

	if estimated == "" {
		span.SetStatus(codes.Error, "Missing estimate")
		return fmt.Errorf("estimated time is required: %w", models.ErrValidation)
	}
	if err := s.repo.UpdateEstimatedTime(ctx, tripID, estimated); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Estimated time updated")
	return nil
}

func (s *ServiceImpl) hostGate(ctx context.Context, tripID, requesterID uuid.UUID) (*models.Trip, error) {
	trip, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.HostID != requesterID {
		return nil, fmt.Errorf("only the host may modify trip %s: %w", tripID, models.ErrForbidden)
	}
	return trip, nil
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID, status models.TripStatus) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("trip.status", string(status)),
	)

	switch status {
	case models.TripStatusPlanning, models.TripStatusActive, models.TripStatusCompleted:
	default:
		span.SetStatus(codes.Error, "Invalid status")
		return fmt.Errorf("invalid trip status %q: %w", status, models.ErrValidation)
	}

	if _, err := s.hostGate(ctx, tripID, requesterID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.repo.UpdateStatus(ctx, tripID, status); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("Trip status updated",
		zap.String("tripID", tripID.String()), zap.String("status", string(status)))
	span.SetStatus(codes.Ok, "Trip status updated")
	return nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, tripID, requesterID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	if _, err := s.hostGate(ctx, tripID, requesterID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.repo.Delete(ctx, tripID); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

func (s *ServiceImpl) AddLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AddLocation")
	defer span.End()

	if err := s.repo.AddLocation(ctx, tripID, locationID); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Location added")
	return nil
}

func (s *ServiceImpl) RemoveLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "RemoveLocation")
	defer span.End()

	if err := s.repo.RemoveLocation(ctx, tripID, locationID); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Location removed")
	return nil
}

func (s *ServiceImpl) SetLocationOrder(ctx context.Context, tripID uuid.UUID, requesterID uuid.UUID, order []string) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "SetLocationOrder")
	defer span.End()

	if _, err := s.hostGate(ctx, tripID, requesterID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.repo.SetLocationOrder(ctx, tripID, order); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Location order updated")
	return nil
}

// SweepOverdue marks every trip past its end time COMPLETED. Invoked by the
// hourly scheduler and safe to call at any time.
func (s *ServiceImpl) SweepOverdue(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "SweepOverdue")
	defer span.End()

	updated, err := s.repo.MarkOverdueCompleted(ctx, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Sweep failed")
		return 0, err
	}

	if m := metrics.Get(); m != nil {
		m.TripSweepUpdatesTotal.Add(ctx, updated)
	}
	if updated > 0 {
		s.logger.Info("Marked overdue trips completed", zap.Int64("count", updated))
	}
	span.SetAttributes(attribute.Int64("trip.swept", updated))
	span.SetStatus(codes.Ok, "Sweep complete")
	return updated, nil
}
