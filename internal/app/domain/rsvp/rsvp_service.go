package rsvp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Respond(ctx context.Context, tripID, userID uuid.UUID, status string) (*models.TripRSVP, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.TripRSVP, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.TripRSVP, error)
	AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
	Withdraw(ctx context.Context, tripID, userID uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ParseStatus normalizes a client answer. Clients send lowercase values.
func ParseStatus(raw string) (models.RSVPStatus, error) {
	switch models.RSVPStatus(strings.ToUpper(raw)) {
	case models.RSVPStatusYes:
		return models.RSVPStatusYes, nil
	case models.RSVPStatusNo:
		return models.RSVPStatusNo, nil
	case models.RSVPStatusMaybe:
		return models.RSVPStatusMaybe, nil
	default:
		return "", fmt.Errorf("invalid rsvp status %q: %w", raw, models.ErrValidation)
	}
}

func (s *ServiceImpl) Respond(ctx context.Context, tripID, userID uuid.UUID, status string) (*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPService").Start(ctx, "Respond")
	defer span.End()
	span.SetAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("user.id", userID.String()),
	)

	parsed, err := ParseStatus(status)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid status")
		return nil, err
	}

	rsvp, err := s.repo.Upsert(ctx, tripID, userID, parsed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("RSVP recorded",
		zap.String("tripID", tripID.String()),
		zap.String("userID", userID.String()),
		zap.String("status", string(parsed)))
	span.SetStatus(codes.Ok, "RSVP recorded")
	return rsvp, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPService").Start(ctx, "ListForTrip")
	defer span.End()

	rsvps, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "RSVPs listed")
	return rsvps, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPService").Start(ctx, "ListForUser")
	defer span.End()

	rsvps, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "User RSVPs listed")
	return rsvps, nil
}

func (s *ServiceImpl) AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	ctx, span := otel.Tracer("RSVPService").Start(ctx, "AttendeeIDs")
	defer span.End()

	ids, err := s.repo.AttendeeIDs(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Attendees listed")
	return ids, nil
}

func (s *ServiceImpl) Withdraw(ctx context.Context, tripID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("RSVPService").Start(ctx, "Withdraw")
	defer span.End()

	if err := s.repo.Delete(ctx, tripID, userID); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("RSVP withdrawn",
		zap.String("tripID", tripID.String()), zap.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "RSVP withdrawn")
	return nil
}
