package polls

import (
	"context"
	"fmt"
	"slices"
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
	CreatePoll(ctx context.Context, tripID uuid.UUID, question string, options []string) (*models.Poll, error)
	GetPoll(ctx context.Context, pollID uuid.UUID) (*models.Poll, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Poll, error)
	Vote(ctx context.Context, pollID, userID uuid.UUID, option string) (*models.PollVote, error)
	DeletePoll(ctx context.Context, pollID uuid.UUID) error
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

func (s *ServiceImpl) CreatePoll(ctx context.Context, tripID uuid.UUID, question string, options []string) (*models.Poll, error) {
	ctx, span := otel.Tracer("PollService").Start(ctx, "CreatePoll")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	if strings.TrimSpace(question) == "" {
		span.SetStatus(codes.Error, "Missing question")
		return nil, fmt.Errorf("poll question is required: %w", models.ErrValidation)
	}
	if len(options) < 2 {
		span.SetStatus(codes.Error, "Too few options")
		return nil, fmt.Errorf("poll needs at least two options: %w", models.ErrValidation)
	}

	poll, err := s.repo.Create(ctx, tripID, question, options)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("Poll created",
		zap.String("tripID", tripID.String()), zap.String("pollID", poll.ID.String()))
	span.SetStatus(codes.Ok, "Poll created")
	return poll, nil
}

func (s *ServiceImpl) GetPoll(ctx context.Context, pollID uuid.UUID) (*models.Poll, error) {
	ctx, span := otel.Tracer("PollService").Start(ctx, "GetPoll")
	defer span.End()

	poll, err := s.repo.Get(ctx, pollID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Poll fetched")
	return poll, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Poll, error) {
	ctx, span := otel.Tracer("PollService").Start(ctx, "ListForTrip")
	defer span.End()

	polls, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Polls listed")
	return polls, nil
}

// Vote validates that the option belongs to the poll before recording it.
func (s *ServiceImpl) Vote(ctx context.Context, pollID, userID uuid.UUID, option string) (*models.PollVote, error) {
	ctx, span := otel.Tracer("PollService").Start(ctx, "Vote")
	defer span.End()
	span.SetAttributes(attribute.String("poll.id", pollID.String()))

	poll, err := s.repo.Get(ctx, pollID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !slices.Contains(poll.Options, option) {
		span.SetStatus(codes.Error, "Unknown option")
		return nil, fmt.Errorf("option %q is not part of the poll: %w", option, models.ErrValidation)
	}

	vote, err := s.repo.Vote(ctx, pollID, userID, option)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Vote recorded")
	return vote, nil
}

func (s *ServiceImpl) DeletePoll(ctx context.Context, pollID uuid.UUID) error {
	ctx, span := otel.Tracer("PollService").Start(ctx, "DeletePoll")
	defer span.End()

	if err := s.repo.Delete(ctx, pollID); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Poll deleted")
	return nil
}
