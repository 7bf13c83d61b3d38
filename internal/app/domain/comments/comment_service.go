package comments

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
	AddComment(ctx context.Context, tripID, authorID uuid.UUID, locationID *uuid.UUID, text string) (*models.Comment, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, authorID uuid.UUID) error
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

func (s *ServiceImpl) AddComment(ctx context.Context, tripID, authorID uuid.UUID, locationID *uuid.UUID, text string) (*models.Comment, error) {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "AddComment")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	if strings.TrimSpace(text) == "" {
		span.SetStatus(codes.Error, "Empty comment")
		return nil, fmt.Errorf("comment text is required: %w", models.ErrValidation)
	}

	comment, err := s.repo.Create(ctx, tripID, authorID, locationID, text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("Comment added",
		zap.String("tripID", tripID.String()), zap.String("commentID", comment.ID.String()))
	span.SetStatus(codes.Ok, "Comment added")
	return comment, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Comment, error) {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "ListForTrip")
	defer span.End()

	comments, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Comments listed")
	return comments, nil
}

func (s *ServiceImpl) DeleteComment(ctx context.Context, commentID, authorID uuid.UUID) error {
	ctx, span := otel.Tracer("CommentService").Start(ctx, "DeleteComment")
	defer span.End()

	if err := s.repo.Delete(ctx, commentID, authorID); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "Comment deleted")
	return nil
}
