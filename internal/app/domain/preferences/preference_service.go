package preferences

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreatePreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error)
	UpsertPreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error)
	DeletePreferences(ctx context.Context, userID uuid.UUID) error
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

func (s *ServiceImpl) CreatePreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "CreatePreferences")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	saved, err := s.repo.Create(ctx, req.Preferences(userID))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("Preferences created", zap.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences created")
	return saved, nil
}

func (s *ServiceImpl) UpsertPreferences(ctx context.Context, userID uuid.UUID, req models.UpsertPreferencesRequest) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "UpsertPreferences")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	saved, err := s.repo.Upsert(ctx, req.Preferences(userID))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("Preferences saved", zap.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences saved")
	return saved, nil
}

func (s *ServiceImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "GetPreferences")
	defer span.End()

	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}

func (s *ServiceImpl) GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "GetPreferencesForUsers")
	defer span.End()
	span.SetAttributes(attribute.Int("user.count", len(userIDs)))

	prefs, err := s.repo.GetMany(ctx, userIDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}

func (s *ServiceImpl) DeletePreferences(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "DeletePreferences")
	defer span.End()

	if err := s.repo.Delete(ctx, userID); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("Preferences deleted", zap.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences deleted")
	return nil
}
