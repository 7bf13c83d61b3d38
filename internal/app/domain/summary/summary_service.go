package summary

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

// AttendeeSource yields the user ids whose preferences feed the aggregate.
type AttendeeSource interface {
	AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
}

// PreferenceSource loads the stored preference records for a set of users.
type PreferenceSource interface {
	GetPreferencesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error)
}

type Service interface {
	Recompute(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error)
	Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error)
}

type ServiceImpl struct {
	logger      *zap.Logger
	repo        Repository
	attendees   AttendeeSource
	preferences PreferenceSource
}

func NewServiceImpl(repo Repository, attendees AttendeeSource, preferences PreferenceSource, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		attendees:   attendees,
		preferences: preferences,
	}
}

// Recompute rebuilds the trip's aggregate from the confirmed members' stored
// preferences and replaces the persisted row. Running it twice against the
// same membership produces the same result.
func (s *ServiceImpl) Recompute(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error) {
	ctx, span := otel.Tracer("SummaryService").Start(ctx, "Recompute")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	l := s.logger.With(zap.String("method", "Recompute"), zap.String("tripID", tripID.String()))

	memberIDs, err := s.attendees.AttendeeIDs(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attendee lookup failed")
		return nil, err
	}

	prefs, err := s.preferences.GetPreferencesForUsers(ctx, memberIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Preference lookup failed")
		return nil, err
	}

	aggregate := Aggregate(tripID, prefs)
	saved, err := s.repo.Upsert(ctx, aggregate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Summary persist failed")
		return nil, err
	}

	l.Info("Preference summary recomputed",
		zap.Int("members", len(memberIDs)),
		zap.Int("withPreferences", len(prefs)))
	span.SetAttributes(
		attribute.Int("summary.members", len(memberIDs)),
		attribute.Int("summary.with_preferences", len(prefs)),
	)
	span.SetStatus(codes.Ok, "Summary recomputed")
	return saved, nil
}

func (s *ServiceImpl) Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error) {
	ctx, span := otel.Tracer("SummaryService").Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	summary, err := s.repo.Get(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Summary fetched")
	return summary, nil
}
