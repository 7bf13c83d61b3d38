package suggestions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tripforge/tripforge/internal/app/models"
	"github.com/tripforge/tripforge/internal/observability/metrics"
	"github.com/tripforge/tripforge/internal/pkg/ai"
)

var _ Service = (*ServiceImpl)(nil)

// PreferenceLoader is the slice of the preference domain this service needs.
type PreferenceLoader interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
}

// TripLoader loads the requesting user's travel history and target trips.
type TripLoader interface {
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	RecentUserTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
}

// SummaryLoader fetches the stored group aggregate for trip-scoped requests.
type SummaryLoader interface {
	Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error)
}

type Service interface {
	SuggestLocationsForUser(ctx context.Context, userID uuid.UUID, req models.SuggestionRequest) (*models.LocationSuggestions, error)
	SuggestLocationsForTrip(ctx context.Context, tripID uuid.UUID, req models.SuggestionRequest) (*models.LocationSuggestions, error)
	SuggestTripIdeas(ctx context.Context, userID uuid.UUID, req models.SuggestionRequest) (*models.TripIdeas, error)
}

// ServiceImpl sequences preference loading, prompt construction, the outbound
// completion call and response extraction. Each request is independent; no
// result is cached or persisted, and nothing is retried.
type ServiceImpl struct {
	logger    *zap.Logger
	prefs     PreferenceLoader
	trips     TripLoader
	summaries SummaryLoader
	client    ai.CompletionClient
}

func NewServiceImpl(prefs PreferenceLoader, trips TripLoader, summaries SummaryLoader, client ai.CompletionClient, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		prefs:     prefs,
		trips:     trips,
		summaries: summaries,
		client:    client,
	}
}

func tripContextFrom(req models.SuggestionRequest) models.TripContext {
	return models.TripContext{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Extra:       req.Extra,
	}
}

// loadUserData fetches the user's preferences and recent trips concurrently.
// Missing preferences are terminal; the caller never reaches the completion
// call without them.
func (s *ServiceImpl) loadUserData(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, []*models.Trip, error) {
	var (
		prefs   *models.UserPreferences
		history []*models.Trip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prefs, err = s.prefs.GetPreferences(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.trips.RecentUserTrips(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prefs, history, nil
}

func (s *ServiceImpl) complete(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	raw, err := s.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		if m := metrics.Get(); m != nil {
			m.SuggestionFailuresTotal.Add(ctx, 1)
		}
		return err
	}

	if err := ExtractJSON(raw, out); err != nil {
		if m := metrics.Get(); m != nil {
			m.SuggestionFailuresTotal.Add(ctx, 1)
		}
		// Keep the raw payload in the logs for postmortem; it never reaches
		// the API caller.
		s.logger.Error("Completion content failed extraction",
			zap.Error(err), zap.String("rawContent", raw))
		return fmt.Errorf("completion content failed extraction: %v: %w", err, models.ErrUpstreamPayload)
	}
	return nil
}

func (s *ServiceImpl) SuggestLocationsForUser(ctx context.Context, userID uuid.UUID, req models.SuggestionRequest) (*models.LocationSuggestions, error) {
	ctx, span := otel.Tracer("SuggestionService").Start(ctx, "SuggestLocationsForUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	l := s.logger.With(zap.String("method", "SuggestLocationsForUser"), zap.String("userID", userID.String()))
	if m := metrics.Get(); m != nil {
		m.SuggestionRequestsTotal.Add(ctx, 1)
	}

	prefs, history, err := s.loadUserData(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User data load failed")
		return nil, err
	}

	prompt := AppendTripContext(FormatDataForPrompt(prefs, nil, history), tripContextFrom(req))

	var result models.LocationSuggestions
	if err := s.complete(ctx, locationSystemPrompt, prompt, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return nil, err
	}

	l.Info("Location suggestions generated", zap.Int("count", len(result.Locations)))
	span.SetStatus(codes.Ok, "Suggestions generated")
	return &result, nil
}

func (s *ServiceImpl) SuggestLocationsForTrip(ctx context.Context, tripID uuid.UUID, req models.SuggestionRequest) (*models.LocationSuggestions, error) {
	ctx, span := otel.Tracer("SuggestionService").Start(ctx, "SuggestLocationsForTrip")
	defer span.End()
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid user id")
		return nil, fmt.Errorf("invalid user id %q: %w", req.UserID, models.ErrValidation)
	}

	l := s.logger.With(zap.String("method", "SuggestLocationsForTrip"),
		zap.String("tripID", tripID.String()), zap.String("userID", userID.String()))
	if m := metrics.Get(); m != nil {
		m.SuggestionRequestsTotal.Add(ctx, 1)
	}

	var (
		trip    *models.Trip
		prefs   *models.UserPreferences
		history []*models.Trip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trip, err = s.trips.GetTrip(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.prefs.GetPreferences(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.trips.RecentUserTrips(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip data load failed")
		return nil, err
	}

	// A pre-aggregated summary supplied by the caller wins over the stored
	// one; a trip with neither still gets suggestions from the individual
	// preferences alone.
	groupSummary := req.TripPreferences
	if groupSummary == nil {
		stored, err := s.summaries.Get(ctx, tripID)
		switch {
		case err == nil:
			groupSummary = stored
		case errors.Is(err, models.ErrNotFound):
		default:
			span.RecordError(err)
			return nil, err
		}
	}

	tctx := tripContextFrom(req)
	if tctx.Destination == "" && trip.City != nil {
		tctx.Destination = *trip.City
	}

	prompt := AppendTripContext(FormatDataForPrompt(prefs, groupSummary, history), tctx)

	var result models.LocationSuggestions
	if err := s.complete(ctx, locationSystemPrompt, prompt, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return nil, err
	}

	l.Info("Trip location suggestions generated", zap.Int("count", len(result.Locations)))
	span.SetStatus(codes.Ok, "Suggestions generated")
	return &result, nil
}

func (s *ServiceImpl) SuggestTripIdeas(ctx context.Context, userID uuid.UUID, req models.SuggestionRequest) (*models.TripIdeas, error) {
	ctx, span := otel.Tracer("SuggestionService").Start(ctx, "SuggestTripIdeas")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	l := s.logger.With(zap.String("method", "SuggestTripIdeas"), zap.String("userID", userID.String()))
	if m := metrics.Get(); m != nil {
		m.SuggestionRequestsTotal.Add(ctx, 1)
	}

	prefs, history, err := s.loadUserData(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User data load failed")
		return nil, err
	}

	prompt := AppendTripContext(FormatDataForPrompt(prefs, nil, history), tripContextFrom(req))

	var result models.TripIdeas
	if err := s.complete(ctx, tripIdeaSystemPrompt, prompt, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return nil, err
	}

	l.Info("Trip ideas generated", zap.Int("count", len(result.Suggestions)))
	span.SetStatus(codes.Ok, "Trip ideas generated")
	return &result, nil
}
