package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists the derived per-trip preference aggregate. Writes
// replace the whole row; partial merges would let stale labels linger after a
// member edits their preferences.
type Repository interface {
	Upsert(ctx context.Context, s *models.GroupPreferenceSummary) (*models.GroupPreferenceSummary, error)
	Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error)
}

// DB is the slice of pgxpool.Pool this repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DB
}

func NewRepositoryImpl(pgpool DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) Upsert(ctx context.Context, s *models.GroupPreferenceSummary) (*models.GroupPreferenceSummary, error) {
	ctx, span := otel.Tracer("SummaryRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trip_preference_summaries"),
		attribute.String("trip.id", s.TripID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Upsert"), zap.String("tripID", s.TripID.String()))
	l.Debug("Storing preference summary")

	query := `
        INSERT INTO trip_preference_summaries (trip_id, activity_counts,
            dietary_counts, lifestyle_counts, travel_style_counts, budget_counts)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (trip_id) DO UPDATE SET
            activity_counts = EXCLUDED.activity_counts,
            dietary_counts = EXCLUDED.dietary_counts,
            lifestyle_counts = EXCLUDED.lifestyle_counts,
            travel_style_counts = EXCLUDED.travel_style_counts,
            budget_counts = EXCLUDED.budget_counts,
            updated_at = now()
        RETURNING trip_id, activity_counts, dietary_counts, lifestyle_counts,
            travel_style_counts, budget_counts, updated_at`

	var saved models.GroupPreferenceSummary
	err := r.pgpool.QueryRow(ctx, query, s.TripID, s.ActivityCounts, s.DietaryCounts,
		s.LifestyleCounts, s.TravelStyleCounts, s.BudgetCounts).Scan(
		&saved.TripID, &saved.ActivityCounts, &saved.DietaryCounts,
		&saved.LifestyleCounts, &saved.TravelStyleCounts, &saved.BudgetCounts,
		&saved.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s: %w", s.TripID, models.ErrNotFound)
		}
		l.Error("Failed to upsert preference summary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error upserting preference summary: %w", err)
	}

	span.SetStatus(codes.Ok, "Summary upserted")
	return &saved, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, tripID uuid.UUID) (*models.GroupPreferenceSummary, error) {
	ctx, span := otel.Tracer("SummaryRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_preference_summaries"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT trip_id, activity_counts, dietary_counts, lifestyle_counts,
            travel_style_counts, budget_counts, updated_at
        FROM trip_preference_summaries
        WHERE trip_id = $1`

	var s models.GroupPreferenceSummary
	err := r.pgpool.QueryRow(ctx, query, tripID).Scan(
		&s.TripID, &s.ActivityCounts, &s.DietaryCounts, &s.LifestyleCounts,
		&s.TravelStyleCounts, &s.BudgetCounts, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Summary not found")
			return nil, fmt.Errorf("preference summary for trip %s: %w", tripID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching preference summary: %w", err)
	}

	span.SetStatus(codes.Ok, "Summary fetched")
	return &s, nil
}
