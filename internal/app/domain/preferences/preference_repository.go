package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists per-user travel preferences. One record per user.
type Repository interface {
	Create(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error)
	Upsert(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	GetMany(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepositoryImpl(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const prefColumns = `user_id, age, location, dietary_restrictions, activity_preferences,
        budget, travel_style, lifestyle_choices, accessibility_needs,
        preferred_transportation, created_at, updated_at`

func scanPreferences(row pgx.Row) (*models.UserPreferences, error) {
	var p models.UserPreferences
	err := row.Scan(&p.UserID, &p.Age, &p.Location, &p.DietaryRestrictions,
		&p.ActivityPreferences, &p.Budget, &p.TravelStyle, &p.LifestyleChoices,
		&p.AccessibilityNeeds, &p.PreferredTransportation, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", prefs.UserID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Create"), zap.String("userID", prefs.UserID.String()))
	l.Debug("Creating preferences record")

	query := `
        INSERT INTO user_preferences (user_id, age, location, dietary_restrictions,
            activity_preferences, budget, travel_style, lifestyle_choices,
            accessibility_needs, preferred_transportation)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + prefColumns

	saved, err := scanPreferences(r.pgpool.QueryRow(ctx, query,
		prefs.UserID, prefs.Age, prefs.Location, prefs.DietaryRestrictions,
		prefs.ActivityPreferences, prefs.Budget, prefs.TravelStyle,
		prefs.LifestyleChoices, prefs.AccessibilityNeeds, prefs.PreferredTransportation))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "Preferences already exist")
			return nil, fmt.Errorf("preferences for user %s already exist: %w", prefs.UserID, models.ErrConflict)
		}
		l.Error("Failed to insert preferences", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences created")
	return saved, nil
}

// Upsert replaces the whole stored record. Fields absent from prefs overwrite
// the previous values rather than merging into them.
func (r *RepositoryImpl) Upsert(ctx context.Context, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", prefs.UserID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Upsert"), zap.String("userID", prefs.UserID.String()))
	l.Debug("Upserting preferences record")

	query := `
        INSERT INTO user_preferences (user_id, age, location, dietary_restrictions,
            activity_preferences, budget, travel_style, lifestyle_choices,
            accessibility_needs, preferred_transportation)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id) DO UPDATE SET
            age = EXCLUDED.age,
            location = EXCLUDED.location,
            dietary_restrictions = EXCLUDED.dietary_restrictions,
            activity_preferences = EXCLUDED.activity_preferences,
            budget = EXCLUDED.budget,
            travel_style = EXCLUDED.travel_style,
            lifestyle_choices = EXCLUDED.lifestyle_choices,
            accessibility_needs = EXCLUDED.accessibility_needs,
            preferred_transportation = EXCLUDED.preferred_transportation,
            updated_at = now()
        RETURNING ` + prefColumns

	saved, err := scanPreferences(r.pgpool.QueryRow(ctx, query,
		prefs.UserID, prefs.Age, prefs.Location, prefs.DietaryRestrictions,
		prefs.ActivityPreferences, prefs.Budget, prefs.TravelStyle,
		prefs.LifestyleChoices, prefs.AccessibilityNeeds, prefs.PreferredTransportation))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s: %w", prefs.UserID, models.ErrNotFound)
		}
		l.Error("Failed to upsert preferences", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error upserting preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences upserted")
	return saved, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `SELECT ` + prefColumns + ` FROM user_preferences WHERE user_id = $1`
	prefs, err := scanPreferences(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Preferences not found")
			return nil, fmt.Errorf("preferences for user %s: %w", userID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}

// GetMany returns the preference records that exist for the given users.
// Users without a stored record are simply absent from the result.
func (r *RepositoryImpl) GetMany(ctx context.Context, userIDs []uuid.UUID) ([]*models.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "GetMany", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_preferences"),
		attribute.Int("db.user.count", len(userIDs)),
	))
	defer span.End()

	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + prefColumns + ` FROM user_preferences WHERE user_id = ANY($1)`
	rows, err := r.pgpool.Query(ctx, query, userIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching preferences: %w", err)
	}
	defer rows.Close()

	var result []*models.UserPreferences
	for rows.Next() {
		prefs, err := scanPreferences(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan preferences row: %w", err)
		}
		result = append(result, prefs)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating preferences rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	return result, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Preferences not found")
		return fmt.Errorf("preferences for user %s: %w", userID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Preferences deleted")
	return nil
}
