package rsvp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

// Repository persists trip attendance answers, one row per user per trip.
type Repository interface {
	Upsert(ctx context.Context, tripID, userID uuid.UUID, status models.RSVPStatus) (*models.TripRSVP, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.TripRSVP, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.TripRSVP, error)
	AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
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

func (r *RepositoryImpl) Upsert(ctx context.Context, tripID, userID uuid.UUID, status models.RSVPStatus) (*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trip_rsvps"),
		attribute.String("trip.id", tripID.String()),
		attribute.String("rsvp.status", string(status)),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Upsert"),
		zap.String("tripID", tripID.String()), zap.String("userID", userID.String()))
	l.Debug("Recording RSVP", zap.String("status", string(status)))

	query := `
        INSERT INTO trip_rsvps (trip_id, user_id, status)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, trip_id) DO UPDATE SET
            status = EXCLUDED.status,
            updated_at = now()
        RETURNING id, trip_id, user_id, status, created_at, updated_at`

	var rsvp models.TripRSVP
	err := r.pgpool.QueryRow(ctx, query, tripID, userID, status).Scan(
		&rsvp.ID, &rsvp.TripID, &rsvp.UserID, &rsvp.Status, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "Trip or user not found")
			return nil, fmt.Errorf("trip %s or user %s: %w", tripID, userID, models.ErrNotFound)
		}
		l.Error("Failed to upsert RSVP", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error recording rsvp: %w", err)
	}

	span.SetStatus(codes.Ok, "RSVP recorded")
	return &rsvp, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_rsvps"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT r.id, r.trip_id, r.user_id, r.status, r.created_at, r.updated_at,
            u.id, u.email, u.name, u.phone_number, u.avatar_url
        FROM trip_rsvps r
        JOIN users u ON u.id = r.user_id
        WHERE r.trip_id = $1
        ORDER BY r.created_at`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*models.TripRSVP
	for rows.Next() {
		var rsvp models.TripRSVP
		var user models.User
		err := rows.Scan(&rsvp.ID, &rsvp.TripID, &rsvp.UserID, &rsvp.Status,
			&rsvp.CreatedAt, &rsvp.UpdatedAt,
			&user.ID, &user.Email, &user.Name, &user.PhoneNumber, &user.AvatarURL)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan rsvp row: %w", err)
		}
		rsvp.User = &user
		rsvps = append(rsvps, &rsvp)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating rsvp rows: %w", err)
	}

	span.SetStatus(codes.Ok, "RSVPs listed")
	return rsvps, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.TripRSVP, error) {
	ctx, span := otel.Tracer("RSVPRepo").Start(ctx, "ListForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_rsvps"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `
        SELECT id, trip_id, user_id, status, created_at, updated_at
        FROM trip_rsvps
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing user rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*models.TripRSVP
	for rows.Next() {
		var rsvp models.TripRSVP
		err := rows.Scan(&rsvp.ID, &rsvp.TripID, &rsvp.UserID, &rsvp.Status,
			&rsvp.CreatedAt, &rsvp.UpdatedAt)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan rsvp row: %w", err)
		}
		rsvps = append(rsvps, &rsvp)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating rsvp rows: %w", err)
	}

	span.SetStatus(codes.Ok, "User RSVPs listed")
	return rsvps, nil
}

// AttendeeIDs returns the users who answered YES for the trip.
func (r *RepositoryImpl) AttendeeIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	ctx, span := otel.Tracer("RSVPRepo").Start(ctx, "AttendeeIDs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_rsvps"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT user_id FROM trip_rsvps WHERE trip_id = $1 AND status = 'YES'`, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing attendees: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan attendee row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating attendee rows: %w", err)
	}

	span.SetAttributes(attribute.Int("attendee.count", len(ids)))
	span.SetStatus(codes.Ok, "Attendees listed")
	return ids, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("RSVPRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "trip_rsvps"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM trip_rsvps WHERE trip_id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting rsvp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "RSVP not found")
		return fmt.Errorf("rsvp for user %s on trip %s: %w", userID, tripID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "RSVP deleted")
	return nil
}
