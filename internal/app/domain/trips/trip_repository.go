package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// Repository persists trips and their membership in the itinerary tables.
type Repository interface {
	Create(ctx context.Context, req models.CreateTripRequest, hostID uuid.UUID, start, end time.Time) (*models.Trip, error)
	Get(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	List(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
	RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Trip, error)
	GetTimes(ctx context.Context, tripID uuid.UUID) (*models.TripTimes, error)
	UpdateEstimatedTime(ctx context.Context, tripID uuid.UUID, estimated string) error
	UpdateStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error
	Delete(ctx context.Context, tripID uuid.UUID) error
	AddLocation(ctx context.Context, tripID, locationID uuid.UUID) error
	RemoveLocation(ctx context.Context, tripID, locationID uuid.UUID) error
	SetLocationOrder(ctx context.Context, tripID uuid.UUID, order []string) error
	MarkOverdueCompleted(ctx context.Context, now time.Time) (int64, error)
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

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const tripColumns = `id, title, description, city, status, start_time, end_time,
        estimated_time, host_id, is_private, max_guests, trip_image,
        location_order, created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.City, &t.Status,
		&t.StartTime, &t.EndTime, &t.EstimatedTime, &t.HostID, &t.IsPrivate,
		&t.MaxGuests, &t.TripImage, &t.LocationOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RepositoryImpl) collectTrips(ctx context.Context, span trace.Span, query string, args ...any) ([]*models.Trip, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return trips, nil
}

// Create inserts a trip in PLANNING, enforcing the per-host cap on open
// planning trips inside a single transaction.
func (r *RepositoryImpl) Create(ctx context.Context, req models.CreateTripRequest, hostID uuid.UUID, start, end time.Time) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.host.id", hostID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Create"), zap.String("hostID", hostID.String()))
	l.Debug("Creating trip", zap.String("title", req.Title))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var planning int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM trips WHERE host_id = $1 AND status = 'PLANNING'`,
		hostID).Scan(&planning)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Planning count failed")
		return nil, fmt.Errorf("database error counting planning trips: %w", err)
	}
	if planning >= models.MaxPlanningTrips {
		l.Warn("Host reached planning trip cap", zap.Int("planning", planning))
		span.SetStatus(codes.Error, "Planning cap reached")
		return nil, fmt.Errorf("host already has %d trips in planning: %w", planning, models.ErrConflict)
	}

	query := `
        INSERT INTO trips (title, description, city, start_time, end_time,
            estimated_time, host_id, is_private, max_guests, trip_image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + tripColumns

	trip, err := scanTrip(tx.QueryRow(ctx, query,
		req.Title, req.Description, req.City, start, end,
		req.EstimatedTime, hostID, req.IsPrivate, req.MaxGuests, req.TripImage))
	if err != nil {
		l.Error("Failed to insert trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating trip: %w", err)
	}

	// The host always attends their own trip.
	_, err = tx.Exec(ctx,
		`INSERT INTO trip_rsvps (trip_id, user_id, status) VALUES ($1, $2, 'YES')`,
		trip.ID, hostID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error creating host rsvp: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit trip creation: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching trip: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

// List applies the optional filter constraints, newest start first.
func (r *RepositoryImpl) List(ctx context.Context, filter models.TripFilter) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	builder := psql.Select("id", "title", "description", "city", "status",
		"start_time", "end_time", "estimated_time", "host_id", "is_private",
		"max_guests", "trip_image", "location_order", "created_at", "updated_at").
		From("trips").
		OrderBy("start_time DESC")

	if filter.HostID != nil {
		builder = builder.Where(sq.Eq{"host_id": *filter.HostID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.City != nil {
		builder = builder.Where(sq.ILike{"city": *filter.City})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build trip list query: %w", err)
	}

	trips, err := r.collectTrips(ctx, span, query, args...)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

// ListForUser returns trips the user hosts or has RSVP'd to.
func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "ListForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `
        SELECT DISTINCT t.id, t.title, t.description, t.city, t.status,
            t.start_time, t.end_time, t.estimated_time, t.host_id, t.is_private,
            t.max_guests, t.trip_image, t.location_order, t.created_at, t.updated_at
        FROM trips t
        LEFT JOIN trip_rsvps r ON r.trip_id = t.id
        WHERE t.host_id = $1 OR r.user_id = $1
        ORDER BY t.start_time DESC`

	trips, err := r.collectTrips(ctx, span, query, userID)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

// RecentForUser returns the user's most recently ended trips, newest first.
// Used to give the completion model a sense of travel history.
func (r *RepositoryImpl) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "RecentForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.user.id", userID.String()),
		attribute.Int("trip.limit", limit),
	))
	defer span.End()

	query := `
        SELECT DISTINCT t.id, t.title, t.description, t.city, t.status,
            t.start_time, t.end_time, t.estimated_time, t.host_id, t.is_private,
            t.max_guests, t.trip_image, t.location_order, t.created_at, t.updated_at
        FROM trips t
        LEFT JOIN trip_rsvps r ON r.trip_id = t.id
        WHERE (t.host_id = $1 OR r.user_id = $1) AND t.end_time < now()
        ORDER BY t.end_time DESC
        LIMIT $2`

	trips, err := r.collectTrips(ctx, span, query, userID, limit)
	if err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "Recent trips fetched")
	return trips, nil
}

func (r *RepositoryImpl) GetTimes(ctx context.Context, tripID uuid.UUID) (*models.TripTimes, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "GetTimes", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	var times models.TripTimes
	err := r.pgpool.QueryRow(ctx,
		`SELECT start_time, end_time, estimated_time FROM trips WHERE id = $1`,
		tripID).Scan(&times.StartTime, &times.EndTime, &times.EstimatedTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching trip times: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip times fetched")
	return &times, nil
}

func (r *RepositoryImpl) UpdateEstimatedTime(ctx context.Context, tripID uuid.UUID, estimated string) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateEstimatedTime", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE trips SET estimated_time = $2, updated_at = now() WHERE id = $1`,
		tripID, estimated)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating estimated time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Estimated time updated")
	return nil
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, tripID uuid.UUID, status models.TripStatus) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
		attribute.String("trip.status", string(status)),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE trips SET status = $2, updated_at = now() WHERE id = $1`,
		tripID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Trip status updated")
	return nil
}

// Delete removes a trip, but only while it is still in PLANNING. Once a trip
// is ACTIVE or COMPLETED it is part of the group's history and stays.
func (r *RepositoryImpl) Delete(ctx context.Context, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Delete"), zap.String("tripID", tripID.String()))

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM trips WHERE id = $1 AND status = 'PLANNING'`, tripID)
	if err != nil {
		l.Error("Failed to delete trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pgpool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists); err != nil {
			span.RecordError(err)
			return fmt.Errorf("database error checking trip: %w", err)
		}
		if exists {
			span.SetStatus(codes.Error, "Trip not in planning")
			return fmt.Errorf("trip %s is no longer in planning: %w", tripID, models.ErrConflict)
		}
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
	}

	l.Info("Trip deleted")
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

// AddLocation links a location to a trip. Re-adding is a no-op.
func (r *RepositoryImpl) AddLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "AddLocation", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trip_locations"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO trip_locations (trip_id, location_id) VALUES ($1, $2)
         ON CONFLICT (trip_id, location_id) DO NOTHING`,
		tripID, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error linking location: %w", err)
	}

	span.SetStatus(codes.Ok, "Location linked")
	return nil
}

func (r *RepositoryImpl) RemoveLocation(ctx context.Context, tripID, locationID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "RemoveLocation", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "trip_locations"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM trip_locations WHERE trip_id = $1 AND location_id = $2`,
		tripID, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error unlinking location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Link not found")
		return fmt.Errorf("location %s on trip %s: %w", locationID, tripID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Location unlinked")
	return nil
}

func (r *RepositoryImpl) SetLocationOrder(ctx context.Context, tripID uuid.UUID, order []string) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "SetLocationOrder", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE trips SET location_order = $2, updated_at = now() WHERE id = $1`,
		tripID, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating location order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Location order updated")
	return nil
}

// MarkOverdueCompleted flips every trip whose end time has passed to
// COMPLETED. Returns the number of trips updated.
func (r *RepositoryImpl) MarkOverdueCompleted(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "MarkOverdueCompleted", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE trips SET status = 'COMPLETED', updated_at = now()
         WHERE status <> 'COMPLETED' AND end_time < $1`, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return 0, fmt.Errorf("database error sweeping overdue trips: %w", err)
	}

	span.SetAttributes(attribute.Int64("trip.swept", tag.RowsAffected()))
	span.SetStatus(codes.Ok, "Overdue trips swept")
	return tag.RowsAffected(), nil
}
