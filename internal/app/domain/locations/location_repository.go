package locations

import (
	"context"
	"errors"
	"fmt"

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

// Repository persists externally sourced places. Places are deduplicated by
// their external place id.
type Repository interface {
	Upsert(ctx context.Context, req models.CreateLocationRequest) (*models.Location, error)
	Get(ctx context.Context, locationID uuid.UUID) (*models.Location, error)
	GetByPlaceID(ctx context.Context, placeID string) (*models.Location, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error)
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

const locationColumns = `id, google_place_id, name, address, latitude, longitude,
        image, types, created_at, updated_at`

func scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.GooglePlaceID, &loc.Name, &loc.Address,
		&loc.Latitude, &loc.Longitude, &loc.Image, &loc.Types,
		&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Upsert stores a place, refreshing the mutable fields when it already exists.
func (r *RepositoryImpl) Upsert(ctx context.Context, req models.CreateLocationRequest) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "locations"),
		attribute.String("location.place_id", req.GooglePlaceID),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Upsert"), zap.String("placeID", req.GooglePlaceID))
	l.Debug("Upserting location", zap.String("name", req.Name))

	types := req.Types
	if types == nil {
		types = []string{}
	}

	query := `
        INSERT INTO locations (google_place_id, name, address, latitude, longitude, image, types)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (google_place_id) DO UPDATE SET
            name = EXCLUDED.name,
            address = EXCLUDED.address,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude,
            image = EXCLUDED.image,
            types = EXCLUDED.types,
            updated_at = now()
        RETURNING ` + locationColumns

	loc, err := scanLocation(r.pgpool.QueryRow(ctx, query,
		req.GooglePlaceID, req.Name, req.Address, req.Latitude, req.Longitude, req.Image, types))
	if err != nil {
		l.Error("Failed to upsert location", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error upserting location: %w", err)
	}

	span.SetStatus(codes.Ok, "Location upserted")
	return loc, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, locationID uuid.UUID) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "locations"),
		attribute.String("location.id", locationID.String()),
	))
	defer span.End()

	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	loc, err := scanLocation(r.pgpool.QueryRow(ctx, query, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Location not found")
			return nil, fmt.Errorf("location %s: %w", locationID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching location: %w", err)
	}

	span.SetStatus(codes.Ok, "Location fetched")
	return loc, nil
}

func (r *RepositoryImpl) GetByPlaceID(ctx context.Context, placeID string) (*models.Location, error) {
	ctx, span := otel.Tracer("LocationRepo").Start(ctx, "GetByPlaceID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "locations"),
		attribute.String("location.place_id", placeID),
	))
	defer span.End()

	query := `SELECT ` + locationColumns + ` FROM locations WHERE google_place_id = $1`
	loc, err := scanLocation(r.pgpool.QueryRow(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Location not found")
			return nil, fmt.Errorf("location with place id %s: %w", placeID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching location: %w", err)
	}

	span.SetStatus(codes.Ok, "Location fetched")
	return loc, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]models.Location, error) {
	ctx, span := otel.Tracer("LocationRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_locations"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT l.id, l.google_place_id, l.name, l.address, l.latitude, l.longitude,
            l.image, l.types, l.created_at, l.updated_at
        FROM locations l
        JOIN trip_locations tl ON tl.location_id = l.id
        WHERE tl.trip_id = $1
        ORDER BY l.name`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing trip locations: %w", err)
	}
	defer rows.Close()

	var locs []models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locs = append(locs, *loc)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip locations listed")
	return locs, nil
}
