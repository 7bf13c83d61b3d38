package comments

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

type Repository interface {
	Create(ctx context.Context, tripID, authorID uuid.UUID, locationID *uuid.UUID, text string) (*models.Comment, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Comment, error)
	Delete(ctx context.Context, commentID, authorID uuid.UUID) error
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

func (r *RepositoryImpl) Create(ctx context.Context, tripID, authorID uuid.UUID, locationID *uuid.UUID, text string) (*models.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "comments"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO comments (trip_id, author_id, location_id, text)
        VALUES ($1, $2, $3, $4)
        RETURNING id, trip_id, author_id, location_id, text, created_at`

	var comment models.Comment
	err := r.pgpool.QueryRow(ctx, query, tripID, authorID, locationID, text).Scan(
		&comment.ID, &comment.TripID, &comment.AuthorID, &comment.LocationID,
		&comment.Text, &comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "Referenced row missing")
			return nil, fmt.Errorf("trip, author or location missing: %w", models.ErrNotFound)
		}
		r.logger.Error("Failed to insert comment", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating comment: %w", err)
	}

	span.SetStatus(codes.Ok, "Comment created")
	return &comment, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Comment, error) {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT id, trip_id, author_id, location_id, text, created_at
        FROM comments
        WHERE trip_id = $1
        ORDER BY created_at`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.TripID, &c.AuthorID, &c.LocationID, &c.Text, &c.CreatedAt)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Comments listed")
	return comments, nil
}

// Delete removes a comment, but only for its author.
func (r *RepositoryImpl) Delete(ctx context.Context, commentID, authorID uuid.UUID) error {
	ctx, span := otel.Tracer("CommentRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "comments"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND author_id = $2`, commentID, authorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pgpool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, commentID).Scan(&exists); err != nil {
			span.RecordError(err)
			return fmt.Errorf("database error checking comment: %w", err)
		}
		if exists {
			span.SetStatus(codes.Error, "Not the author")
			return fmt.Errorf("comment %s belongs to another user: %w", commentID, models.ErrForbidden)
		}
		span.SetStatus(codes.Error, "Comment not found")
		return fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Comment deleted")
	return nil
}
