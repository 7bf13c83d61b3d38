package polls

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

type Repository interface {
	Create(ctx context.Context, tripID uuid.UUID, question string, options []string) (*models.Poll, error)
	Get(ctx context.Context, pollID uuid.UUID) (*models.Poll, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Poll, error)
	Vote(ctx context.Context, pollID, userID uuid.UUID, option string) (*models.PollVote, error)
	Delete(ctx context.Context, pollID uuid.UUID) error
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

func (r *RepositoryImpl) Create(ctx context.Context, tripID uuid.UUID, question string, options []string) (*models.Poll, error) {
	ctx, span := otel.Tracer("PollRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "polls"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO polls (trip_id, question, options)
        VALUES ($1, $2, $3)
        RETURNING id, trip_id, question, options, created_at`

	var poll models.Poll
	err := r.pgpool.QueryRow(ctx, query, tripID, question, options).Scan(
		&poll.ID, &poll.TripID, &poll.Question, &poll.Options, &poll.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s: %w", tripID, models.ErrNotFound)
		}
		r.logger.Error("Failed to insert poll", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating poll: %w", err)
	}

	span.SetStatus(codes.Ok, "Poll created")
	return &poll, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, pollID uuid.UUID) (*models.Poll, error) {
	ctx, span := otel.Tracer("PollRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "polls"),
		attribute.String("poll.id", pollID.String()),
	))
	defer span.End()

	var poll models.Poll
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, trip_id, question, options, created_at FROM polls WHERE id = $1`,
		pollID).Scan(&poll.ID, &poll.TripID, &poll.Question, &poll.Options, &poll.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Poll not found")
			return nil, fmt.Errorf("poll %s: %w", pollID, models.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching poll: %w", err)
	}

	votes, err := r.votesFor(ctx, pollID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	poll.Votes = votes

	span.SetStatus(codes.Ok, "Poll fetched")
	return &poll, nil
}

func (r *RepositoryImpl) votesFor(ctx context.Context, pollID uuid.UUID) ([]models.PollVote, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT poll_id, user_id, option, created_at FROM poll_votes WHERE poll_id = $1`, pollID)
	if err != nil {
		return nil, fmt.Errorf("database error listing poll votes: %w", err)
	}
	defer rows.Close()

	var votes []models.PollVote
	for rows.Next() {
		var v models.PollVote
		if err := rows.Scan(&v.PollID, &v.UserID, &v.Option, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll vote row: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll vote rows: %w", err)
	}
	return votes, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.Poll, error) {
	ctx, span := otel.Tracer("PollRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "polls"),
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		`SELECT id, trip_id, question, options, created_at
         FROM polls WHERE trip_id = $1 ORDER BY created_at`, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing polls: %w", err)
	}
	defer rows.Close()

	var polls []*models.Poll
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.TripID, &p.Question, &p.Options, &p.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan poll row: %w", err)
		}
		polls = append(polls, &p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating poll rows: %w", err)
	}

	for _, p := range polls {
		votes, err := r.votesFor(ctx, p.ID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		p.Votes = votes
	}

	span.SetStatus(codes.Ok, "Polls listed")
	return polls, nil
}

// Vote records (or changes) a member's answer. One vote per user per poll.
func (r *RepositoryImpl) Vote(ctx context.Context, pollID, userID uuid.UUID, option string) (*models.PollVote, error) {
	ctx, span := otel.Tracer("PollRepo").Start(ctx, "Vote", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "poll_votes"),
		attribute.String("poll.id", pollID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO poll_votes (poll_id, user_id, option)
        VALUES ($1, $2, $3)
        ON CONFLICT (poll_id, user_id) DO UPDATE SET option = EXCLUDED.option
        RETURNING poll_id, user_id, option, created_at`

	var vote models.PollVote
	err := r.pgpool.QueryRow(ctx, query, pollID, userID, option).Scan(
		&vote.PollID, &vote.UserID, &vote.Option, &vote.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			span.SetStatus(codes.Error, "Poll or user not found")
			return nil, fmt.Errorf("poll %s or user %s: %w", pollID, userID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error recording vote: %w", err)
	}

	span.SetStatus(codes.Ok, "Vote recorded")
	return &vote, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, pollID uuid.UUID) error {
	ctx, span := otel.Tracer("PollRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "polls"),
		attribute.String("poll.id", pollID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Poll not found")
		return fmt.Errorf("poll %s: %w", pollID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Poll deleted")
	return nil
}
