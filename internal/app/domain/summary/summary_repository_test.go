package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

func TestRepositoryUpsert(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	tripID := uuid.New()
	now := time.Now()
	input := &models.GroupPreferenceSummary{
		TripID:            tripID,
		ActivityCounts:    map[string]int{"hiking": 2},
		DietaryCounts:     map[string]int{},
		LifestyleCounts:   map[string]int{},
		TravelStyleCounts: map[string]int{},
		BudgetCounts:      map[string]int{"1": 0, "2": 0, "3": 2, "4": 0},
	}

	mockPool.ExpectQuery("INSERT INTO trip_preference_summaries").
		WithArgs(tripID, input.ActivityCounts, input.DietaryCounts,
			input.LifestyleCounts, input.TravelStyleCounts, input.BudgetCounts).
		WillReturnRows(pgxmock.NewRows([]string{
			"trip_id", "activity_counts", "dietary_counts", "lifestyle_counts",
			"travel_style_counts", "budget_counts", "updated_at",
		}).AddRow(tripID, input.ActivityCounts, input.DietaryCounts,
			input.LifestyleCounts, input.TravelStyleCounts, input.BudgetCounts, now))

	repo := NewRepositoryImpl(mockPool, zap.NewNop())
	saved, err := repo.Upsert(context.Background(), input)

	assert.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, tripID, saved.TripID)
	assert.Equal(t, map[string]int{"hiking": 2}, saved.ActivityCounts)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	tripID := uuid.New()
	mockPool.ExpectQuery("SELECT trip_id, activity_counts").
		WithArgs(tripID).
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepositoryImpl(mockPool, zap.NewNop())
	result, err := repo.Get(context.Background(), tripID)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
