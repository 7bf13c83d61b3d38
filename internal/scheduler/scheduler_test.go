package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSweeper struct {
	calls atomic.Int64
}

func (s *stubSweeper) SweepOverdue(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestSchedulerRunsInitialSweep(t *testing.T) {
	sweeper := &stubSweeper{}
	s := New(sweeper, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.Start(ctx)
	assert.NoError(t, err)
	defer s.Stop()

	// The catch-up sweep runs on a goroutine right after Start.
	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}
