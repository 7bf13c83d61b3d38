// Package scheduler runs the background jobs that keep trip state current.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TripSweeper is the trip-domain operation the scheduler drives.
type TripSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// Scheduler promotes overdue trips to COMPLETED on an hourly cadence. The
// sweep is idempotent, so an occasional double run after a restart is
// harmless.
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
	trips  TripSweeper
}

func New(trips TripSweeper, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron:   cron.New(),
		trips:  trips,
	}
}

// Start registers the hourly sweep and launches the cron loop. It runs one
// sweep immediately so a long-stopped deployment catches up without waiting
// for the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("@hourly", func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return err
	}

	go s.runSweep(ctx)
	s.cron.Start()
	s.logger.Info("Trip status scheduler started", zap.String("cadence", "@hourly"))
	return nil
}

// Stop halts the cron loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn("Timed out waiting for running sweep to finish")
	}
	s.logger.Info("Trip status scheduler stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	updated, err := s.trips.SweepOverdue(sweepCtx)
	if err != nil {
		s.logger.Error("Trip status sweep failed", zap.Error(err))
		return
	}
	s.logger.Debug("Trip status sweep finished", zap.Int64("updated", updated))
}
