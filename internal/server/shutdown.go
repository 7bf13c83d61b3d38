package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/scheduler"
)

// GracefulShutdown handles graceful shutdown of the HTTP server and the
// background scheduler.
func GracefulShutdown(srv *http.Server, sched *scheduler.Scheduler, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	stop() // Allow Ctrl+C to force shutdown

	// The server gets 5 seconds to finish in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if sched != nil {
		sched.Stop()
	}

	logger.Info("Server exiting")
	done <- true
}
