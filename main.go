package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tripforge/tripforge/internal/pkg/config"
	"github.com/tripforge/tripforge/internal/pkg/logger"
	"github.com/tripforge/tripforge/internal/scheduler"
	"github.com/tripforge/tripforge/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	if err := logger.Init(level, zap.String("service", "tripforge")); err != nil {
		return err
	}
	zlog := logger.Log
	defer zlog.Sync()

	otelShutdown, err := server.InitObservability("tripforge", ":9092", zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zlog.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, zlog)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, tripService, err := server.SetupRouter(srv.GetDBPool(), cfg, zlog)
	if err != nil {
		return err
	}
	srv.SetRouter(router)

	sched := scheduler.New(tripService, zlog)
	if err := sched.Start(context.Background()); err != nil {
		return err
	}

	if cfg.Debug {
		server.StartPprofServer(":6060")
	}

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, sched, zlog, done)

	zlog.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		zlog.Error("Server error", zap.Error(err))
	}

	<-done
	zlog.Info("Graceful shutdown complete")

	return nil
}
