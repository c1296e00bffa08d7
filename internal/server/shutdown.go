package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// shutdownGrace bounds how long in-flight requests may keep running
// once a termination signal arrives.
const shutdownGrace = 5 * time.Second

// GracefulShutdown blocks until SIGINT or SIGTERM, drains the HTTP
// server within the grace period, then signals done. A second signal
// while draining forces immediate exit.
func GracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	stop()
	logger.Info("Termination signal received, draining connections",
		zap.Duration("grace", shutdownGrace))

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Error("Drain incomplete, closing remaining connections", zap.Error(err))
	}

	logger.Info("HTTP server stopped")
	done <- true
}
