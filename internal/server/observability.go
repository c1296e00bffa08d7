package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/observability/metrics"
	"github.com/sarayu-iot/admin-api/internal/observability/tracer"
)

// ObservabilityShutdownFunc flushes and stops the telemetry providers.
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability wires the OTEL tracer and meter providers, starts
// the Prometheus scrape endpoint on metricsAddr, and registers the
// application instruments. Must run before the router is built, since
// the request-metrics middleware reads the instruments.
func InitObservability(serviceName, metricsAddr string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	shutdown, err := tracer.InitOtelProviders(serviceName, metricsAddr)
	if err != nil {
		return nil, fmt.Errorf("otel providers: %w", err)
	}

	metrics.InitAppMetrics()
	logger.Info("Observability ready",
		zap.String("service", serviceName),
		zap.String("metrics", metricsAddr+"/metrics"))

	return shutdown, nil
}
