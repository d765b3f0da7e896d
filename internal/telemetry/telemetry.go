package telemetry

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

// Setup installs the global tracer provider. Without an OTLP endpoint it
// is a no-op and the returned shutdown does nothing.
func Setup(cfg *config.Config, serviceName string, logger *zerolog.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if cfg.OTelEndpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTelEndpoint)}
	if cfg.OTelInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		logger.Error().Err(err).Msg("otel exporter")
		return noop
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn().Err(err).Msg("otel resource")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info().Str("endpoint", cfg.OTelEndpoint).Msg("tracing enabled")
	return provider.Shutdown
}
