package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"taskapi/internal/config"
)

// Telemetry bundles the process-wide observability plumbing. When
// telemetry is disabled only the Prometheus registry is populated and
// the otel globals stay no-op.
type Telemetry struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusRegistry *prometheus.Registry
}

func Init(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	registry := prometheus.NewRegistry()

	if !cfg.TelemetryEnabled {
		return &Telemetry{PrometheusRegistry: registry}, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	otlpExporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)

	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(otlpExporter),
	)
	otel.SetTracerProvider(tracerProvider)

	if err := runtime.Start(); err != nil {
		return nil, err
	}

	return &Telemetry{
		TracerProvider:     tracerProvider,
		MeterProvider:      meterProvider,
		PrometheusRegistry: registry,
	}, nil
}

func (t *Telemetry) Shutdown(ctx context.Context) {
	if t.TracerProvider != nil {
		t.TracerProvider.Shutdown(ctx)
	}

	if t.MeterProvider != nil {
		t.MeterProvider.Shutdown(ctx)
	}
}
