package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/tcclient/logger"
)

// InitMeter initializes the OTLP/HTTP meter provider and installs it
// globally.
func InitMeter(ctx context.Context, cfg Config, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// ClientMetrics holds the instruments recorded per logical call.
type ClientMetrics struct {
	attempts metric.Int64Counter
	duration metric.Float64Histogram
}

// NewClientMetrics creates the client instruments on mp, or on the global
// provider when mp is nil.
func NewClientMetrics(mp metric.MeterProvider) (*ClientMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	attempts, err := meter.Int64Counter("tcclient.request.attempts",
		metric.WithDescription("HTTP attempts made, including retries"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tcclient.request.attempts counter: %w", err)
	}

	duration, err := meter.Float64Histogram("tcclient.request.duration",
		metric.WithDescription("Duration of logical calls including backoff, in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tcclient.request.duration histogram: %w", err)
	}

	return &ClientMetrics{attempts: attempts, duration: duration}, nil
}

// RecordAttempt counts one HTTP attempt. status is 0 for transport failures.
func (m *ClientMetrics) RecordAttempt(ctx context.Context, service, method string, status int) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}

// RecordCall records a finished logical call.
func (m *ClientMetrics) RecordCall(ctx context.Context, service, method, outcome string, d time.Duration) {
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
}
