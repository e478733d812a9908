package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/tcclient/logger"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{}, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitEnabled(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, Config{
		Enabled:     true,
		ServiceName: "test",
		Insecure:    true,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Nothing listens on the endpoint; only make sure shutdown returns.
	sctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_ = shutdown(sctx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestTracerUsesGivenProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, span := Tracer(tp).Start(context.Background(), SpanRequest)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != SpanRequest {
		t.Fatalf("unexpected spans %v", spans)
	}
	if spans[0].InstrumentationScope().Name != InstrumentationName {
		t.Errorf("unexpected scope %q", spans[0].InstrumentationScope().Name)
	}
}

func TestClientMetrics(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	m, err := NewClientMetrics(mp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RecordAttempt(ctx, "auth", "GET", 500)
	m.RecordAttempt(ctx, "auth", "GET", 200)
	m.RecordCall(ctx, "auth", "GET", "success", 250*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			found[md.Name] = true
			if md.Name == "tcclient.request.attempts" {
				sum, ok := md.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("unexpected data type %T", md.Data)
				}
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				if total != 2 {
					t.Errorf("expected 2 attempts, got %d", total)
				}
			}
		}
	}
	if !found["tcclient.request.attempts"] || !found["tcclient.request.duration"] {
		t.Errorf("missing instruments, got %v", found)
	}
}
