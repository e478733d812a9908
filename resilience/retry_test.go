package resilience

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1700000000, 0)} }

func TestApplyDefaults(t *testing.T) {
	var cfg RetryConfig
	cfg.ApplyDefaults()
	if cfg.InitialBackoff != 500*time.Millisecond || cfg.MaxBackoff != 60*time.Second ||
		cfg.BackoffFactor != 1.5 || cfg.MaxElapsed != 5*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Jitter != 0 {
		t.Errorf("zero jitter must be kept, got %v", cfg.Jitter)
	}
}

func TestApplyDefaultsClampsMaxElapsed(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, MaxElapsedCeiling},
		{-time.Second, MaxElapsedCeiling},
		{time.Minute, MaxElapsedCeiling},
		{2 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		cfg := RetryConfig{MaxElapsed: tt.in}
		cfg.ApplyDefaults()
		if cfg.MaxElapsed != tt.want {
			t.Errorf("MaxElapsed(%v) = %v, want %v", tt.in, cfg.MaxElapsed, tt.want)
		}
	}
}

func TestBackoffExponentialSchedule(t *testing.T) {
	clock := newFakeClock()
	b := NewBackoff(RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2,
		MaxElapsed:     time.Second,
	}, clock)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
	}
	for i, w := range want {
		got, ok := b.Next()
		if !ok {
			t.Fatalf("step %d: budget reported exhausted", i)
		}
		if got != w {
			t.Errorf("step %d: delay = %v, want %v", i, got, w)
		}
	}

	clock.Advance(500 * time.Millisecond)
	if _, ok := b.Next(); ok {
		t.Fatal("expected budget to be exhausted once elapsed+delay exceeds MaxElapsed")
	}
	if b.Stopped() != StopElapsed {
		t.Errorf("Stopped() = %v, want elapsed", b.Stopped())
	}
	if b.Elapsed() != 500*time.Millisecond {
		t.Errorf("Elapsed() = %v", b.Elapsed())
	}
	if b.Attempts() != 6 {
		t.Errorf("Attempts() = %d, want 6", b.Attempts())
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	b := NewBackoff(RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		BackoffFactor:  1,
		Jitter:         0.5,
	}, newFakeClock())

	for i := 0; i < 50; i++ {
		d, ok := b.Next()
		if !ok {
			t.Fatal("unexpected exhaustion")
		}
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("delay %v outside jitter range", d)
		}
	}
}

func TestBackoffMaxAttempts(t *testing.T) {
	b := NewBackoff(RetryConfig{MaxAttempts: 3}, newFakeClock())
	for i := 0; i < 2; i++ {
		if _, ok := b.Next(); !ok {
			t.Fatalf("attempt %d: unexpected exhaustion", i+1)
		}
		if b.Stopped() != NotStopped {
			t.Fatalf("attempt %d: Stopped() = %v", i+1, b.Stopped())
		}
	}
	if _, ok := b.Next(); ok {
		t.Fatal("expected exhaustion after MaxAttempts failures")
	}
	if b.Stopped() != StopAttempts {
		t.Errorf("Stopped() = %v, want attempts", b.Stopped())
	}
}

func TestBackoffIndependentInstances(t *testing.T) {
	clock := newFakeClock()
	cfg := RetryConfig{InitialBackoff: 10 * time.Millisecond, BackoffFactor: 2}
	a := NewBackoff(cfg, clock)
	a.Next()
	a.Next()

	b := NewBackoff(cfg, clock)
	if d, _ := b.Next(); d < 5*time.Millisecond || d > 15*time.Millisecond {
		t.Errorf("second schedule should start fresh, got %v", d)
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep did not return promptly on cancellation")
	}
}
