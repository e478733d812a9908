package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// MaxElapsedCeiling caps the retry budget of a single logical call.
const MaxElapsedCeiling = 5 * time.Second

// RetryConfig configures exponential backoff for one logical call.
type RetryConfig struct {
	// InitialBackoff is the first delay before jitter.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	// MaxBackoff caps any single delay.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gte=0"`
	// BackoffFactor is the multiplier applied after each delay.
	BackoffFactor float64 `yaml:"backoff_factor" mapstructure:"backoff_factor" validate:"gte=0"`
	// Jitter randomizes each delay by +/- this fraction (0.0 to 1.0).
	Jitter float64 `yaml:"jitter" mapstructure:"jitter" validate:"gte=0,lte=1"`
	// MaxElapsed is the retry budget, clamped to MaxElapsedCeiling.
	MaxElapsed time.Duration `yaml:"max_elapsed" mapstructure:"max_elapsed" validate:"gte=0"`
	// MaxAttempts bounds attempts in addition to the time budget; 0 means
	// the time budget alone decides.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0"`
	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, err error, delay time.Duration) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns the client defaults: 500ms initial delay growing
// by 1.5x with 50% jitter, at most 60s per delay, within a 5s budget.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     60 * time.Second,
		BackoffFactor:  1.5,
		Jitter:         0.5,
		MaxElapsed:     MaxElapsedCeiling,
	}
}

// ApplyDefaults fills zero values from DefaultRetryConfig and clamps
// MaxElapsed.
func (c *RetryConfig) ApplyDefaults() {
	d := DefaultRetryConfig()
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = d.BackoffFactor
	}
	if c.MaxElapsed <= 0 || c.MaxElapsed > MaxElapsedCeiling {
		c.MaxElapsed = MaxElapsedCeiling
	}
}

// IsZero reports whether no schedule parameter is set.
func (c RetryConfig) IsZero() bool {
	return c.InitialBackoff == 0 && c.MaxBackoff == 0 && c.BackoffFactor == 0 &&
		c.Jitter == 0 && c.MaxElapsed == 0 && c.MaxAttempts == 0
}

// Backoff is the per-call backoff state. It is not safe for concurrent use;
// each logical call creates its own and drops it when done.
type Backoff struct {
	policy      *backoff.ExponentialBackOff
	maxAttempts int
	attempts    int
	stopped     StopReason
}

// StopReason names the limit that ended a backoff schedule.
type StopReason int

const (
	// NotStopped means Next has not refused a retry.
	NotStopped StopReason = iota
	// StopElapsed means the next delay would exceed MaxElapsed.
	StopElapsed
	// StopAttempts means MaxAttempts attempts have been made.
	StopAttempts
)

// String returns the stop reason name.
func (r StopReason) String() string {
	switch r {
	case StopElapsed:
		return "elapsed"
	case StopAttempts:
		return "attempts"
	default:
		return "none"
	}
}

// NewBackoff starts a backoff schedule. The elapsed-time budget is measured
// from this call on clock (the system clock when nil).
func NewBackoff(cfg RetryConfig, clock backoff.Clock) *Backoff {
	cfg.ApplyDefaults()
	if clock == nil {
		clock = backoff.SystemClock
	}

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.InitialBackoff,
		RandomizationFactor: cfg.Jitter,
		Multiplier:          cfg.BackoffFactor,
		MaxInterval:         cfg.MaxBackoff,
		MaxElapsedTime:      cfg.MaxElapsed,
		Stop:                backoff.Stop,
		Clock:               clock,
	}
	policy.Reset()

	return &Backoff{policy: policy, maxAttempts: cfg.MaxAttempts}
}

// Next records a failed attempt and returns the delay before the next one.
// ok is false once the budget is spent: the delay would carry the call past
// MaxElapsed, or MaxAttempts attempts have been made; Stopped then says
// which.
func (b *Backoff) Next() (delay time.Duration, ok bool) {
	b.attempts++
	if b.maxAttempts > 0 && b.attempts >= b.maxAttempts {
		b.stopped = StopAttempts
		return 0, false
	}
	d := b.policy.NextBackOff()
	if d == backoff.Stop {
		b.stopped = StopElapsed
		return 0, false
	}
	return d, true
}

// Stopped reports the limit that made Next return false.
func (b *Backoff) Stopped() StopReason {
	return b.stopped
}

// Elapsed is the time since the schedule started.
func (b *Backoff) Elapsed() time.Duration {
	return b.policy.GetElapsedTime()
}

// Attempts is the number of failures recorded by Next.
func (b *Backoff) Attempts() int {
	return b.attempts
}

// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter
// case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
