package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tcclient/credentials"
	"github.com/kbukum/tcclient/logger"
	"github.com/kbukum/tcclient/resilience"
	"github.com/kbukum/tcclient/validation"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIVersion = "v1"
)

// Config configures a client for one service.
type Config struct {
	// RootURL is the deployment root, e.g. https://tc.example.com.
	RootURL string `yaml:"root_url" mapstructure:"root_url" validate:"required,http_url"`

	// ServiceName and APIVersion select <root>/api/<service>/<version>/.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" validate:"required,excludesall=/?#"`
	APIVersion  string `yaml:"api_version" mapstructure:"api_version" validate:"required,excludesall=/?#"`

	// Credentials signs every request when set; nil sends unsigned requests.
	Credentials *credentials.Credentials `yaml:"-" mapstructure:"-" validate:"-"`

	// Timeout bounds a single attempt. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Retry configures backoff between attempts.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Logger defaults to a no-op logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-" validate:"-"`

	// Transport replaces the pooled HTTP/2-capable transport.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-" validate:"-"`

	// Clock drives the retry budget. Defaults to the system clock.
	Clock backoff.Clock `yaml:"-" mapstructure:"-" validate:"-"`

	// TracerProvider and MeterProvider default to the otel globals.
	TracerProvider trace.TracerProvider `yaml:"-" mapstructure:"-" validate:"-"`
	MeterProvider  metric.MeterProvider `yaml:"-" mapstructure:"-" validate:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults. A negative
// Timeout is left for Validate to reject.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.Retry.IsZero() {
		onRetry := c.Retry.OnRetry
		c.Retry = resilience.DefaultRetryConfig()
		c.Retry.OnRetry = onRetry
	}
	c.Retry.ApplyDefaults()
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

// Validate checks that the configuration is valid, reporting every problem.
func (c *Config) Validate() error {
	var result *multierror.Error
	if err := validation.Struct(c); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("httpclient: timeout must not be negative"))
	}
	if c.Credentials != nil {
		if err := c.Credentials.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("httpclient: credentials: %w", err))
		}
	}
	return result.ErrorOrNil()
}
