package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/kbukum/tcclient/credentials"
	"github.com/kbukum/tcclient/httpclient"
	"github.com/kbukum/tcclient/logger"
	"github.com/kbukum/tcclient/observability"
	"github.com/kbukum/tcclient/resilience"
	"github.com/kbukum/tcclient/security"
	"github.com/kbukum/tcclient/validation"
)

// Settings is everything needed to talk to a deployment.
type Settings struct {
	RootURL string `yaml:"root_url" mapstructure:"root_url" validate:"required,http_url"`

	// ClientID empty means requests are sent unsigned.
	ClientID    string `yaml:"client_id" mapstructure:"client_id"`
	AccessToken string `yaml:"access_token" mapstructure:"access_token" validate:"required_with=ClientID"`
	// Certificate is the JSON certificate of temporary credentials.
	Certificate      string   `yaml:"certificate" mapstructure:"certificate" validate:"omitempty,json"`
	AuthorizedScopes []string `yaml:"authorized_scopes" mapstructure:"authorized_scopes"`

	Timeout time.Duration          `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Retry   resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	TLS     *security.TLSConfig    `yaml:"tls" mapstructure:"tls"`

	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills zero values of the nested sections.
func (s *Settings) ApplyDefaults() {
	s.RootURL = strings.TrimSpace(s.RootURL)
	if s.Retry.IsZero() {
		s.Retry = resilience.DefaultRetryConfig()
	}
	s.Retry.ApplyDefaults()
	s.Logging.ApplyDefaults()
	s.Telemetry.ApplyDefaults()
}

// Validate reports every problem in s.
func (s *Settings) Validate() error {
	var result *multierror.Error
	if err := validation.Struct(s); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.Logging.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if s.AccessToken != "" && s.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("config: access_token is set but client_id is not"))
	}
	return result.ErrorOrNil()
}

// Credentials returns the configured credentials, or nil when no client id
// is set.
func (s *Settings) Credentials() *credentials.Credentials {
	if s.ClientID == "" {
		return nil
	}
	c := credentials.New(s.ClientID, s.AccessToken)
	c.Certificate = s.Certificate
	if s.AuthorizedScopes != nil {
		c.AuthorizedScopes = append([]string{}, s.AuthorizedScopes...)
	}
	return c
}

// ClientConfig returns the client configuration for one service.
func (s *Settings) ClientConfig(service, version string) httpclient.Config {
	return httpclient.Config{
		RootURL:     s.RootURL,
		ServiceName: service,
		APIVersion:  version,
		Credentials: s.Credentials(),
		Timeout:     s.Timeout,
		Retry:       s.Retry,
		TLS:         s.TLS,
	}
}

// splitScopes splits an environment value on spaces and commas.
func splitScopes(v string) []string {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if fields == nil {
		return []string{}
	}
	return fields
}
