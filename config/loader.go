package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every recognised environment variable.
const EnvPrefix = "TASKCLUSTER"

// keys are bound to environment variables. Viper only unmarshals keys it
// knows about, so nested keys set purely from the environment must be
// listed here.
var keys = []string{
	"root_url", "client_id", "access_token", "certificate", "authorized_scopes",
	"timeout",
	"retry.initial_backoff", "retry.max_backoff", "retry.backoff_factor",
	"retry.jitter", "retry.max_elapsed", "retry.max_attempts",
	"tls.skip_verify", "tls.ca_file", "tls.cert_file", "tls.key_file", "tls.server_name",
	"logging.level", "logging.format", "logging.output", "logging.no_color",
	"telemetry.enabled", "telemetry.service_name", "telemetry.endpoint",
	"telemetry.insecure", "telemetry.sample_rate", "telemetry.interval",
}

// FileSystem is the file access the loader needs, replaceable in tests.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads path into the process environment without overriding
// variables that are already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// Name selects the default file names; defaults to "tcclient".
	Name string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit YAML file. A missing explicit file is an
// error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithName sets the base name searched for when no file is given.
func WithName(name string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Name = name }
}

// Load reads settings, applies defaults and validates them.
func Load(opts ...LoaderOption) (*Settings, error) {
	lc := LoaderConfig{Name: "tcclient"}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", k, err)
		}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findFile(lc.FileSystem, configCandidates(lc.Name))
	} else if !lc.FileSystem.Exists(configFile) {
		return nil, fmt.Errorf("config: config file %s not found", configFile)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	envFile := lc.EnvFile
	if envFile == "" {
		envFile = findFile(lc.FileSystem, []string{".env." + lc.Name, ".env"})
	}
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if s, ok := v.Get("authorized_scopes").(string); ok {
		v.Set("authorized_scopes", splitScopes(s))
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func configCandidates(name string) []string {
	paths := []string{
		name + ".yml",
		name + ".yaml",
		filepath.Join("config", name+".yml"),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, name, "config.yml"))
	}
	return paths
}

func findFile(fs FileSystem, candidates []string) string {
	for _, p := range candidates {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}
