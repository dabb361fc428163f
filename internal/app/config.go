package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to build its dependency graph.
type Config struct {
	API          APIConfig         `yaml:"api"`
	Oracle       OracleConfig      `yaml:"oracle"`
	Events       EventsConfig      `yaml:"events"`
	Certificates CertificateConfig `yaml:"certificates"`
	Logging      LoggingConfig     `yaml:"logging"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// OracleConfig answers the credentials prompt without a human when both
// fields are set.
type OracleConfig struct {
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// EventsConfig enables the Kafka event bus when Brokers is non-empty.
type EventsConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id,omitempty"`
}

type CertificateConfig struct {
	Validity string `yaml:"validity"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000/api",
			Timeout: "30s",
		},
		Events: EventsConfig{
			Topic: "zoosanitario.events",
		},
		Certificates: CertificateConfig{
			Validity: "72h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $HOME/.zoosanitario/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zoosanitario", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration. The file may hold the Oracle password,
// so it is readable by the owner only.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ZOO_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("ZOO_ORACLE_USER"); v != "" {
		c.Oracle.User = v
	}
	if v := os.Getenv("ZOO_ORACLE_PASSWORD"); v != "" {
		c.Oracle.Password = v
	}
	if v := os.Getenv("ZOO_KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = splitList(v)
	}
	if v := os.Getenv("ZOO_KAFKA_TOPIC"); v != "" {
		c.Events.Topic = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetCertificateValidity returns how long issued certificates stay valid.
func (c *Config) GetCertificateValidity() time.Duration {
	d, err := time.ParseDuration(c.Certificates.Validity)
	if err != nil || d <= 0 {
		return 72 * time.Hour
	}
	return d
}

// HasOracleCredentials reports whether the prompt can be answered from
// configuration.
func (c *Config) HasOracleCredentials() bool {
	return c.Oracle.User != "" && c.Oracle.Password != ""
}

func (c *Config) EventsEnabled() bool {
	return len(c.Events.Brokers) > 0
}

var ValidLogLevels = []string{"debug", "info", "warn", "error"}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url not configured (set api.base_url or ZOO_API_URL)")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api timeout: %w", err)
		}
	}
	if c.Certificates.Validity != "" {
		if _, err := time.ParseDuration(c.Certificates.Validity); err != nil {
			return fmt.Errorf("invalid certificate validity: %w", err)
		}
	}
	if c.EventsEnabled() && c.Events.Topic == "" {
		return errors.New("events topic is required when brokers are set")
	}
	if (c.Oracle.User == "") != (c.Oracle.Password == "") {
		return errors.New("oracle user and password must be set together")
	}

	valid := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}
