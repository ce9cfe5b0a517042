// Package config loads service configuration: defaults, then an optional
// YAML file, then INCIDENT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/llm"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Logging   LoggingConfig           `yaml:"logging"`
	LLM       LLMSection              `yaml:"llm"`
	Workflow  WorkflowConfig          `yaml:"workflow"`
	Emergency domain.EmergencyNumbers `yaml:"emergency"`
	Resources map[string][]string     `yaml:"resources"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// ShutdownGrace parses ShutdownTimeout, defaulting to ten seconds.
func (s ServerConfig) ShutdownGrace() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
	File   string `yaml:"file"`
}

// LLMSection is the file-level view of the completion backend. Environment
// variables read by llm.ApplyEnv take precedence over it.
type LLMSection struct {
	Provider   string `yaml:"provider"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	TimeoutMs  *int   `yaml:"timeout_ms"`
	MaxRetries *int   `yaml:"max_retries"`
	LogCalls   *bool  `yaml:"log_calls"`
}

// WorkflowConfig toggles optional engine behavior.
type WorkflowConfig struct {
	AffirmationFallback bool `yaml:"affirmation_fallback"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Emergency: domain.EmergencyNumbers{
			Police:    "117",
			Ambulance: "144",
			Fire:      "118",
			Samaritan: "143",
		},
		Resources: defaultResources(),
	}
}

// Load reads configuration from path. A missing file yields the defaults;
// an empty path skips the file entirely. Environment overrides apply in both
// cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			defaults := cfg.Resources
			cfg.Resources = nil
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			cfg.Resources = mergeResources(cfg.Resources, defaults)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INCIDENT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("INCIDENT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INCIDENT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("INCIDENT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("INCIDENT_AFFIRMATION_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Workflow.AffirmationFallback = b
		}
	}
	if v := os.Getenv("INCIDENT_EMERGENCY_POLICE"); v != "" {
		c.Emergency.Police = v
	}
	if v := os.Getenv("INCIDENT_EMERGENCY_AMBULANCE"); v != "" {
		c.Emergency.Ambulance = v
	}
	if v := os.Getenv("INCIDENT_EMERGENCY_FIRE"); v != "" {
		c.Emergency.Fire = v
	}
	if v := os.Getenv("INCIDENT_EMERGENCY_SAMARITAN"); v != "" {
		c.Emergency.Samaritan = v
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	for name, v := range c.Emergency.AsMap() {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("emergency.%s is required", name)
		}
	}
	for key := range c.Resources {
		if _, err := domain.ParseIncidentType(key); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
	}
	if c.LLM.Provider != "" {
		if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
			return fmt.Errorf("llm.provider: %w", err)
		}
	}
	return nil
}

// LLMConfig resolves the completion backend settings: llm defaults, then the
// file's llm section, then INCIDENT_LLM_* variables.
func (c *Config) LLMConfig() (llm.LLMConfig, error) {
	cfg := llm.DefaultConfig()
	s := c.LLM

	if s.Provider != "" {
		p, err := llm.ParseProvider(s.Provider)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithProvider(p)
	}
	if s.Endpoint != "" {
		cfg.Endpoint = strings.TrimRight(s.Endpoint, "/")
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.TimeoutMs != nil && *s.TimeoutMs >= 0 {
		cfg.TimeoutMs = *s.TimeoutMs
	}
	if s.MaxRetries != nil && *s.MaxRetries >= 0 {
		cfg.MaxRetries = *s.MaxRetries
	}
	if s.LogCalls != nil {
		cfg.LogCalls = *s.LogCalls
	}

	if err := llm.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
