package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Provider names the model backend a client talks to.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ParseProvider normalizes a provider name. Empty input selects Ollama.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProviderOllama, nil
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", ErrMisconfigured, s)
	}
}

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskClassify  TaskType = "classify"
	TaskExtract   TaskType = "extract"
	TaskSummarize TaskType = "summarize"
	TaskAffirm    TaskType = "affirm"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int // 0 disables the client-side deadline
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns the Ollama configuration used when nothing is set.
// Retries are off: a failed call surfaces to the workflow as a failed turn.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOllama,
		LogCalls:   true,
		Endpoint:   DefaultEndpoint(ProviderOllama),
		Model:      DefaultModel(ProviderOllama),
		TimeoutMs:  60000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify:  {Temperature: 0.1, MaxTokens: 256},
			TaskExtract:   {Temperature: 0.3, MaxTokens: 768},
			TaskSummarize: {Temperature: 0.2, MaxTokens: 1024},
			TaskAffirm:    {Temperature: 0.0, MaxTokens: 32, TimeoutMs: 15000},
		},
	}
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-haiku-4-5-20251001"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "llama3.2"
	}
}

// DefaultEndpoint returns the base URL for a provider. Hosted providers
// return "" so their SDK picks its own default.
func DefaultEndpoint(p Provider) string {
	if p == ProviderOllama {
		return "http://localhost:11434"
	}
	return ""
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() (LLMConfig, error) {
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// WithProvider switches cfg to p, resetting endpoint and model to the
// provider defaults when p differs from the current provider.
func (c LLMConfig) WithProvider(p Provider) LLMConfig {
	if p == c.Provider {
		return c
	}
	c.Provider = p
	c.Endpoint = DefaultEndpoint(p)
	c.Model = DefaultModel(p)
	return c
}

// Override applies command-line selections on top of a resolved config.
// Empty arguments leave the config unchanged.
func (c LLMConfig) Override(provider, model string) (LLMConfig, error) {
	if provider != "" {
		p, err := ParseProvider(provider)
		if err != nil {
			return c, err
		}
		if p != c.Provider {
			c = c.WithProvider(p)
			c.APIKey = apiKeyFromEnv(p)
		}
	}
	if model != "" {
		c.Model = model
	}
	return c, c.Validate()
}

// ApplyEnv overlays INCIDENT_LLM_* variables onto cfg.
func ApplyEnv(cfg *LLMConfig) error {
	if v := os.Getenv("INCIDENT_LLM_PROVIDER"); v != "" {
		provider, err := ParseProvider(v)
		if err != nil {
			return err
		}
		*cfg = cfg.WithProvider(provider)
	}

	if v := os.Getenv("INCIDENT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("INCIDENT_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("INCIDENT_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if key := apiKeyFromEnv(cfg.Provider); key != "" {
		cfg.APIKey = key
	}
	if v := os.Getenv("INCIDENT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("INCIDENT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(cfg, TaskClassify, "INCIDENT_LLM_CLASSIFY_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskExtract, "INCIDENT_LLM_EXTRACT_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskSummarize, "INCIDENT_LLM_SUMMARIZE_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskAffirm, "INCIDENT_LLM_AFFIRM_TIMEOUT_MS")

	return nil
}

// Validate reports configuration that cannot produce a working client.
func (c LLMConfig) Validate() error {
	if _, err := ParseProvider(string(c.Provider)); err != nil {
		return err
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrMisconfigured)
	}
	if c.Provider == ProviderOllama && c.Endpoint == "" {
		return fmt.Errorf("%w: ollama endpoint is required", ErrMisconfigured)
	}
	if c.Provider != ProviderOllama && c.Provider != "" && c.APIKey == "" {
		return fmt.Errorf("%w: %s requires an api key", ErrMisconfigured, c.Provider)
	}
	return nil
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func apiKeyFromEnv(p Provider) string {
	if v := os.Getenv("INCIDENT_LLM_API_KEY"); v != "" {
		return v
	}
	switch p {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderGemini:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			return v
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = make(map[TaskType]TaskConfig)
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
