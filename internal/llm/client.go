package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// HealthChecker is implemented by clients that can probe their backend
// without spending tokens.
type HealthChecker interface {
	Available(ctx context.Context) bool
}

// CallSettings are the resolved knobs for one Generate call.
type CallSettings struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// SettingsFor merges the task defaults with the request's overrides.
func (c LLMConfig) SettingsFor(req GenerateRequest) CallSettings {
	taskCfg := c.Tasks[req.Task]
	s := CallSettings{
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
		Timeout:     time.Duration(c.TaskTimeout(req.Task)) * time.Millisecond,
	}
	if req.Temperature != nil {
		s.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		s.MaxTokens = *req.MaxTokens
	}
	return s
}

// WithDeadline applies the task timeout when one is configured.
func (s CallSettings) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

// ReportCall emits the observer event for a finished call and returns its latency.
func ReportCall(observer Observer, cfg LLMConfig, task TaskType, start time.Time, err error) int64 {
	latency := time.Since(start).Milliseconds()
	observer.OnCallComplete(LLMCallEvent{
		Provider:  cfg.Provider,
		Task:      task,
		Model:     cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return latency
}

// ProviderError maps an SDK error onto the package sentinels.
func ProviderError(ctx context.Context, provider Provider, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %s: %v", ErrProviderFailed, provider, err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProviderFailed):
		return "PROVIDER"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
