// Package provider builds completion clients, including the hosted SDK
// backends. Packages that only consume llm.LLMClient never import it.
package provider

import (
	"context"
	"fmt"

	"github.com/smartallies/incident/internal/llm"
)

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case llm.ProviderOllama, "":
		return llm.NewOllamaClient(cfg, observer), nil
	case llm.ProviderOpenAI:
		return NewOpenAIClient(cfg, observer)
	case llm.ProviderAnthropic:
		return NewAnthropicClient(cfg, observer)
	case llm.ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", llm.ErrMisconfigured, cfg.Provider)
	}
}
