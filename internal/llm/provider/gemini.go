package provider

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/smartallies/incident/internal/llm"
)

// geminiClient implements llm.LLMClient on the Gemini API.
type geminiClient struct {
	cfg      llm.LLMConfig
	client   *genai.Client
	observer llm.Observer
}

// NewGeminiClient creates an llm.LLMClient backed by Gemini models.
func NewGeminiClient(ctx context.Context, cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", llm.ErrMisconfigured)
	}
	if observer == nil {
		observer = llm.NoopObserver{}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	start := time.Now()
	settings := c.cfg.SettingsFor(req)

	ctx, cancel := settings.WithDeadline(ctx)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(settings.Temperature)),
	}
	if settings.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(settings.MaxTokens)
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), genCfg)
	if err != nil {
		err = llm.ProviderError(ctx, llm.ProviderGemini, err)
		llm.ReportCall(c.observer, c.cfg, req.Task, start, err)
		return nil, err
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.cfg.Model
	}
	latency := llm.ReportCall(c.observer, c.cfg, req.Task, start, nil)
	return &llm.GenerateResponse{
		Text:      resp.Text(),
		Model:     model,
		LatencyMs: latency,
	}, nil
}
