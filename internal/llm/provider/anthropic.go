package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/smartallies/incident/internal/llm"
)

// anthropicDefaultMaxTokens is used when the task sets no limit; the
// Messages API requires one.
const anthropicDefaultMaxTokens = 1024

// anthropicClient implements llm.LLMClient on the Anthropic Messages API.
type anthropicClient struct {
	cfg      llm.LLMConfig
	client   *anthropic.Client
	observer llm.Observer
}

// NewAnthropicClient creates an llm.LLMClient backed by Claude models.
func NewAnthropicClient(cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key is required", llm.ErrMisconfigured)
	}
	if observer == nil {
		observer = llm.NoopObserver{}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(opts...)

	return &anthropicClient{cfg: cfg, client: &client, observer: observer}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	start := time.Now()
	settings := c.cfg.SettingsFor(req)

	ctx, cancel := settings.WithDeadline(ctx)
	defer cancel()

	maxTokens := settings.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(settings.Temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		err = llm.ProviderError(ctx, llm.ProviderAnthropic, err)
		llm.ReportCall(c.observer, c.cfg, req.Task, start, err)
		return nil, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(b.Text)
		}
	}

	latency := llm.ReportCall(c.observer, c.cfg, req.Task, start, nil)
	return &llm.GenerateResponse{
		Text:      text.String(),
		Model:     string(msg.Model),
		LatencyMs: latency,
	}, nil
}
