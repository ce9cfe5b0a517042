package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/smartallies/incident/internal/llm"
)

// openAIClient implements llm.LLMClient on the OpenAI Responses API.
type openAIClient struct {
	cfg      llm.LLMConfig
	client   *openai.Client
	observer llm.Observer
}

// NewOpenAIClient creates an llm.LLMClient backed by OpenAI or any
// Responses-compatible endpoint set in cfg.Endpoint.
func NewOpenAIClient(cfg llm.LLMConfig, observer llm.Observer) (llm.LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key is required", llm.ErrMisconfigured)
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
	client := openai.NewClient(opts...)

	return &openAIClient{cfg: cfg, client: &client, observer: observer}, nil
}

func (c *openAIClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	start := time.Now()
	settings := c.cfg.SettingsFor(req)

	ctx, cancel := settings.WithDeadline(ctx)
	defer cancel()

	input := make(responses.ResponseInputParam, 0, 2)
	if req.SystemPrompt != "" {
		input = append(input, responses.ResponseInputItemParamOfMessage(req.SystemPrompt, responses.EasyInputMessageRoleSystem))
	}
	input = append(input, responses.ResponseInputItemParamOfMessage(req.UserPrompt, responses.EasyInputMessageRoleUser))

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.cfg.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		Temperature: openai.Float(settings.Temperature),
	}
	if settings.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(settings.MaxTokens))
	}

	result, err := c.client.Responses.New(ctx, params)
	if err != nil {
		err = llm.ProviderError(ctx, llm.ProviderOpenAI, err)
		llm.ReportCall(c.observer, c.cfg, req.Task, start, err)
		return nil, err
	}

	latency := llm.ReportCall(c.observer, c.cfg, req.Task, start, nil)
	return &llm.GenerateResponse{
		Text:      result.OutputText(),
		Model:     string(result.Model),
		LatencyMs: latency,
	}, nil
}
