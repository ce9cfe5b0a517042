package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/llm"
	"github.com/smartallies/incident/internal/prompt"
)

// SummaryService writes the final report summary.
type SummaryService interface {
	Summarize(ctx context.Context, t domain.IncidentType, initialMessage string, fields map[string]string) (string, error)
}

type summaryService struct {
	client llm.LLMClient
}

func NewSummaryService(client llm.LLMClient) SummaryService {
	return &summaryService{client: client}
}

type summaryPayload struct {
	Summary *string `json:"summary"`
}

func (s *summaryService) Summarize(ctx context.Context, t domain.IncidentType, initialMessage string, fields map[string]string) (string, error) {
	text, err := prompt.Summary(t, initialMessage, fields)
	if err != nil {
		return "", fmt.Errorf("rendering summary prompt: %w", err)
	}

	raw, err := generate(ctx, s.client, llm.TaskSummarize, StageSummary, text)
	if err != nil {
		return "", err
	}

	payload, err := llm.ExtractJSON[summaryPayload](raw, func(p summaryPayload) error {
		if p.Summary == nil || strings.TrimSpace(*p.Summary) == "" {
			return missingKey("summary")
		}
		return nil
	})
	if err != nil {
		return "", newFormatError(StageSummary, err)
	}
	return strings.TrimSpace(*payload.Summary), nil
}
