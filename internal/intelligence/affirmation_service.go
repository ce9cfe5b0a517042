package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartallies/incident/internal/llm"
	"github.com/smartallies/incident/internal/prompt"
)

// AffirmationService decides whether a short reply means yes.
type AffirmationService interface {
	IsAffirmative(ctx context.Context, reply string) (bool, error)
}

type affirmationService struct {
	client llm.LLMClient
}

func NewAffirmationService(client llm.LLMClient) AffirmationService {
	return &affirmationService{client: client}
}

type affirmationPayload struct {
	Affirmative *flexBool `json:"affirmative"`
}

// IsAffirmative returns false for a blank reply without calling the model,
// and false when the model omits the affirmative key.
func (s *affirmationService) IsAffirmative(ctx context.Context, reply string) (bool, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return false, nil
	}

	text, err := prompt.Affirmation(reply)
	if err != nil {
		return false, fmt.Errorf("rendering affirmation prompt: %w", err)
	}

	raw, err := generate(ctx, s.client, llm.TaskAffirm, StageAffirmation, text)
	if err != nil {
		return false, err
	}

	payload, err := llm.ExtractJSON[affirmationPayload](raw, nil)
	if err != nil {
		return false, newFormatError(StageAffirmation, err)
	}
	if payload.Affirmative == nil {
		return false, nil
	}
	return bool(*payload.Affirmative), nil
}

// Services bundles the model-backed steps the workflow engine calls.
type Services struct {
	Classifier  ClassificationService
	Details     DetailsService
	Summaries   SummaryService
	Affirmation AffirmationService
}

// NewServices builds every service on one client.
func NewServices(client llm.LLMClient) Services {
	return Services{
		Classifier:  NewClassificationService(client),
		Details:     NewDetailsService(client),
		Summaries:   NewSummaryService(client),
		Affirmation: NewAffirmationService(client),
	}
}
