package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/llm"
	"github.com/smartallies/incident/internal/prompt"
)

const (
	defaultConfidence = 0.5
	defaultReasoning  = "No reasoning provided"
)

// Classification is the model's verdict on an opening message.
type Classification struct {
	Type       domain.IncidentType
	Confidence float64
	Reasoning  string
}

// ClassificationService sorts an opening message into an incident type.
type ClassificationService interface {
	Classify(ctx context.Context, message string, hasImage bool) (*Classification, error)
}

type classificationService struct {
	client llm.LLMClient
}

func NewClassificationService(client llm.LLMClient) ClassificationService {
	return &classificationService{client: client}
}

type classificationPayload struct {
	Type       string     `json:"type"`
	Confidence *flexFloat `json:"confidence"`
	Reasoning  *string    `json:"reasoning"`
}

func (s *classificationService) Classify(ctx context.Context, message string, hasImage bool) (*Classification, error) {
	text, err := prompt.Classification(message, hasImage)
	if err != nil {
		return nil, fmt.Errorf("rendering classification prompt: %w", err)
	}

	raw, err := generate(ctx, s.client, llm.TaskClassify, StageClassification, text)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON[classificationPayload](raw, validateClassification)
	if err != nil {
		return nil, newFormatError(StageClassification, err)
	}

	incidentType, _ := domain.ParseIncidentType(payload.Type)
	result := &Classification{
		Type:       incidentType,
		Confidence: defaultConfidence,
		Reasoning:  defaultReasoning,
	}
	if payload.Confidence != nil {
		result.Confidence = clampUnit(float64(*payload.Confidence))
	}
	if payload.Reasoning != nil && strings.TrimSpace(*payload.Reasoning) != "" {
		result.Reasoning = strings.TrimSpace(*payload.Reasoning)
	}
	return result, nil
}

func validateClassification(p classificationPayload) error {
	if strings.TrimSpace(p.Type) == "" {
		return missingKey("type")
	}
	if _, err := domain.ParseIncidentType(p.Type); err != nil {
		return err
	}
	return nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
