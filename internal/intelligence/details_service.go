package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/llm"
	"github.com/smartallies/incident/internal/prompt"
)

// DetailsResult is one turn of field extraction.
type DetailsResult struct {
	// Fields holds only usable values; nulls and blanks are already dropped.
	Fields             map[string]string
	Message            string
	AllFieldsCollected bool
	HasLocation        bool
}

// DetailsService pulls report fields out of the user's latest message.
type DetailsService interface {
	Extract(ctx context.Context, in prompt.DetailsInput) (*DetailsResult, error)
}

type detailsService struct {
	client llm.LLMClient
}

func NewDetailsService(client llm.LLMClient) DetailsService {
	return &detailsService{client: client}
}

type detailsPayload struct {
	ExtractedFields    json.RawMessage `json:"extractedFields"`
	Message            *string         `json:"message"`
	AllFieldsCollected flexBool        `json:"allFieldsCollected"`
	HasLocation        flexBool        `json:"hasLocation"`
}

func (s *detailsService) Extract(ctx context.Context, in prompt.DetailsInput) (*DetailsResult, error) {
	text, err := prompt.Details(in)
	if err != nil {
		return nil, fmt.Errorf("rendering details prompt: %w", err)
	}

	raw, err := generate(ctx, s.client, llm.TaskExtract, StageDetails, text)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON[detailsPayload](raw, validateDetails)
	if err != nil {
		return nil, newFormatError(StageDetails, err)
	}

	fields, err := decodeExtractedFields(payload.ExtractedFields)
	if err != nil {
		return nil, newFormatError(StageDetails, fmt.Errorf("%w: extractedFields: %v", llm.ErrInvalidOutput, err))
	}

	var message string
	if payload.Message != nil {
		message = *payload.Message
	}

	return &DetailsResult{
		Fields:             fields,
		Message:            message,
		AllFieldsCollected: bool(payload.AllFieldsCollected),
		HasLocation:        bool(payload.HasLocation),
	}, nil
}

func validateDetails(p detailsPayload) error {
	if len(p.ExtractedFields) == 0 {
		return missingKey("extractedFields")
	}
	// A located emergency raises the alert, which has its own reply.
	if p.Message == nil && !bool(p.HasLocation) {
		return missingKey("message")
	}
	return nil
}

// decodeExtractedFields keeps only usable values from the extractedFields
// object. An explicit null object yields no fields.
func decodeExtractedFields(raw json.RawMessage) (map[string]string, error) {
	fields := make(map[string]string)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fields, nil
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	for name, v := range values {
		text := valueText(v)
		if domain.UsableValue(text) {
			fields[name] = text
		}
	}
	return fields, nil
}
