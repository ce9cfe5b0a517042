package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smartallies/incident/internal/llm"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageClassification Stage = "classification"
	StageDetails        Stage = "details"
	StageSummary        Stage = "summary"
	StageAffirmation    Stage = "affirmation"
)

// ErrorCode enumerates structured-output failure reasons.
type ErrorCode string

const (
	ErrCodeInvalidOutputFormat ErrorCode = "INVALID_OUTPUT_FORMAT"
	ErrCodeMissingRequiredKey  ErrorCode = "MISSING_REQUIRED_KEY"
)

// FormatError is returned when model output cannot be turned into the
// expected object.
type FormatError struct {
	Stage   Stage
	Code    ErrorCode
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	return string(e.Stage) + ": " + string(e.Code) + ": " + e.Message
}

func (e *FormatError) Unwrap() error { return e.Err }

func newFormatError(stage Stage, err error) *FormatError {
	code := ErrCodeInvalidOutputFormat
	if errors.Is(err, llm.ErrMissingKey) {
		code = ErrCodeMissingRequiredKey
	}
	return &FormatError{Stage: stage, Code: code, Message: err.Error(), Err: err}
}

// BackendError is returned when the completion call itself fails.
type BackendError struct {
	Stage Stage
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: completion backend failed: %v", e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// jsonOnlySystemPrompt accompanies every rendered template.
const jsonOnlySystemPrompt = `You are part of an incident reporting assistant. Follow the instructions in the user message and answer with a single JSON object only: no markdown, no commentary.`

func generate(ctx context.Context, client llm.LLMClient, task llm.TaskType, stage Stage, userPrompt string) (string, error) {
	resp, err := client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: jsonOnlySystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return "", &BackendError{Stage: stage, Err: err}
	}
	return resp.Text, nil
}

func missingKey(name string) error {
	return fmt.Errorf("%w: %s", llm.ErrMissingKey, name)
}

// flexBool accepts JSON booleans and their string spellings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = flexBool(v)
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a boolean: %q", v)
		}
		*b = flexBool(parsed)
	default:
		return fmt.Errorf("not a boolean: %s", data)
	}
	return nil
}

// flexFloat accepts JSON numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*f = flexFloat(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		*f = flexFloat(parsed)
	default:
		return fmt.Errorf("not a number: %s", data)
	}
	return nil
}

// valueText renders an extracted JSON value as text. Strings are used as-is,
// scalars use their literal form, nested values their compact JSON.
func valueText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
