package llm

import "errors"

var (
	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrProviderFailed indicates a hosted provider rejected or failed the call.
	ErrProviderFailed = errors.New("llm provider request failed")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrMissingKey indicates the parsed object lacks a key the caller requires.
	ErrMissingKey = errors.New("required key missing from llm output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMisconfigured indicates the client cannot be built from the given config.
	ErrMisconfigured = errors.New("llm misconfigured")
)
