package workflow

import (
	"fmt"

	"github.com/smartallies/incident/internal/domain"
)

const (
	genericErrorMessage = "I encountered an error processing your request. Please try again."
	invalidStateMessage = "I encountered an error: Invalid workflow state"
)

// InvalidStateError reports a context the engine cannot dispatch on.
type InvalidStateError struct {
	State  domain.WorkflowState
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid workflow state %q", e.State)
	}
	return fmt.Sprintf("invalid workflow state %q: %s", e.State, e.Reason)
}
