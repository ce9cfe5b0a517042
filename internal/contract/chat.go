package contract

import (
	"errors"
	"strings"

	"github.com/smartallies/incident/internal/domain"
)

var (
	ErrMissingSessionID = errors.New("sessionId is required")
	ErrMissingMessage   = errors.New("message is required")
)

// ChatRequest is one inbound user turn.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return ErrMissingSessionID
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// ChatResponse is the reply to one turn.
type ChatResponse struct {
	Message          string               `json:"message"`
	IncidentType     domain.IncidentType  `json:"incidentType,omitempty"`
	WorkflowState    domain.WorkflowState `json:"workflowState"`
	SuggestedActions []string             `json:"suggestedActions,omitempty"`
	Resources        []string             `json:"resources,omitempty"`
	Metadata         map[string]any       `json:"metadata,omitempty"`
}

// Metadata keys carried on ChatResponse.Metadata.
const (
	MetaConfidence       = "confidence"
	MetaReasoning        = "reasoning"
	MetaRequiredFields   = "requiredFields"
	MetaCollectedFields  = "collectedFields"
	MetaMissingFields    = "missingFields"
	MetaSummary          = "summary"
	MetaIsEmergency      = "isEmergency"
	MetaEmergencyNumbers = "emergencyNumbers"
	MetaAlertSent        = "alertSent"
	MetaLocation         = "location"
)
