package workflow

import (
	"fmt"
	"strings"

	"github.com/smartallies/incident/internal/contract"
	"github.com/smartallies/incident/internal/domain"
)

// Suggested actions offered to the user.
const (
	ActionYes               = "Yes"
	ActionNo                = "No"
	ActionHelpMeReport      = "Yes, help me report this"
	ActionNoThanks          = "No, thank you"
	ActionSubmit            = "Submit"
	ActionSubmitAnonymously = "Submit Anonymously"
	ActionCancel            = "Cancel"
)

const (
	reclassifyMessage    = "I'm sorry I misunderstood. Could you tell me a bit more about what happened?"
	facilityStartMessage = "I'll help you report this facility issue. Let me collect a few details.\n\nPlease describe what happened in as much detail as you can."
	humanCollectMessage  = "I'll help you document this. Let me collect the information a report needs.\n\nFirst, can you tell me who was involved?"
	declinedMessage      = "I understand. If you change your mind or need support, you can reach out at any time."
	completedMessage     = "This conversation is closed. If something else has happened, please start a new conversation."
	defaultFollowUp      = "Thank you. Could you share any further details?"
)

func confirmationReply(c *domain.ConversationContext, reasoning string) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:          fmt.Sprintf("I understand this is a %s incident. %s\n\nIs this correct?", c.IncidentType.Label(), reasoning),
		IncidentType:     c.IncidentType,
		WorkflowState:    c.WorkflowState,
		SuggestedActions: []string{ActionYes, ActionNo},
		Metadata: map[string]any{
			contract.MetaConfidence: c.ClassificationConfidence,
			contract.MetaReasoning:  reasoning,
		},
	}
}

func reclassifyReply(c *domain.ConversationContext) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:       reclassifyMessage,
		WorkflowState: c.WorkflowState,
	}
}

func humanSupportReply(c *domain.ConversationContext, resources []string) *contract.ChatResponse {
	var b strings.Builder
	b.WriteString("I'm here to support you through this. These resources may help:\n\n")
	for _, r := range resources {
		b.WriteString("• ")
		b.WriteString(r)
		b.WriteByte('\n')
	}
	b.WriteString("\nWould you like me to help you draft an incident report?")

	return &contract.ChatResponse{
		Message:          b.String(),
		IncidentType:     c.IncidentType,
		WorkflowState:    c.WorkflowState,
		Resources:        resources,
		SuggestedActions: []string{ActionHelpMeReport, ActionNoThanks},
	}
}

func facilityStartReply(c *domain.ConversationContext) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:       facilityStartMessage,
		IncidentType:  c.IncidentType,
		WorkflowState: c.WorkflowState,
		Metadata: map[string]any{
			contract.MetaRequiredFields: domain.RequestedFields(domain.IncidentFacility),
		},
	}
}

func emergencyStartReply(c *domain.ConversationContext, numbers domain.EmergencyNumbers) *contract.ChatResponse {
	msg := fmt.Sprintf(`🚨 EMERGENCY PROTOCOL ACTIVATED 🚨

Swiss emergency numbers:
• Police: %s
• Ambulance: %s
• Fire: %s
• Company Samaritans: %s

Please tell me the LOCATION of the emergency right away.`,
		numbers.Police, numbers.Ambulance, numbers.Fire, numbers.Samaritan)

	return &contract.ChatResponse{
		Message:       msg,
		IncidentType:  domain.IncidentEmergency,
		WorkflowState: c.WorkflowState,
		Metadata: map[string]any{
			contract.MetaIsEmergency:      true,
			contract.MetaEmergencyNumbers: numbers.AsMap(),
		},
	}
}

func humanCollectReply(c *domain.ConversationContext) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:       humanCollectMessage,
		IncidentType:  c.IncidentType,
		WorkflowState: c.WorkflowState,
		Metadata: map[string]any{
			contract.MetaRequiredFields: domain.RequestedFields(domain.IncidentHuman),
		},
	}
}

func declinedReply(c *domain.ConversationContext) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:       declinedMessage,
		IncidentType:  c.IncidentType,
		WorkflowState: c.WorkflowState,
	}
}

func followUpReply(c *domain.ConversationContext, message string) *contract.ChatResponse {
	if strings.TrimSpace(message) == "" {
		message = defaultFollowUp
	}
	return &contract.ChatResponse{
		Message:       message,
		IncidentType:  c.IncidentType,
		WorkflowState: c.WorkflowState,
		Metadata: map[string]any{
			contract.MetaCollectedFields: c.Fields(),
		},
	}
}

// stillMissingReply answers a premature "all collected" from the model.
func stillMissingReply(c *domain.ConversationContext, message string, missing []string) *contract.ChatResponse {
	var b strings.Builder
	if strings.TrimSpace(message) != "" {
		b.WriteString(strings.TrimSpace(message))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Before I can prepare the report I still need: %s.", strings.Join(missing, ", "))

	resp := followUpReply(c, b.String())
	resp.Metadata[contract.MetaMissingFields] = missing
	return resp
}

func reportReadyReply(c *domain.ConversationContext, summary string) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:          "Here's a summary of your report:\n\n" + summary + "\n\nWould you like to submit this report?",
		IncidentType:     c.IncidentType,
		WorkflowState:    c.WorkflowState,
		SuggestedActions: []string{ActionSubmit, ActionSubmitAnonymously, ActionCancel},
		Metadata: map[string]any{
			contract.MetaSummary:         summary,
			contract.MetaCollectedFields: c.Fields(),
		},
	}
}

func reportPendingReply(c *domain.ConversationContext) *contract.ChatResponse {
	summary := c.Field(domain.FieldSummary)
	return &contract.ChatResponse{
		Message:          "Your report is ready:\n\n" + summary + "\n\nWould you like to submit it?",
		IncidentType:     c.IncidentType,
		WorkflowState:    c.WorkflowState,
		SuggestedActions: []string{ActionSubmit, ActionSubmitAnonymously, ActionCancel},
		Metadata: map[string]any{
			contract.MetaSummary:         summary,
			contract.MetaCollectedFields: c.Fields(),
		},
	}
}

func completedReply(c *domain.ConversationContext) *contract.ChatResponse {
	return &contract.ChatResponse{
		Message:       completedMessage,
		IncidentType:  c.IncidentType,
		WorkflowState: c.WorkflowState,
	}
}

func alertSentReply(c *domain.ConversationContext) *contract.ChatResponse {
	location := c.Field(domain.FieldLocation)
	msg := fmt.Sprintf(`✅ Emergency alert sent to the company Samaritans!
Location: %s

Help is on the way. Please stay calm.

Can you tell me the name of the person who needs help?`, location)

	return &contract.ChatResponse{
		Message:       msg,
		IncidentType:  domain.IncidentEmergency,
		WorkflowState: c.WorkflowState,
		Metadata: map[string]any{
			contract.MetaAlertSent:       true,
			contract.MetaLocation:        location,
			contract.MetaCollectedFields: c.Fields(),
		},
	}
}

func emergencyFollowUpReply(c *domain.ConversationContext, message string) *contract.ChatResponse {
	resp := followUpReply(c, message)
	resp.IncidentType = domain.IncidentEmergency
	return resp
}
