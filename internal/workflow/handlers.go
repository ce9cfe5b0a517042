package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/contract"
	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/prompt"
)

var (
	classificationKeywords = []string{"yes", "correct", "right"}
	reportKeywords         = []string{"yes", "help"}
)

// containsAny is a case-insensitive substring match.
func containsAny(reply string, keywords []string) bool {
	lower := strings.ToLower(reply)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func (e *Engine) affirmed(ctx context.Context, reply string, keywords []string) (bool, error) {
	if containsAny(reply, keywords) {
		return true, nil
	}
	if !e.affirmationFallback || e.services.Affirmation == nil {
		return false, nil
	}
	ok, err := e.services.Affirmation.IsAffirmative(ctx, reply)
	if err != nil {
		return false, fmt.Errorf("checking affirmation: %w", err)
	}
	return ok, nil
}

func (e *Engine) classify(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	now := e.now()
	if c.InitialMessage == "" {
		c.InitialMessage = req.Message
	}
	if c.ImageURL == "" && strings.TrimSpace(req.ImageURL) != "" {
		c.ImageURL = strings.TrimSpace(req.ImageURL)
	}

	result, err := e.services.Classifier.Classify(ctx, req.Message, c.ImageURL != "")
	if err != nil {
		return nil, fmt.Errorf("classifying incident: %w", err)
	}

	c.IncidentType = result.Type
	c.ClassificationConfidence = result.Confidence
	c.WorkflowState = domain.StateAwaitingClassificationConfirmation
	c.Touch(now)

	e.logger.Debug("incident classified",
		zap.String("session_id", c.SessionID),
		zap.String("incident_type", string(result.Type)),
		zap.Float64("confidence", result.Confidence),
	)
	return confirmationReply(c, result.Reasoning), nil
}

func (e *Engine) confirmClassification(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	ok, err := e.affirmed(ctx, req.Message, classificationKeywords)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.IncidentType = domain.IncidentUnset
		c.ClassificationConfidence = 0
		c.WorkflowState = domain.StateInitial
		c.Touch(e.now())
		return reclassifyReply(c), nil
	}

	c.WorkflowState = domain.StateClassificationConfirmed
	c.Touch(e.now())
	return e.startWorkflow(c)
}

func (e *Engine) startWorkflow(c *domain.ConversationContext) (*contract.ChatResponse, error) {
	now := e.now()
	switch c.IncidentType {
	case domain.IncidentHuman:
		c.WorkflowState = domain.StateAwaitingReportConfirmation
		c.Touch(now)
		return humanSupportReply(c, e.resources.ResourcesFor(domain.IncidentHuman)), nil

	case domain.IncidentFacility:
		c.WorkflowState = domain.StateCollectingDetails
		if c.ImageURL != "" {
			c.SetField(domain.FieldPicture, c.ImageURL, now)
		}
		c.Touch(now)
		return facilityStartReply(c), nil

	case domain.IncidentEmergency:
		c.WorkflowState = domain.StateEmergencyActive
		c.Touch(now)
		e.logger.Warn("emergency protocol activated", zap.String("session_id", c.SessionID))
		return emergencyStartReply(c, e.numbers), nil

	default:
		return nil, &InvalidStateError{State: c.WorkflowState, Reason: "incident type not set"}
	}
}

func (e *Engine) confirmReport(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	ok, err := e.affirmed(ctx, req.Message, reportKeywords)
	if err != nil {
		return nil, err
	}
	if ok {
		c.WorkflowState = domain.StateCollectingDetails
		c.Touch(e.now())
		return humanCollectReply(c), nil
	}

	c.WorkflowState = domain.StateCompleted
	c.Touch(e.now())
	return declinedReply(c), nil
}

func (e *Engine) mergeFields(c *domain.ConversationContext, fields map[string]string) {
	now := e.now()
	for name, value := range fields {
		c.SetField(name, value, now)
	}
}

func (e *Engine) detailsInput(c *domain.ConversationContext, t domain.IncidentType, message string) prompt.DetailsInput {
	return prompt.DetailsInput{
		Type:           t,
		InitialMessage: c.InitialMessage,
		Fields:         c.Fields(),
		UserMessage:    message,
		HasImage:       c.ImageURL != "",
	}
}

func (e *Engine) collectDetails(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	if !c.IncidentType.Valid() {
		return nil, &InvalidStateError{State: c.WorkflowState, Reason: "incident type not set"}
	}

	result, err := e.services.Details.Extract(ctx, e.detailsInput(c, c.IncidentType, req.Message))
	if err != nil {
		return nil, fmt.Errorf("extracting details: %w", err)
	}
	e.mergeFields(c, result.Fields)

	if !result.AllFieldsCollected {
		return followUpReply(c, result.Message), nil
	}

	missing := c.MissingFields(domain.MandatoryFields(c.IncidentType))
	if len(missing) > 0 {
		e.logger.Info("model reported completion with fields missing",
			zap.String("session_id", c.SessionID),
			zap.Strings("missing", missing),
		)
		return stillMissingReply(c, result.Message, missing), nil
	}

	summary, err := e.services.Summaries.Summarize(ctx, c.IncidentType, c.InitialMessage, c.Fields())
	if err != nil {
		return nil, fmt.Errorf("summarizing report: %w", err)
	}

	now := e.now()
	c.SetField(domain.FieldSummary, summary, now)
	c.WorkflowState = domain.StateReportReady
	c.Touch(now)
	return reportReadyReply(c, summary), nil
}

func (e *Engine) handleEmergency(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	result, err := e.services.Details.Extract(ctx, e.detailsInput(c, domain.IncidentEmergency, req.Message))
	if err != nil {
		return nil, fmt.Errorf("extracting emergency details: %w", err)
	}
	e.mergeFields(c, result.Fields)

	if !result.HasLocation || !c.HasField(domain.FieldLocation) {
		return emergencyFollowUpReply(c, result.Message), nil
	}

	alert := EmergencyAlert{
		SessionID:      c.SessionID,
		Location:       c.Field(domain.FieldLocation),
		PersonName:     c.Field(domain.FieldPersonName),
		Condition:      c.Field(domain.FieldCondition),
		InitialMessage: c.InitialMessage,
		RaisedAt:       e.now(),
	}
	e.notifier.NotifyEmergency(context.WithoutCancel(ctx), alert)
	return alertSentReply(c), nil
}
