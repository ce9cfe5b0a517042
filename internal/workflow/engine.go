// Package workflow drives a conversation through the HUMAN, FACILITY and
// EMERGENCY incident workflows one turn at a time.
package workflow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/contract"
	"github.com/smartallies/incident/internal/domain"
	"github.com/smartallies/incident/internal/intelligence"
	"github.com/smartallies/incident/internal/session"
)

// Engine is the per-turn state machine. It is safe for concurrent use; turns
// for the same session are serialized by the session store.
type Engine struct {
	store     *session.Store
	services  intelligence.Services
	resources ResourceProvider
	numbers   domain.EmergencyNumbers

	notifier            AlertNotifier
	observer            TurnObserver
	logger              *zap.Logger
	now                 func() time.Time
	affirmationFallback bool
}

// ResourceProvider returns the support resources shown for an incident type.
type ResourceProvider interface {
	ResourcesFor(t domain.IncidentType) []string
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithNotifier(n AlertNotifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithTurnObserver(o TurnObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// WithAffirmationFallback asks the model whether a reply is affirmative when
// the keyword check says it is not.
func WithAffirmationFallback(enabled bool) Option {
	return func(e *Engine) { e.affirmationFallback = enabled }
}

func New(store *session.Store, services intelligence.Services, resources ResourceProvider, numbers domain.EmergencyNumbers, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		services:  services,
		resources: resources,
		numbers:   numbers,
		observer:  NoopTurnObserver{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("workflow")
	if e.notifier == nil {
		e.notifier = NewLogNotifier(e.logger)
	}
	return e
}

// Process runs one turn. On error the stored context is left exactly as it
// was before the turn.
func (e *Engine) Process(ctx context.Context, req contract.ChatRequest) (*contract.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := e.now()
	lease := e.store.Acquire(req.SessionID)
	defer lease.Release()

	working := lease.Snapshot()
	event := TurnEvent{
		SessionID:    req.SessionID,
		From:         working.WorkflowState,
		To:           working.WorkflowState,
		IncidentType: working.IncidentType,
		StartedAt:    start,
		NewSession:   lease.Created(),
	}
	if event.NewSession {
		event.ActiveSessions = e.store.Len()
	}

	resp, err := e.dispatch(ctx, working, req)
	if err == nil {
		lease.Commit(working)
		event.To = working.WorkflowState
		event.IncidentType = working.IncidentType
	}
	event.Err = err
	event.Duration = e.now().Sub(start)
	e.observer.ObserveTurn(ctx, event)

	return resp, err
}

// Respond runs one turn and never fails: errors become a chat reply that
// reports the session's unchanged state.
func (e *Engine) Respond(ctx context.Context, req contract.ChatRequest) *contract.ChatResponse {
	resp, err := e.Process(ctx, req)
	if err != nil {
		return e.ErrorResponse(req.SessionID, err)
	}
	return resp
}

// ErrorResponse builds the reply shown to the user for a failed turn.
func (e *Engine) ErrorResponse(sessionID string, err error) *contract.ChatResponse {
	resp := &contract.ChatResponse{
		Message:       genericErrorMessage,
		WorkflowState: domain.StateInitial,
	}
	var stateErr *InvalidStateError
	if errors.As(err, &stateErr) {
		resp.Message = invalidStateMessage
	}
	if snap, ok := e.store.Get(sessionID); ok {
		resp.WorkflowState = snap.WorkflowState
		resp.IncidentType = snap.IncidentType
	}
	return resp
}

// Reset forgets a session. Reports whether it existed.
func (e *Engine) Reset(sessionID string) bool {
	cleared := e.store.Clear(sessionID)
	if cleared {
		e.logger.Info("session reset",
			zap.String("session_id", sessionID),
			zap.Int("active_sessions", e.store.Len()),
		)
	}
	return cleared
}

// Session returns a snapshot of the stored context.
func (e *Engine) Session(sessionID string) (*domain.ConversationContext, bool) {
	return e.store.Get(sessionID)
}

func (e *Engine) dispatch(ctx context.Context, c *domain.ConversationContext, req contract.ChatRequest) (*contract.ChatResponse, error) {
	if !c.WorkflowState.Valid() {
		return nil, &InvalidStateError{State: c.WorkflowState, Reason: "unknown state"}
	}
	switch c.WorkflowState {
	case domain.StateInitial:
		return e.classify(ctx, c, req)
	case domain.StateAwaitingClassificationConfirmation:
		return e.confirmClassification(ctx, c, req)
	case domain.StateClassificationConfirmed:
		return e.startWorkflow(c)
	case domain.StateAwaitingReportConfirmation:
		return e.confirmReport(ctx, c, req)
	case domain.StateCollectingDetails:
		return e.collectDetails(ctx, c, req)
	case domain.StateEmergencyActive:
		return e.handleEmergency(ctx, c, req)
	case domain.StateReportReady:
		return reportPendingReply(c), nil
	case domain.StateCompleted:
		return completedReply(c), nil
	default:
		return nil, &InvalidStateError{State: c.WorkflowState}
	}
}
