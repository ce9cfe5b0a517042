package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/domain"
)

// TurnEvent captures telemetry for one processed turn.
type TurnEvent struct {
	SessionID    string
	From         domain.WorkflowState
	To           domain.WorkflowState
	IncidentType domain.IncidentType
	Duration     time.Duration
	StartedAt    time.Time
	Err          error

	// NewSession is set on the turn that created the session; ActiveSessions
	// is the store size at that point.
	NewSession     bool
	ActiveSessions int
}

// TurnObserver receives one event per turn, successful or not.
type TurnObserver interface {
	ObserveTurn(ctx context.Context, event TurnEvent)
}

// NoopTurnObserver ignores all events.
type NoopTurnObserver struct{}

func (NoopTurnObserver) ObserveTurn(context.Context, TurnEvent) {}

type zapTurnObserver struct {
	logger *zap.Logger
}

// NewZapTurnObserver logs turns at info and failed turns at error.
func NewZapTurnObserver(logger *zap.Logger) TurnObserver {
	if logger == nil {
		return NoopTurnObserver{}
	}
	return &zapTurnObserver{logger: logger.Named("workflow")}
}

func (o *zapTurnObserver) ObserveTurn(_ context.Context, event TurnEvent) {
	fields := []zap.Field{
		zap.String("session_id", event.SessionID),
		zap.String("from", string(event.From)),
		zap.String("to", string(event.To)),
		zap.String("incident_type", string(event.IncidentType)),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
	}
	if event.NewSession {
		fields = append(fields, zap.Bool("new_session", true), zap.Int("active_sessions", event.ActiveSessions))
	}
	if event.Err != nil {
		o.logger.Error("turn failed", append(fields, zap.Error(event.Err))...)
		return
	}
	o.logger.Info("turn processed", fields...)
}
