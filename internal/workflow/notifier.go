package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EmergencyAlert is raised once a turn in an emergency has a confirmed location.
type EmergencyAlert struct {
	SessionID      string
	Location       string
	PersonName     string
	Condition      string
	InitialMessage string
	RaisedAt       time.Time
}

// AlertNotifier delivers emergency alerts. Delivery is fire-and-forget: the
// turn does not wait for an acknowledgement and cannot fail because of it.
type AlertNotifier interface {
	NotifyEmergency(ctx context.Context, alert EmergencyAlert)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier records alerts at warn level.
func NewLogNotifier(logger *zap.Logger) AlertNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logNotifier{logger: logger.Named("alerts")}
}

func (n *logNotifier) NotifyEmergency(_ context.Context, alert EmergencyAlert) {
	n.logger.Warn("emergency alert",
		zap.String("session_id", alert.SessionID),
		zap.String("location", alert.Location),
		zap.String("person_name", alert.PersonName),
		zap.String("condition", alert.Condition),
		zap.Time("raised_at", alert.RaisedAt),
	)
}
