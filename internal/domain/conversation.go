package domain

import (
	"maps"
	"strings"
	"time"
)

// ConversationContext is the per-session state the workflow engine reads and
// advances one turn at a time.
type ConversationContext struct {
	SessionID                string
	WorkflowState            WorkflowState
	IncidentType             IncidentType
	InitialMessage           string
	ImageURL                 string
	ClassificationConfidence float64
	CollectedFields          map[string]string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func NewConversationContext(sessionID string, now time.Time) *ConversationContext {
	return &ConversationContext{
		SessionID:       sessionID,
		WorkflowState:   StateInitial,
		CollectedFields: make(map[string]string),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Clone returns a deep copy; mutating the copy never affects c.
func (c *ConversationContext) Clone() *ConversationContext {
	cp := *c
	cp.CollectedFields = maps.Clone(c.CollectedFields)
	if cp.CollectedFields == nil {
		cp.CollectedFields = make(map[string]string)
	}
	return &cp
}

// SetField stores a collected value. Blank values and the literal "null" are
// dropped so the map only ever holds usable answers. Reports whether the
// value was stored.
func (c *ConversationContext) SetField(name, value string, now time.Time) bool {
	if !UsableValue(value) {
		return false
	}
	if c.CollectedFields == nil {
		c.CollectedFields = make(map[string]string)
	}
	c.CollectedFields[name] = value
	c.UpdatedAt = now
	return true
}

func (c *ConversationContext) Field(name string) string {
	return c.CollectedFields[name]
}

func (c *ConversationContext) HasField(name string) bool {
	return UsableValue(c.CollectedFields[name])
}

// MissingFields returns the names from required that have no usable value,
// preserving the order of required.
func (c *ConversationContext) MissingFields(required []string) []string {
	var missing []string
	for _, name := range required {
		if !c.HasField(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Fields returns a copy of the collected fields for callers that must not
// alias session state.
func (c *ConversationContext) Fields() map[string]string {
	out := maps.Clone(c.CollectedFields)
	if out == nil {
		out = make(map[string]string)
	}
	return out
}

func (c *ConversationContext) Touch(now time.Time) {
	c.UpdatedAt = now
}

// UsableValue reports whether an extracted value carries information.
func UsableValue(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "null")
}
