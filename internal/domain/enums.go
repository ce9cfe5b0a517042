package domain

import (
	"fmt"
	"slices"
	"strings"
)

type IncidentType string

const (
	IncidentUnset     IncidentType = ""
	IncidentHuman     IncidentType = "HUMAN"
	IncidentFacility  IncidentType = "FACILITY"
	IncidentEmergency IncidentType = "EMERGENCY"
)

// IncidentTypes lists the classifiable types in display order.
var IncidentTypes = []IncidentType{IncidentHuman, IncidentFacility, IncidentEmergency}

// ParseIncidentType accepts any casing and surrounding whitespace.
func ParseIncidentType(s string) (IncidentType, error) {
	t := IncidentType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return IncidentUnset, fmt.Errorf("unknown incident type %q", s)
	}
	return t, nil
}

func (t IncidentType) Valid() bool {
	return slices.Contains(IncidentTypes, t)
}

// Label is the lower-case form used in conversational text.
func (t IncidentType) Label() string {
	return strings.ToLower(string(t))
}

type WorkflowState string

const (
	StateInitial                            WorkflowState = "INITIAL"
	StateAwaitingClassificationConfirmation WorkflowState = "AWAITING_CLASSIFICATION_CONFIRMATION"
	StateClassificationConfirmed            WorkflowState = "CLASSIFICATION_CONFIRMED"
	StateCollectingDetails                  WorkflowState = "COLLECTING_DETAILS"
	StateAwaitingReportConfirmation         WorkflowState = "AWAITING_REPORT_CONFIRMATION"
	StateReportReady                        WorkflowState = "REPORT_READY"
	StateEmergencyActive                    WorkflowState = "EMERGENCY_ACTIVE"
	StateCompleted                          WorkflowState = "COMPLETED"
)

// ValidWorkflowStates is the canonical set of states the engine dispatches on.
var ValidWorkflowStates = map[WorkflowState]bool{
	StateInitial:                            true,
	StateAwaitingClassificationConfirmation: true,
	StateClassificationConfirmed:            true,
	StateCollectingDetails:                  true,
	StateAwaitingReportConfirmation:         true,
	StateReportReady:                        true,
	StateEmergencyActive:                    true,
	StateCompleted:                          true,
}

func (s WorkflowState) Valid() bool {
	return ValidWorkflowStates[s]
}

// Terminal reports whether no further fields are collected in this state.
func (s WorkflowState) Terminal() bool {
	return s == StateReportReady || s == StateCompleted
}

// Field names shared by prompts, extraction and metadata.
const (
	FieldWho        = "who"
	FieldWhat       = "what"
	FieldWhen       = "when"
	FieldWhere      = "where"
	FieldPicture    = "picture"
	FieldLocation   = "location"
	FieldPersonName = "personName"
	FieldCondition  = "condition"
	FieldSummary    = "summary"
)

// RequestedFields returns the fields the user is asked for when collection
// starts. The list is advisory and goes out as response metadata.
func RequestedFields(t IncidentType) []string {
	switch t {
	case IncidentHuman:
		return []string{FieldWho, FieldWhat, FieldWhen, FieldWhere}
	case IncidentFacility:
		return []string{FieldWhat, FieldWhere, FieldPicture}
	case IncidentEmergency:
		return []string{FieldLocation, FieldPersonName, FieldCondition}
	}
	return nil
}

// MandatoryFields returns the fields that must be collected before a report
// can be summarized (or, for emergencies, before an alert goes out).
func MandatoryFields(t IncidentType) []string {
	switch t {
	case IncidentHuman:
		return []string{FieldWho, FieldWhat, FieldWhen, FieldWhere}
	case IncidentFacility:
		return []string{FieldWhat, FieldWhere}
	case IncidentEmergency:
		return []string{FieldLocation}
	}
	return nil
}
