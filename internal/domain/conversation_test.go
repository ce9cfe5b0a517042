package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIncidentType(t *testing.T) {
	got, err := ParseIncidentType(" facility ")
	require.NoError(t, err)
	assert.Equal(t, IncidentFacility, got)

	_, err = ParseIncidentType("FIRE")
	assert.Error(t, err)

	_, err = ParseIncidentType("")
	assert.Error(t, err)
}

func TestConversationContext_SetFieldFiltersEmpty(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewConversationContext("s1", created)

	later := created.Add(time.Minute)
	assert.False(t, c.SetField(FieldWho, "", later))
	assert.False(t, c.SetField(FieldWho, "  ", later))
	assert.False(t, c.SetField(FieldWho, "NULL", later))
	assert.Equal(t, created, c.UpdatedAt)
	assert.Empty(t, c.CollectedFields)

	assert.True(t, c.SetField(FieldWho, "my manager", later))
	assert.Equal(t, "my manager", c.Field(FieldWho))
	assert.Equal(t, later, c.UpdatedAt)
}

func TestConversationContext_CloneIsIndependent(t *testing.T) {
	now := time.Now()
	c := NewConversationContext("s1", now)
	c.SetField(FieldWhere, "kitchen", now)

	cp := c.Clone()
	cp.SetField(FieldWhat, "leak", now)
	cp.WorkflowState = StateCollectingDetails

	assert.Equal(t, StateInitial, c.WorkflowState)
	assert.False(t, c.HasField(FieldWhat))
	assert.True(t, cp.HasField(FieldWhere))
}

func TestConversationContext_MissingFields(t *testing.T) {
	now := time.Now()
	c := NewConversationContext("s1", now)
	c.SetField(FieldWhat, "broken window", now)

	assert.Equal(t, []string{FieldWhere}, c.MissingFields(MandatoryFields(IncidentFacility)))
	assert.Equal(t, []string{FieldWho, FieldWhen, FieldWhere}, c.MissingFields(MandatoryFields(IncidentHuman)))
}

func TestWorkflowState_Terminal(t *testing.T) {
	for state := range ValidWorkflowStates {
		want := state == StateReportReady || state == StateCompleted
		assert.Equal(t, want, state.Terminal(), string(state))
	}
}

func TestWorkflowState_Valid(t *testing.T) {
	assert.True(t, StateEmergencyActive.Valid())
	assert.False(t, WorkflowState("ARCHIVED").Valid())
	assert.False(t, WorkflowState("").Valid())
}

func TestIncidentType_ValidMatchesIncidentTypes(t *testing.T) {
	for _, it := range IncidentTypes {
		assert.True(t, it.Valid(), string(it))
	}
	assert.False(t, IncidentUnset.Valid())
	assert.False(t, IncidentType("OTHER").Valid())
}

func TestRequestedFields_FacilityAsksForPicture(t *testing.T) {
	assert.Contains(t, RequestedFields(IncidentFacility), FieldPicture)
	assert.NotContains(t, MandatoryFields(IncidentFacility), FieldPicture)
}
