package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartallies/incident/internal/domain"
)

func TestChatRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, ChatRequest{Message: "hi"}.Validate(), ErrMissingSessionID)
	assert.ErrorIs(t, ChatRequest{SessionID: "s1", Message: "   "}.Validate(), ErrMissingMessage)
	assert.NoError(t, ChatRequest{SessionID: "s1", Message: "hi"}.Validate())
}

func TestChatRequest_DecodesWireNames(t *testing.T) {
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(`{"sessionId":"abc","message":"lift broken","imageUrl":"http://img/1.png"}`), &req))
	assert.Equal(t, ChatRequest{SessionID: "abc", Message: "lift broken", ImageURL: "http://img/1.png"}, req)
}

func TestChatResponse_OmitsEmptyOptionalFields(t *testing.T) {
	data, err := json.Marshal(ChatResponse{Message: "hello", WorkflowState: domain.StateInitial})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hello","workflowState":"INITIAL"}`, string(data))
}
