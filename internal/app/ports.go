package app

import (
	"context"

	"github.com/smartallies/incident/internal/contract"
	"github.com/smartallies/incident/internal/domain"
)

// ChatUseCase is what the HTTP and terminal front ends drive.
type ChatUseCase interface {
	Process(ctx context.Context, req contract.ChatRequest) (*contract.ChatResponse, error)
	Respond(ctx context.Context, req contract.ChatRequest) *contract.ChatResponse
	ErrorResponse(sessionID string, err error) *contract.ChatResponse
	Reset(sessionID string) bool
	Session(sessionID string) (*domain.ConversationContext, bool)
}
