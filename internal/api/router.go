// Package api exposes the chat engine over HTTP.
package api

import (
	"net/http"

	"go.uber.org/zap"
)

func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", handler.Chat)
	mux.HandleFunc("GET /api/health", handler.Health)
	mux.HandleFunc("DELETE /api/sessions/{id}", handler.DeleteSession)

	return withRequestID(withAccessLog(withRecovery(mux, logger), logger))
}
