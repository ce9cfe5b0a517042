package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/contract"
)

const (
	healthMessage   = "Incident Reporting Backend is running"
	maxRequestBytes = 1 << 20
)

// ChatEngine is the slice of the workflow engine the handlers need.
type ChatEngine interface {
	Process(ctx context.Context, req contract.ChatRequest) (*contract.ChatResponse, error)
	ErrorResponse(sessionID string, err error) *contract.ChatResponse
	Reset(sessionID string) bool
}

type Handler struct {
	Engine ChatEngine
	Logger *zap.Logger
}

func NewHandler(engine ChatEngine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Engine: engine, Logger: logger.Named("api")}
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req contract.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.Engine.Process(r.Context(), req)
	if err != nil {
		h.Logger.Error("chat turn failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, contract.ErrMissingSessionID) || errors.Is(err, contract.ErrMissingMessage) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, h.Engine.ErrorResponse(req.SessionID, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(healthMessage))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.Engine.Reset(id) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
