package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/api/middleware"
	"github.com/Harshitk-cp/frontdesk/internal/service"
)

// Assistant answers free text.
type Assistant interface {
	HandleUtterance(ctx context.Context, session, text string) (service.Reply, error)
}

type UtteranceHandler struct {
	assistant Assistant
}

func NewUtteranceHandler(assistant Assistant) *UtteranceHandler {
	return &UtteranceHandler{assistant: assistant}
}

type utteranceRequest struct {
	Session string `json:"session"`
	Text    string `json:"text"`
}

func (h *UtteranceHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, err := h.assistant.HandleUtterance(r.Context(), callerSession(req.Session, r), req.Text)
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Error("utterance failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to handle utterance")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
