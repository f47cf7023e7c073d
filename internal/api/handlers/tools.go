package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/api/middleware"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/Harshitk-cp/frontdesk/internal/service"
)

// Dispatcher is the tool surface served over HTTP.
type Dispatcher interface {
	Tools() []domain.ToolSpec
	Invoke(ctx context.Context, call domain.Call) (domain.Result, error)
}

// OutcomeRecorder counts tool results.
type OutcomeRecorder interface {
	ToolOutcome(tool, outcome string)
}

type ToolHandler struct {
	dispatcher Dispatcher
	metrics    OutcomeRecorder
}

func NewToolHandler(dispatcher Dispatcher, metrics OutcomeRecorder) *ToolHandler {
	return &ToolHandler{dispatcher: dispatcher, metrics: metrics}
}

type toolSpecResponse struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Privileged  bool           `json:"privileged"`
}

func specsResponse(specs []domain.ToolSpec) []toolSpecResponse {
	out := make([]toolSpecResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, toolSpecResponse{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.JSONSchema(),
			Privileged:  s.Privileged,
		})
	}
	return out
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": specsResponse(h.dispatcher.Tools())})
}

type invokeRequest struct {
	CallID    string         `json:"call_id"`
	Session   string         `json:"session"`
	Arguments map[string]any `json:"arguments"`
}

func (h *ToolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := chi.URLParam(r, "name")
	res, err := h.dispatcher.Invoke(r.Context(), domain.Call{
		ID:        req.CallID,
		Session:   callerSession(req.Session, r),
		Tool:      name,
		Arguments: req.Arguments,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTool):
			writeError(w, http.StatusNotFound, "unknown tool: "+name)
		case errors.Is(err, service.ErrInvalidArgs):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			middleware.LoggerFromContext(r.Context()).Error("tool call failed", zap.String("tool", name), zap.Error(err))
			if h.metrics != nil {
				h.metrics.ToolOutcome(name, "error")
			}
			writeError(w, http.StatusBadGateway, "registry unavailable")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.ToolOutcome(res.Tool, string(res.Outcome))
	}
	writeJSON(w, http.StatusOK, res)
}
