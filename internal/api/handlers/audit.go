package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/api/middleware"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

type AuditHandler struct {
	store domain.AuditStore
}

func NewAuditHandler(store domain.AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Error("failed to list audit events", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list audit events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
