package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Mathieu1704/icare-mvp/internal/app/pipeline"
	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

type chatHandler struct {
	pipeline *pipeline.ChatPipeline
	obs      ports.Observability
}

func (h *chatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeDetail(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.pipeline.Handle(r.Context(), req)
	if err != nil {
		var extractionErr *ports.ExtractionError
		if errors.As(err, &extractionErr) {
			h.obs.LogError("chat_extraction_rejected", err, ports.Field{Key: "request_id", Value: requestID})
			writeDetail(w, http.StatusUnprocessableEntity, extractionErr.Error())
			return
		}
		h.obs.LogError("chat_request_failed", err, ports.Field{Key: "request_id", Value: requestID})
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
