package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/davidbz/promptmeter/internal/domain"
	"github.com/davidbz/promptmeter/internal/observability"
)

const maxRequestBodyBytes = 1 << 20

// PredictivePromptRequest is the body of POST /predictive-prompt.
type PredictivePromptRequest struct {
	Prompt     string `json:"prompt"`
	Prediction string `json:"prediction"`
	Model      string `json:"model"`
}

// Handler handles HTTP requests.
type Handler struct {
	service *domain.PredictiveService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(service *domain.PredictiveService) *Handler {
	return &Handler{
		service: service,
	}
}

// HandlePredictivePrompt runs a predictive prompt and returns the response
// text with its run time and cost.
func (h *Handler) HandlePredictivePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PredictivePromptRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeBadRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	logger := observability.FromContext(observability.WithModel(ctx, req.Model))
	logger.Info("predictive prompt request received",
		observability.Int("prompt_chars", len(req.Prompt)),
		observability.Int("prediction_chars", len(req.Prediction)),
	)

	response, err := h.service.PredictivePrompt(ctx, req.Prompt, req.Prediction, req.Model)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	body, err := json.Marshal(response)
	if err != nil {
		logger.Error("failed to encode response", observability.Error(err))
		writeError(w, r, http.StatusInternalServerError, "server_error", "internal_error",
			fmt.Sprintf("failed to encode response: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Error("failed to write response", observability.Error(err))
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it.
		return
	}
}
