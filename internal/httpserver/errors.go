package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sdk "github.com/openai/openai-go"

	"github.com/davidbz/promptmeter/internal/domain"
	"github.com/davidbz/promptmeter/internal/observability"
)

// APIError matches the OpenAI error response format.
type APIError struct {
	Error APIErrorBody `json:"error"`
}

// APIErrorBody is the body of an APIError.
type APIErrorBody struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, errType, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(APIError{
		Error: APIErrorBody{
			Message:   message,
			Type:      errType,
			Code:      code,
			RequestID: observability.GetRequestID(r.Context()),
		},
	})
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to encode error response", observability.Error(err))
	}
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, "invalid_request_error", "invalid_request", message)
}

// writeServiceError maps an error from the predictive prompt service to a response.
// Upstream HTTP statuses are passed through; every other provider failure is a 502.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeBadRequest(w, r, err.Error())
		return
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest {
		writeError(w, r, apiErr.StatusCode, "upstream_error", "upstream_status", err.Error())
		return
	}

	if errors.Is(err, domain.ErrMissingUsage) {
		writeError(w, r, http.StatusBadGateway, "upstream_error", "missing_usage", err.Error())
		return
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		writeError(w, r, http.StatusBadGateway, "upstream_error", "provider_error", err.Error())
		return
	}

	writeError(w, r, http.StatusInternalServerError, "server_error", "internal_error", err.Error())
}
