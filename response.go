package tygql

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body of a request rejected before execution, shaped
// like a GraphQL response with no data.
type errorResponse struct {
	Errors []errorEntry `json:"errors"`
}

type errorEntry struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, e *Error, logger *slog.Logger) {
	writeJSON(w, e.Code.HTTPStatus(), errorResponse{
		Errors: []errorEntry{{Message: e.Message, Extensions: e.Extensions()}},
	}, logger)
}
