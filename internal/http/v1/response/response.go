// Package response writes JSON bodies in the API's success and error shapes.
package response

import (
	"band-manager/internal/lib/logger/sl"
	"encoding/json"
	"log/slog"
	"net/http"
)

type (
	ErrorResponse struct {
		Error ErrorDetail `json:"error"`
	}

	ErrorDetail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

func JSON(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", sl.Err(err))
	}
}

func Error(w http.ResponseWriter, log *slog.Logger, status int, code, message string) {
	JSON(w, log, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
