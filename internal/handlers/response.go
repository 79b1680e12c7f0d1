package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/service"
)

// ErrorResponse is the body of a domain error
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationResponse is the body of a 422 response
type ValidationResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

// ValidationIssue describes one invalid field or parameter
type ValidationIssue struct {
	Msg string `json:"msg"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a {"detail": message} response
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Detail: message}, logger)
}

// WriteValidationError writes a 422 response listing every issue
func WriteValidationError(w http.ResponseWriter, issues []string, logger *slog.Logger) {
	resp := ValidationResponse{Detail: make([]ValidationIssue, 0, len(issues))}
	for _, issue := range issues {
		resp.Detail = append(resp.Detail, ValidationIssue{Msg: issue})
	}
	WriteJSON(w, http.StatusUnprocessableEntity, resp, logger)
}

// writeServiceError maps a service outcome onto a status code.
// Unclassified errors are storage failures and are logged.
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger, attrs ...any) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindValidation:
			WriteValidationError(w, svcErr.Issues, logger)
			return
		case service.KindNotFound:
			logger.Info("product not found", attrs...)
			WriteError(w, http.StatusNotFound, svcErr.Message, logger)
			return
		}
	}

	logger.Error("storage operation failed", append(attrs, "error", err)...)
	WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
}
