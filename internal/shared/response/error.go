package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"village-server/internal/shared/errors"
)

// ErrorResponse represents the JSON error response sent to clients
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Code      int            `json:"code"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// Error logs an error and sends a JSON error response to the client
// This should be the only place where errors are logged in the application
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := mapErrorTypeToStatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	if errors.Retryable(err) {
		w.Header().Set("Retry-After", "1")
	}

	sendErrorResponse(w, err, errorType, err.Error(), statusCode)
}

// ErrorWithMessage logs an error and sends a JSON error response with a custom client message
// Use this when you want to show a different message to the client than the internal error
func ErrorWithMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, clientMessage string) {
	errorType := errors.GetType(err)
	statusCode := mapErrorTypeToStatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	sendErrorResponse(w, err, errorType, clientMessage, statusCode)
}

// mapErrorTypeToStatusCode maps error types to HTTP status codes
func mapErrorTypeToStatusCode(errorType errors.ErrorType) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeConflict,
		errors.ErrorTypePositionOccupied,
		errors.ErrorTypeDuplicateUnique,
		errors.ErrorTypeAlreadyResolved,
		errors.ErrorTypeTrainingInProgress:
		return http.StatusConflict
	case errors.ErrorTypeInsufficientResources,
		errors.ErrorTypeInsufficientTroops,
		errors.ErrorTypePopulationLimit,
		errors.ErrorTypeBuildingLimit,
		errors.ErrorTypeTownHallLevelTooLow,
		errors.ErrorTypeBuildingLevelTooLow,
		errors.ErrorTypeMaxLevelExceeded,
		errors.ErrorTypeNoUpgradeConfig:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrorTypeForbidden:
		return http.StatusForbidden
	case errors.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrorTypeBusy:
		return http.StatusTooManyRequests
	case errors.ErrorTypeStoreFailure, errors.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// logError logs the error with appropriate level and context
func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch {
	case statusCode == http.StatusNotFound, statusCode == http.StatusBadRequest:
		logCtx.Debug("Client request rejected", "error", err)
	case statusCode == http.StatusConflict, statusCode == http.StatusUnprocessableEntity:
		// Game rule rejections are expected traffic
		logCtx.Info("Game rule rejected request", "error", err)
	case errorType == errors.ErrorTypeUnauthorized, errorType == errors.ErrorTypeForbidden:
		logCtx.Warn("Authorization error", "error", err)
	case errorType == errors.ErrorTypeBusy:
		logCtx.Warn("Player state busy", "error", err)
	case errorType == errors.ErrorTypeStoreFailure, errorType == errors.ErrorTypeExternal:
		logCtx.Error("Dependency failure", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// sendErrorResponse sends a JSON error response to the client
func sendErrorResponse(w http.ResponseWriter, err error, errorType errors.ErrorType, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:     string(errorType),
		Message:   message,
		Code:      statusCode,
		Retryable: errors.Retryable(err),
		Details:   errors.GetDetails(err),
	}

	// The status code has already been sent
	_ = json.NewEncoder(w).Encode(response)
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
