package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a referenced entity is absent or not owned by the caller
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates malformed or out-of-range input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeExternal indicates an external service error
	ErrorTypeExternal ErrorType = "external"

	ErrorTypeInsufficientResources ErrorType = "insufficient_resources"
	ErrorTypeInsufficientTroops    ErrorType = "insufficient_troops"
	ErrorTypePopulationLimit       ErrorType = "population_limit_reached"
	ErrorTypeBuildingLimit         ErrorType = "building_limit_reached"
	ErrorTypeDuplicateUnique       ErrorType = "duplicate_unique_building"
	ErrorTypeTownHallLevelTooLow   ErrorType = "town_hall_level_too_low"
	ErrorTypeBuildingLevelTooLow   ErrorType = "building_level_too_low"
	ErrorTypePositionOccupied      ErrorType = "position_occupied"
	ErrorTypeMaxLevelExceeded      ErrorType = "max_level_exceeded"
	ErrorTypeNoUpgradeConfig       ErrorType = "no_upgrade_config"
	ErrorTypeAlreadyResolved       ErrorType = "already_resolved"
	ErrorTypeTrainingInProgress    ErrorType = "training_in_progress"

	// ErrorTypeBusy indicates lock contention or a stale optimistic write; retryable
	ErrorTypeBusy ErrorType = "busy"
	// ErrorTypeStoreFailure indicates a durable store I/O error; retryable
	ErrorTypeStoreFailure ErrorType = "store_failure"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Newf creates an error of the given type with formatting
func Newf(errorType ErrorType, format string, args ...interface{}) error {
	return &AppError{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails creates an error of the given type carrying structured details for the client
func WithDetails(errorType ErrorType, message string, details map[string]any) error {
	return &AppError{
		Type:    errorType,
		Message: message,
		Details: details,
	}
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// Conflictf creates a conflict error with formatting
func Conflictf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// Busyf creates a retryable contention error
func Busyf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeBusy,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapStore wraps a durable store error. Errors that already carry an
// application type pass through unchanged so validation kinds raised inside
// a transaction are not masked.
func WrapStore(message string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{
		Type:    ErrorTypeStoreFailure,
		Message: message,
		Err:     err,
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// WrapExternal wraps an error as an external service error
func WrapExternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetDetails returns the structured details of an error, if any
func GetDetails(err error) map[string]any {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// Is reports whether err is an application error of the given type
func Is(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	return GetType(err) == errorType
}

// Retryable reports whether the caller may retry the request unchanged
func Retryable(err error) bool {
	switch GetType(err) {
	case ErrorTypeBusy, ErrorTypeStoreFailure:
		return true
	default:
		return false
	}
}
