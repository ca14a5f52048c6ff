package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/shared/errors"
)

func TestErrorWritesTypedBody(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/buildings", nil)
	rec := httptest.NewRecorder()

	err := errors.WithDetails(errors.ErrorTypeInsufficientResources, "insufficient resources: wood short by 50",
		map[string]any{"shortfall": map[string]int64{"wood": 50}})
	Error(rec, req, logger, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "insufficient_resources", body.Error)
	assert.False(t, body.Retryable)
	assert.Contains(t, body.Details, "shortfall")
}

func TestErrorRetryableSetsRetryAfter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/battles", nil)
	rec := httptest.NewRecorder()

	Error(rec, req, logger, errors.Busyf("player %s is busy", "p1"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMapErrorTypeToStatusCode(t *testing.T) {
	testCases := map[errors.ErrorType]int{
		errors.ErrorTypeNotFound:         http.StatusNotFound,
		errors.ErrorTypeValidation:       http.StatusBadRequest,
		errors.ErrorTypePositionOccupied: http.StatusConflict,
		errors.ErrorTypeAlreadyResolved:  http.StatusConflict,
		errors.ErrorTypeBuildingLimit:    http.StatusUnprocessableEntity,
		errors.ErrorTypeStoreFailure:     http.StatusServiceUnavailable,
		errors.ErrorTypeUnauthorized:     http.StatusUnauthorized,
		errors.ErrorTypeInternal:         http.StatusInternalServerError,
	}

	for errorType, expected := range testCases {
		t.Run(string(errorType), func(t *testing.T) {
			assert.Equal(t, expected, mapErrorTypeToStatusCode(errorType))
		})
	}
}
