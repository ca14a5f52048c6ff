package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	err := Newf(ErrorTypePositionOccupied, "cell (%d,%d) is occupied", 3, 4)
	assert.Equal(t, ErrorTypePositionOccupied, GetType(err))
	assert.Equal(t, "cell (3,4) is occupied", err.Error())

	wrapped := fmt.Errorf("construct: %w", err)
	assert.Equal(t, ErrorTypePositionOccupied, GetType(wrapped))
	assert.True(t, Is(wrapped, ErrorTypePositionOccupied))

	assert.Equal(t, ErrorTypeInternal, GetType(stderrors.New("plain")))
	assert.False(t, Is(nil, ErrorTypeInternal))
}

func TestWrapStoreKeepsApplicationErrors(t *testing.T) {
	validation := Validation("bad input")
	assert.Same(t, validation, WrapStore("insert building", validation))

	ioErr := stderrors.New("connection reset")
	wrapped := WrapStore("insert building", ioErr)
	assert.Equal(t, ErrorTypeStoreFailure, GetType(wrapped))
	assert.ErrorIs(t, wrapped, ioErr)
}

func TestRetryable(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"busy", Busyf("player locked"), true},
		{"store failure", WrapStore("update", stderrors.New("timeout")), true},
		{"insufficient resources", Newf(ErrorTypeInsufficientResources, "short"), false},
		{"already resolved", Newf(ErrorTypeAlreadyResolved, "done"), false},
		{"plain error", stderrors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Retryable(tc.err))
		})
	}
}

func TestGetDetails(t *testing.T) {
	err := WithDetails(ErrorTypePopulationLimit, "population limit reached", map[string]any{"cap": 20})
	assert.Equal(t, map[string]any{"cap": 20}, GetDetails(fmt.Errorf("enqueue: %w", err)))
	assert.Nil(t, GetDetails(stderrors.New("plain")))
}
