package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformlogger "github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := New("test-event", map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := New("test-event", map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		successHandler := &MockEventHandler{}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		event, err := New("test-event", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Equal(t, 1, failingHandler.HandledCount)
		assert.Equal(t, 1, successHandler.HandledCount)
	})
}

func TestLogHandler(t *testing.T) {
	buf, logger := platformlogger.NewTestLogger(t)
	handler := NewLogHandler(logger)

	created, err := New(TypeAccountCreated, AccountCreated{Role: "sitter"})
	require.NoError(t, err)
	failed, err := New(TypeCompensationFailed, CompensationFailed{Compensation: "create_identity"})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), created))
	require.NoError(t, handler.HandleEvent(context.Background(), failed))

	entries := platformlogger.FindEntries(t, buf, "event")
	require.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, TypeAccountCreated, entries[0]["event_type"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, TypeCompensationFailed, entries[1]["event_type"])
}
