package events

import (
	"context"
	"log/slog"

	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

// LogHandler writes every event to the structured log. Failed compensations
// are logged at ERROR so they surface in alerting; everything else at INFO.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger.With("component", "event_log")}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *Event) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	level := slog.LevelInfo
	if event.Type == TypeCompensationFailed {
		level = slog.LevelError
	}

	log.Log(ctx, level, "event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("payload", string(event.Payload)))
	return nil
}
