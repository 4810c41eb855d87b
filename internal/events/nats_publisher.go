package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// msgPublisher is the part of *nats.Conn the publisher uses.
type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSPublisher forwards events to NATS on "<prefix>.<event type>".
// The event ID is sent in the Nats-Msg-Id header so a JetStream stream on
// the subject can drop duplicates.
type NATSPublisher struct {
	conn   msgPublisher
	prefix string
	logger *slog.Logger
}

var _ EventHandler = (*NATSPublisher)(nil)

// NewNATSPublisher creates a publisher on conn.
func NewNATSPublisher(conn msgPublisher, subjectPrefix string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: strings.TrimSuffix(subjectPrefix, "."),
		logger: logger.With("component", "nats_publisher"),
	}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// HandleEvent implements EventHandler.
func (p *NATSPublisher) HandleEvent(_ context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	msg := nats.NewMsg(p.Subject(event.Type))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, event.ID.String())
	msg.Header.Set("Content-Type", "application/json")

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", event.ID, msg.Subject, err)
	}

	p.logger.Debug("event published",
		"event_id", event.ID,
		"subject", msg.Subject)
	return nil
}

// Connect opens a NATS connection that reconnects indefinitely and logs
// connection state changes.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "nats")

	conn, err := nats.Connect(url,
		nats.Name("roguetwo-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrlRedacted())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return conn, nil
}
