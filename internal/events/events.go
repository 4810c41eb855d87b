package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the gateway.
const (
	// TypeAccountCreated is emitted after a signup saga completes.
	TypeAccountCreated = "account.created"

	// TypeCompensationFailed is emitted when a signup rollback step fails
	// and an operator has to clean up by hand.
	TypeCompensationFailed = "signup.compensation_failed"
)

// Event is an operational event with a JSON payload.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// New creates an Event with the given type and payload.
func New(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AccountCreated is the payload of TypeAccountCreated.
type AccountCreated struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Role       string    `json:"role"`
	Approved   bool      `json:"approved"`
	// Variant is "full" when the gateway created the identity and
	// "profile" when the client had signed up with the provider first.
	Variant string `json:"variant"`
}

// CompensationFailed is the payload of TypeCompensationFailed.
type CompensationFailed struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Variant    string    `json:"variant"`
	// FailedStep is the forward step whose failure triggered the rollback.
	FailedStep string `json:"failed_step"`
	// Compensation names the completed step whose rollback failed.
	Compensation string `json:"compensation"`
	Error        string `json:"error"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
