package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a typed message crossing the core boundary.
// Events are immutable once created.
type Event[T any] struct {
	// Type is the hierarchical message topic.
	Type Topic

	// Payload contains the message-specific data.
	Payload T

	// Metadata contains standard message information.
	Metadata Metadata
}

// Metadata contains standard information attached to every message.
type Metadata struct {
	// ID is a unique identifier for this message instance.
	ID string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Source identifies the collaborator that published the message.
	Source string
}

// New creates a message with the given topic and payload.
func New[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the message's topic for type-erased handling.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// EventMetadata returns the message's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by messages that can provide their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// Envelope wraps any message for type-erased handling.
type Envelope struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// NewEnvelope creates an envelope from a typed message.
func NewEnvelope[T any](e Event[T]) Envelope {
	return Envelope{
		Topic:    e.Type,
		Payload:  e.Payload,
		Metadata: e.Metadata,
	}
}

// EventTopic returns the envelope's topic.
func (e Envelope) EventTopic() Topic {
	return e.Topic
}
