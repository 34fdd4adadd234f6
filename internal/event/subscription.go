package event

import (
	"context"
	"sync/atomic"
)

// Handler processes a delivered message.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls the function.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Subscription represents one registered handler on the bus.
type Subscription interface {
	// ID is the subscription's unique identifier.
	ID() string

	// Pattern is the topic pattern the subscription listens on.
	Pattern() Topic

	// Cancel deactivates the subscription. A cancelled subscription
	// receives no further messages even before it is removed.
	Cancel()

	// Active reports whether the subscription still receives messages.
	Active() bool
}

// subscription is the default Subscription implementation.
type subscription struct {
	id        string
	pattern   Topic
	handler   Handler
	cancelled atomic.Bool
}

func newSubscription(id string, pattern Topic, handler Handler) *subscription {
	return &subscription{
		id:      id,
		pattern: pattern,
		handler: handler,
	}
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Pattern() Topic {
	return s.pattern
}

func (s *subscription) Cancel() {
	s.cancelled.Store(true)
}

func (s *subscription) Active() bool {
	return !s.cancelled.Load()
}
