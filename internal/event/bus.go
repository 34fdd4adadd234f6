package event

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus is the synchronous message bus at the core boundary.
type Bus interface {
	// Publish delivers a message to every matching subscription, in
	// subscription order, in the caller's goroutine. It returns the
	// combined error of all failing handlers; a panicking handler
	// contributes a PanicError instead of crashing the host.
	Publish(ctx context.Context, event any) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(pattern Topic, handler Handler) (Subscription, error)

	// SubscribeFunc registers a function handler for a topic pattern.
	SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Stats returns delivery statistics.
	Stats() Stats
}

// Stats contains bus delivery statistics.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// bus is the default Bus implementation.
type bus struct {
	mu   sync.Mutex
	subs []*subscription // delivery order = subscription order

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a synchronous message bus.
func NewBus() Bus {
	return &bus{}
}

// Subscribe registers a handler for a topic pattern.
func (b *bus) Subscribe(pattern Topic, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), pattern, handler)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc registers a function handler for a topic pattern.
func (b *bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error) {
	return b.Subscribe(pattern, fn)
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == sub.ID() {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers a message synchronously.
func (b *bus) Publish(ctx context.Context, event any) error {
	eventTopic := extractTopic(event)
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.mu.Lock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.Active() && eventTopic.Matches(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.Unlock()

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range matched {
		if !sub.Active() {
			continue
		}
		if err := b.deliver(ctx, eventTopic, event, sub); err != nil {
			errs = append(errs, err)
		} else {
			b.eventsDelivered.Add(1)
		}
	}
	return errors.Join(errs...)
}

// deliver runs one handler under panic recovery.
func (b *bus) deliver(ctx context.Context, eventTopic Topic, event any, sub *subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = &PanicError{
				SubscriptionID: sub.id,
				Topic:          eventTopic,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{
			SubscriptionID: sub.id,
			Topic:          eventTopic,
			Err:            herr,
		}
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	b.mu.Lock()
	active := 0
	for _, s := range b.subs {
		if s.Active() {
			active++
		}
	}
	b.mu.Unlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}

// extractTopic extracts the topic from a message.
func extractTopic(event any) Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	return ""
}
