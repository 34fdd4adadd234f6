package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtowne/xylem/internal/event"
	"github.com/dtowne/xylem/internal/event/events"
)

// subscriptionManager owns the coordinator's request subscriptions and
// routes incoming payloads to App operations.
type subscriptionManager struct {
	mu            sync.Mutex
	subscriptions []event.Subscription
	app           *App
}

// newSubscriptionManager creates a subscription manager for the app.
func newSubscriptionManager(app *App) *subscriptionManager {
	return &subscriptionManager{
		subscriptions: make([]event.Subscription, 0),
		app:           app,
	}
}

// setup registers one subscription per request topic.
func (sm *subscriptionManager) setup() error {
	app := sm.app

	if err := subscribe(sm, events.TopicEditRequested, func(p events.EditRequested) error {
		return app.ApplyEdit(p.Edit, p.Title, p.Squash)
	}); err != nil {
		return err
	}

	if err := subscribe(sm, events.TopicUndoRequested, func(events.UndoRequested) error {
		return app.Undo()
	}); err != nil {
		return err
	}

	if err := subscribe(sm, events.TopicRedoRequested, func(events.RedoRequested) error {
		return app.Redo()
	}); err != nil {
		return err
	}

	if err := subscribe(sm, events.TopicOpenDocumentRequested, func(p events.OpenDocumentRequested) error {
		return app.OpenDocument(p.Doc)
	}); err != nil {
		return err
	}

	if err := subscribe(sm, events.TopicCreateWizardRequested, func(p events.CreateWizardRequested) error {
		_, err := app.RequestCreateWizard(p.Parent, p.TagName, p.SubWizard)
		return err
	}); err != nil {
		return err
	}

	if err := subscribe(sm, events.TopicEditWizardRequested, func(p events.EditWizardRequested) error {
		_, err := app.RequestEditWizard(p.Element, p.SubWizard)
		return err
	}); err != nil {
		return err
	}

	return subscribe(sm, events.TopicCloseWizardRequested, func(p events.CloseWizardRequested) error {
		return app.CloseWizard(p.RequestID)
	})
}

// teardown cancels all subscriptions.
func (sm *subscriptionManager) teardown() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sub := range sm.subscriptions {
		sub.Cancel()
	}
	sm.subscriptions = sm.subscriptions[:0]
}

// subscribe registers a typed handler for one request topic. Messages on
// the topic that do not carry the expected payload type are rejected.
func subscribe[T any](sm *subscriptionManager, pattern event.Topic, fn func(T) error) error {
	sub, err := sm.app.bus.SubscribeFunc(pattern, func(_ context.Context, e any) error {
		payload, ok := payloadOf[T](e)
		if !ok {
			return fmt.Errorf("topic %s: %w", pattern, ErrInvalidRequest)
		}
		return fn(payload)
	})
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.subscriptions = append(sm.subscriptions, sub)
	return nil
}

// payloadOf extracts a typed payload from a published message.
func payloadOf[T any](e any) (T, bool) {
	switch v := e.(type) {
	case event.Event[T]:
		return v.Payload, true
	case event.Envelope:
		payload, ok := v.Payload.(T)
		return payload, ok
	}
	var zero T
	return zero, false
}
