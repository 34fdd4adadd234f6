package app

import (
	"context"

	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
	"github.com/dtowne/xylem/internal/engine/edit"
	"github.com/dtowne/xylem/internal/engine/history"
	"github.com/dtowne/xylem/internal/event"
	"github.com/dtowne/xylem/internal/event/events"
	"github.com/dtowne/xylem/internal/wizard"
)

// eventSource identifies the coordinator on messages it publishes.
const eventSource = "core"

// defaultMaxHistory bounds each document's history log unless overridden.
const defaultMaxHistory = 1000

// App is the central coordinator. It owns the document mapping, routes
// declarative edits through each document's history, schedules wizard
// requests, and pushes notifications through the message bus.
type App struct {
	bus       event.Bus
	documents *DocumentManager
	wizards   *wizard.Coordinator
	plugins   *PluginRegistry
	subs      *subscriptionManager
	listeners *stateListeners
	logger    *Logger
	opts      Options
}

// Options configures the coordinator.
type Options struct {
	// Extensions lists the host extension identifiers active for this
	// session. Carried in state snapshots only.
	Extensions []string

	// Locale is the host locale identifier. Carried in state snapshots
	// only.
	Locale string

	// MaxHistoryEntries bounds each document's history log.
	// Zero selects the default.
	MaxHistoryEntries int

	// LogLevel sets the logging verbosity ("debug", "info", "warn",
	// "error"). Ignored when Logger is set.
	LogLevel string

	// Logger overrides the default logger.
	Logger *Logger
}

// New creates a coordinator and wires its request subscriptions.
func New(opts Options) (*App, error) {
	if opts.MaxHistoryEntries <= 0 {
		opts.MaxHistoryEntries = defaultMaxHistory
	}

	logger := opts.Logger
	if logger == nil {
		cfg := DefaultLoggerConfig()
		if opts.LogLevel != "" {
			cfg.Level = ParseLogLevel(opts.LogLevel)
		}
		logger = NewLogger(cfg)
	}

	app := &App{
		bus:       event.NewBus(),
		documents: NewDocumentManager(opts.MaxHistoryEntries),
		plugins:   NewPluginRegistry(),
		listeners: newStateListeners(),
		logger:    logger,
		opts:      opts,
	}

	// A pending wizard request goes stale when its target leaves every
	// open document before the request is promoted.
	app.wizards = wizard.New(wizard.WithStaleCheck(func(r wizard.Request) bool {
		return !app.documents.ContainsNode(r.Target())
	}))

	app.subs = newSubscriptionManager(app)
	if err := app.subs.setup(); err != nil {
		return nil, NewOperationError("bootstrap", "subscriptions", err)
	}

	return app, nil
}

// Bus returns the coordinator's message bus. Collaborators publish
// requests and subscribe to notifications through it.
func (app *App) Bus() event.Bus {
	return app.bus
}

// Documents returns the document manager.
func (app *App) Documents() *DocumentManager {
	return app.documents
}

// Wizards returns the wizard coordinator.
func (app *App) Wizards() *wizard.Coordinator {
	return app.wizards
}

// Plugins returns the plugin descriptor registry.
func (app *App) Plugins() *PluginRegistry {
	return app.plugins
}

// Close cancels the coordinator's request subscriptions.
func (app *App) Close() {
	app.subs.teardown()
}

// OpenDocument adds a tree to the document mapping and makes it active.
func (app *App) OpenDocument(tree *dom.Document) error {
	if tree == nil {
		return NewOperationError("open document", "", ErrInvalidRequest)
	}

	doc, err := app.documents.Open(tree)
	if err != nil {
		return err
	}

	app.logger.WithComponent("documents").Info("opened document %q", doc.Name())
	notify(app, events.TopicDocumentOpened, events.DocumentOpened{DocName: doc.Name()})
	app.refreshState()
	return nil
}

// CloseDocument removes a document from the mapping.
func (app *App) CloseDocument(name string) error {
	if err := app.documents.Close(name); err != nil {
		return err
	}

	app.logger.WithComponent("documents").Info("closed document %q", name)
	app.refreshState()
	return nil
}

// SetActiveDocument makes the named document active.
func (app *App) SetActiveDocument(name string) error {
	if err := app.documents.SetActiveByName(name); err != nil {
		return err
	}
	app.refreshState()
	return nil
}

// ApplyEdit applies a declarative edit to the active document and records
// it in the document's history. A failed edit leaves both the tree and the
// history untouched.
func (app *App) ApplyEdit(e edit.Edit, title string, squash bool) error {
	if e == nil {
		return NewOperationError("apply edit", "", ErrInvalidRequest)
	}

	doc := app.documents.Active()
	if doc == nil {
		return NewOperationError("apply edit", "", ErrNoActiveDocument)
	}

	opts := history.Options{Title: title, Squash: squash}
	if err := doc.History.Apply(doc.Tree, e, opts); err != nil {
		return NewOperationError("apply edit", doc.Name(), err)
	}

	app.logger.WithComponent("history").Debug("applied edit: %s", e.Description())
	app.notifyDocumentMutated(doc)
	app.refreshState()
	return nil
}

// Undo reverses the last recorded edit of the active document.
func (app *App) Undo() error {
	doc := app.documents.Active()
	if doc == nil {
		return NewOperationError("undo", "", ErrNoActiveDocument)
	}

	if err := doc.History.Undo(doc.Tree); err != nil {
		return NewOperationError("undo", doc.Name(), err)
	}

	app.notifyDocumentMutated(doc)
	app.refreshState()
	return nil
}

// Redo re-applies the next recorded edit of the active document.
func (app *App) Redo() error {
	doc := app.documents.Active()
	if doc == nil {
		return NewOperationError("redo", "", ErrNoActiveDocument)
	}

	if err := doc.History.Redo(doc.Tree); err != nil {
		return NewOperationError("redo", doc.Name(), err)
	}

	app.notifyDocumentMutated(doc)
	app.refreshState()
	return nil
}

// RequestCreateWizard submits a modal request for creating a new element
// under parent. It returns the request's ID.
func (app *App) RequestCreateWizard(parent *html.Node, tagName string, sub bool) (string, error) {
	req := wizard.NewCreateRequest(parent, tagName, sub)
	if err := app.wizards.Request(req); err != nil {
		return "", NewOperationError("request wizard", req.Description(), err)
	}

	app.logger.WithComponent("wizard").Debug("requested %s", req.Description())
	app.notifyWizardChanged()
	app.refreshState()
	return req.ID(), nil
}

// RequestEditWizard submits a modal request for editing an existing
// element. It returns the request's ID.
func (app *App) RequestEditWizard(element *html.Node, sub bool) (string, error) {
	req := wizard.NewEditRequest(element, sub)
	if err := app.wizards.Request(req); err != nil {
		return "", NewOperationError("request wizard", req.Description(), err)
	}

	app.logger.WithComponent("wizard").Debug("requested %s", req.Description())
	app.notifyWizardChanged()
	app.refreshState()
	return req.ID(), nil
}

// CloseWizard dismisses the visible wizard. A non-empty requestID must
// match the visible request; a mismatch means the caller's view is stale
// and the close is rejected.
func (app *App) CloseWizard(requestID string) error {
	if requestID != "" {
		visible, ok := app.wizards.Visible()
		if !ok || visible.ID() != requestID {
			return NewOperationError("close wizard", requestID, ErrStaleWizardClose)
		}
	}

	if err := app.wizards.Close(); err != nil {
		return NewOperationError("close wizard", requestID, err)
	}

	app.notifyWizardChanged()
	app.refreshState()
	return nil
}

// notifyDocumentMutated publishes the change notifications for a mutated
// document.
func (app *App) notifyDocumentMutated(doc *Document) {
	notify(app, events.TopicDocumentChanged, events.DocumentChanged{DocName: doc.Name()})
	notify(app, events.TopicHistoryChanged, events.HistoryChanged{
		DocName:  doc.Name(),
		Length:   doc.History.Len(),
		Position: doc.History.Position(),
	})
}

// notifyWizardChanged publishes the current wizard view.
func (app *App) notifyWizardChanged() {
	view := app.wizardView()
	notify(app, events.TopicWizardChanged, events.WizardChanged{
		VisibleID:   view.VisibleID,
		Description: view.Description,
		Depth:       view.Depth,
		Pending:     view.Pending,
	})
}

// notify publishes a notification. Handler failures are logged, never
// propagated: notifications must not fail the operation that caused them.
func notify[T any](app *App, topic event.Topic, payload T) {
	ev := event.New(topic, payload, eventSource)
	if err := app.bus.Publish(context.Background(), ev); err != nil {
		app.logger.WithComponent("bus").Warn("notification %s: %v", topic, err)
	}
}
