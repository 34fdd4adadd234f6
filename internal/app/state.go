package app

import (
	"sync"

	"github.com/dtowne/xylem/internal/engine/history"
	"github.com/dtowne/xylem/internal/event/events"
)

// State is a read-only snapshot of the coordinator. Snapshots are built on
// demand and never mutated afterwards.
type State struct {
	// DocumentNames lists open documents in open order.
	DocumentNames []string

	// ActiveDocument is the name of the active document, empty when none.
	ActiveDocument string

	// History describes the active document's history entries in log
	// order. Nil when no document is active.
	History []history.EntryInfo

	// HistoryPosition is the active document's history cursor.
	HistoryPosition int

	// CanUndo reports whether the active document has an edit to undo.
	CanUndo bool

	// CanRedo reports whether the active document has an edit to redo.
	CanRedo bool

	// Wizard describes the wizard scheduler.
	Wizard WizardView

	// Plugins lists the registered plugin descriptors.
	Plugins []PluginDescriptor

	// Extensions lists the host extension identifiers.
	Extensions []string

	// Locale is the host locale identifier.
	Locale string
}

// WizardView describes the wizard scheduler for display.
type WizardView struct {
	// VisibleID is the ID of the visible request, empty when idle.
	VisibleID string

	// Description describes the visible request.
	Description string

	// Depth is the number of nested open requests.
	Depth int

	// Pending is the number of queued top-level requests.
	Pending int
}

// StateListener is called with a fresh snapshot after every mutating
// operation. Listeners run synchronously in the operation's goroutine.
type StateListener func(State)

type stateListeners struct {
	mu  sync.RWMutex
	fns []StateListener
}

func newStateListeners() *stateListeners {
	return &stateListeners{}
}

func (sl *stateListeners) add(fn StateListener) {
	if fn == nil {
		return
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.fns = append(sl.fns, fn)
}

func (sl *stateListeners) all() []StateListener {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	fns := make([]StateListener, len(sl.fns))
	copy(fns, sl.fns)
	return fns
}

// AddStateListener registers a listener for state snapshots.
func (app *App) AddStateListener(fn StateListener) {
	app.listeners.add(fn)
}

// State builds a snapshot of the coordinator.
func (app *App) State() State {
	s := State{
		DocumentNames: app.documents.Names(),
		Wizard:        app.wizardView(),
		Plugins:       app.plugins.All(),
		Extensions:    append([]string(nil), app.opts.Extensions...),
		Locale:        app.opts.Locale,
	}

	if doc := app.documents.Active(); doc != nil {
		s.ActiveDocument = doc.Name()
		s.History = doc.History.Infos()
		s.HistoryPosition = doc.History.Position()
		s.CanUndo = doc.History.CanUndo()
		s.CanRedo = doc.History.CanRedo()
	}

	return s
}

// wizardView builds the wizard portion of a snapshot.
func (app *App) wizardView() WizardView {
	view := WizardView{
		Depth:   app.wizards.Depth(),
		Pending: app.wizards.PendingCount(),
	}
	if visible, ok := app.wizards.Visible(); ok {
		view.VisibleID = visible.ID()
		view.Description = visible.Description()
	}
	return view
}

// refreshState publishes a fresh snapshot and invokes the registered
// listeners with it.
func (app *App) refreshState() {
	s := app.State()
	notify(app, events.TopicStateChanged, s)
	for _, fn := range app.listeners.all() {
		fn(s)
	}
}
