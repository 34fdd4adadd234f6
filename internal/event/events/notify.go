package events

import "github.com/dtowne/xylem/internal/event"

// Notification topics published by the core after mutating calls.
const (
	// TopicDocumentChanged is published after an edit, undo, or redo
	// mutates a document.
	TopicDocumentChanged event.Topic = "document.changed"

	// TopicDocumentOpened is published after a document joins the
	// mapping.
	TopicDocumentOpened event.Topic = "document.opened"

	// TopicHistoryChanged is published when a document's history log or
	// cursor moves.
	TopicHistoryChanged event.Topic = "history.changed"

	// TopicWizardChanged is published when the visible wizard changes.
	TopicWizardChanged event.Topic = "wizard.changed"

	// TopicStateChanged carries the full refreshed state snapshot.
	TopicStateChanged event.Topic = "state.changed"
)

// DocumentChanged is the payload of TopicDocumentChanged.
type DocumentChanged struct {
	// DocName is the name of the mutated document.
	DocName string
}

// DocumentOpened is the payload of TopicDocumentOpened.
type DocumentOpened struct {
	// DocName is the name of the newly opened document.
	DocName string
}

// HistoryChanged is the payload of TopicHistoryChanged.
type HistoryChanged struct {
	// DocName is the document whose history moved.
	DocName string

	// Length is the number of history entries.
	Length int

	// Position is the history cursor.
	Position int
}

// WizardChanged is the payload of TopicWizardChanged.
type WizardChanged struct {
	// VisibleID is the ID of the visible request, empty when idle.
	VisibleID string

	// Description describes the visible request for display.
	Description string

	// Depth is the number of nested open requests.
	Depth int

	// Pending is the number of queued top-level requests.
	Pending int
}
