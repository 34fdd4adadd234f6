package history

import (
	"time"

	"github.com/dtowne/xylem/internal/engine/edit"
)

// LogEntry is one history step: a forward edit paired with its computed
// inverse. Entries are immutable after creation; a squash-merge replaces the
// previous entry with a new merged one rather than mutating it.
type LogEntry struct {
	// Redo replays the edit going forward.
	Redo edit.Edit

	// Undo exactly reverses the edit. It owns any nodes the forward edit
	// detached, keeping them alive until the entry is discarded.
	Undo edit.Edit

	// Title is an optional caller-supplied label for undo menus.
	Title string

	// Timestamp is when the edit was applied.
	Timestamp time.Time
}

// newEntry creates a log entry for an applied edit and its inverse.
func newEntry(redo, undo edit.Edit, title string) *LogEntry {
	return &LogEntry{
		Redo:      redo,
		Undo:      undo,
		Title:     title,
		Timestamp: time.Now(),
	}
}

// merge combines a previous entry with a newer one into a single step.
// The merged redo replays both forward edits in order; the merged undo
// reverses them in reverse order.
func merge(prev, next *LogEntry) *LogEntry {
	title := next.Title
	if title == "" {
		title = prev.Title
	}
	return &LogEntry{
		Redo:      edit.NewComposite(prev.Redo, next.Redo),
		Undo:      edit.NewComposite(next.Undo, prev.Undo),
		Title:     title,
		Timestamp: next.Timestamp,
	}
}

// Description returns the entry's title, falling back to the forward edit's
// own description.
func (e *LogEntry) Description() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Redo.Description()
}

// EntryInfo provides read-only info about a history step. Used for
// displaying undo/redo history to users.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

// info builds the read-only view of an entry.
func (e *LogEntry) info() EntryInfo {
	return EntryInfo{
		Description: e.Description(),
		Timestamp:   e.Timestamp,
	}
}
