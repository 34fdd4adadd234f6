package history

import (
	"errors"
	"sync"

	"github.com/dtowne/xylem/internal/dom"
	"github.com/dtowne/xylem/internal/engine/edit"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is the append-only-with-truncation log of applied edits for one
// document. The cursor position is the single source of truth for the
// current document state: entries[0:position] is the path from empty to
// current, entries at or after position are reachable only by redo.
type History struct {
	mu sync.Mutex

	entries  []*LogEntry
	position int

	// Configuration
	maxEntries int
}

// Options configures a single Apply call.
type Options struct {
	// Title labels the resulting history entry.
	Title string

	// Squash merges the edit into the previous entry instead of appending
	// a new one.
	Squash bool
}

// New creates a new history log.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000 // Default
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Apply runs an edit against the document and records it. On failure the
// document and the log are both unchanged. Applying while the cursor sits
// before the end truncates the stale redo branch first.
func (h *History) Apply(doc *dom.Document, e edit.Edit, opts Options) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	inverse, err := e.Apply(doc)
	if err != nil {
		return err
	}

	// A fresh edit overwrites any divergent redo branch. This holds for the
	// squash path too: the merged entry describes a state the old branch can
	// no longer be replayed from.
	h.entries = h.entries[:h.position]

	entry := newEntry(e, inverse, opts.Title)
	if opts.Squash && h.position > 0 {
		h.entries[h.position-1] = merge(h.entries[h.position-1], entry)
		return nil
	}

	h.entries = append(h.entries, entry)
	h.position++

	// Enforce max entries by evicting at the oldest end.
	if len(h.entries) > h.maxEntries {
		excess := len(h.entries) - h.maxEntries
		h.entries = h.entries[excess:]
		h.position -= excess
	}

	return nil
}

// Undo reverses the edit before the cursor and moves the cursor back.
// The reversal goes through the same mutation path as a forward edit but is
// not re-recorded.
func (h *History) Undo(doc *dom.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.position == 0 {
		return ErrNothingToUndo
	}

	entry := h.entries[h.position-1]
	if _, err := entry.Undo.Apply(doc); err != nil {
		return err
	}
	h.position--
	return nil
}

// Redo replays the edit at the cursor and moves the cursor forward.
func (h *History) Redo(doc *dom.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.position == len(h.entries) {
		return ErrNothingToRedo
	}

	entry := h.entries[h.position]
	if _, err := entry.Redo.Apply(doc); err != nil {
		return err
	}
	h.position++
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position < len(h.entries)
}

// Len returns the number of entries in the log.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Position returns the cursor: the number of entries applied so far.
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.position = 0
}

// Infos returns read-only info for every entry, oldest first.
func (h *History) Infos() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]EntryInfo, len(h.entries))
	for i, entry := range h.entries {
		result[i] = entry.info()
	}
	return result
}

// PeekUndo returns info about the next undo step without performing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.position == 0 {
		return EntryInfo{}, false
	}
	return h.entries[h.position-1].info(), true
}

// PeekRedo returns info about the next redo step without performing it.
func (h *History) PeekRedo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.position == len(h.entries) {
		return EntryInfo{}, false
	}
	return h.entries[h.position].info(), true
}

// SetMaxEntries changes the maximum number of entries. If the log is larger,
// applied entries are evicted at the oldest end, then redo entries dropped
// from the newest end.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = 1000
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.entries) <= max {
		return
	}

	// Never evict past the cursor: entries above it are a redo branch
	// computed from a state the remaining log could no longer reach.
	evict := len(h.entries) - max
	if evict > h.position {
		evict = h.position
	}
	h.entries = h.entries[evict:]
	h.position -= evict

	if len(h.entries) > max {
		h.entries = h.entries[:max]
	}
}

// MaxEntries returns the maximum number of entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
