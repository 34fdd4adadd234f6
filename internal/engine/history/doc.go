// Package history provides undo/redo for the document edit engine.
//
// The log is an ordered sequence of entries plus a cursor. Each entry pairs
// a forward edit with its exact inverse, computed at apply time. Key
// behaviors:
//
// # Cursor semantics
//
// The cursor position is the single source of truth for the current document
// state. Entries before the cursor form the path from empty to current;
// entries at or after it are reachable only by redo. Applying a fresh edit
// while the cursor sits before the end discards the stale redo branch.
//
// # Applying edits
//
//	h := history.New(1000) // Max 1000 entries
//
//	err := h.Apply(doc, e, history.Options{Title: "Insert chapter"})
//
//	h.Undo(doc)
//	h.Redo(doc)
//
// # Squashing
//
// Apply with Squash merges the edit into the previous entry instead of
// creating a new one: the merged redo replays both edits in order, the
// merged undo reverses them in reverse order. A single undo then reverses
// both effects in one step.
//
// # Eviction
//
// The log is bounded. When it grows past the configured maximum, entries
// are evicted from the oldest end and the cursor is adjusted; nodes owned
// only by evicted inverses become unreachable.
package history
