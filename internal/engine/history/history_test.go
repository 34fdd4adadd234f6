package history

import (
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
	"github.com/dtowne/xylem/internal/engine/edit"
)

func str(s string) *string { return &s }

// Helper to create a test document with one chapter.
func newTestDoc(t *testing.T) (*dom.Document, *html.Node) {
	t.Helper()
	doc := dom.NewDocument("test.xml", "book")
	ch := dom.NewElement("chapter")
	if err := doc.InsertBefore(doc.Root(), ch, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return doc, ch
}

func serialize(t *testing.T, doc *dom.Document) string {
	t.Helper()
	s, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return s
}

func setTitle(ch *html.Node, title string) edit.Edit {
	return &edit.SetAttributes{Element: ch, Attrs: []edit.AttrUpdate{
		{Key: "title", Value: &title},
	}}
}

func TestApplyRecordsEntry(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	err := h.Apply(doc, setTitle(ch, "Loomings"), Options{Title: "Set title"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if h.Len() != 1 || h.Position() != 1 {
		t.Errorf("len=%d position=%d, want 1, 1", h.Len(), h.Position())
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Error("expected undo available, redo unavailable")
	}
}

func TestApplyFailureLeavesLogUnchanged(t *testing.T) {
	doc, _ := newTestDoc(t)
	h := New(0)
	before := serialize(t, doc)

	err := h.Apply(doc, &edit.Remove{Node: dom.NewElement("stray")}, Options{})
	if !errors.Is(err, edit.ErrInvalidTarget) {
		t.Fatalf("got %v, want ErrInvalidTarget", err)
	}
	if h.Len() != 0 || h.Position() != 0 {
		t.Error("failed apply must not record an entry")
	}
	if got := serialize(t, doc); got != before {
		t.Error("failed apply must not modify the document")
	}
}

func TestUndoRoundTrip(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)
	before := serialize(t, doc)

	sec := dom.NewElement("section")
	edits := []edit.Edit{
		setTitle(ch, "Loomings"),
		&edit.Insert{Parent: ch, Node: sec},
		&edit.SetTextContent{Element: sec, Text: str("Call me Ishmael.")},
		&edit.Remove{Node: sec},
	}
	for i, e := range edits {
		if err := h.Apply(doc, e, Options{}); err != nil {
			t.Fatalf("Apply %d failed: %v", i, err)
		}
	}

	for i := range edits {
		if err := h.Undo(doc); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after %d undos: %q, want %q", len(edits), got, before)
	}
	if err := h.Undo(doc); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo at boundary: got %v, want ErrNothingToUndo", err)
	}
}

func TestRedoIdempotence(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	if err := h.Apply(doc, setTitle(ch, "Loomings"), Options{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	after := serialize(t, doc)

	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := h.Redo(doc); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if got := serialize(t, doc); got != after {
		t.Errorf("after undo+redo: %q, want %q", got, after)
	}
	if err := h.Redo(doc); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("redo at boundary: got %v, want ErrNothingToRedo", err)
	}
}

func TestSquashMerge(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)
	before := serialize(t, doc)

	if err := h.Apply(doc, setTitle(ch, "Loom"), Options{Title: "typing"}); err != nil {
		t.Fatalf("Apply A failed: %v", err)
	}
	if err := h.Apply(doc, setTitle(ch, "Loomings"), Options{Squash: true}); err != nil {
		t.Fatalf("Apply B failed: %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("len = %d, want 1 after squash", h.Len())
	}
	if h.Position() != 1 {
		t.Errorf("position = %d, want 1 after squash", h.Position())
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "Loomings" {
		t.Errorf("title = %q, want %q", v, "Loomings")
	}

	// One undo reverses both edits.
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after single undo: %q, want %q", got, before)
	}

	// And redo replays both.
	if err := h.Redo(doc); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "Loomings" {
		t.Errorf("title after redo = %q, want %q", v, "Loomings")
	}
}

func TestSquashOnEmptyHistoryAppends(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	if err := h.Apply(doc, setTitle(ch, "Loomings"), Options{Squash: true}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if h.Len() != 1 || h.Position() != 1 {
		t.Errorf("len=%d position=%d, want 1, 1", h.Len(), h.Position())
	}
}

func TestDivergentTruncation(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	h.Apply(doc, setTitle(ch, "A"), Options{})
	h.Apply(doc, setTitle(ch, "B"), Options{})
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}

	// A fresh edit discards the redo branch.
	if err := h.Apply(doc, setTitle(ch, "C"), Options{}); err != nil {
		t.Fatalf("Apply C failed: %v", err)
	}
	if h.Len() != 2 || h.Position() != 2 {
		t.Errorf("len=%d position=%d, want 2, 2", h.Len(), h.Position())
	}
	if err := h.Redo(doc); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("redo after divergence: got %v, want ErrNothingToRedo", err)
	}
}

func TestEvictionAdjustsPosition(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(3)

	for _, v := range []string{"a", "b", "c", "d", "e"} {
		if err := h.Apply(doc, setTitle(ch, v), Options{}); err != nil {
			t.Fatalf("Apply %q failed: %v", v, err)
		}
	}
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
	if h.Position() != 3 {
		t.Errorf("position = %d, want 3", h.Position())
	}

	// Only the surviving entries can be undone.
	for i := 0; i < 3; i++ {
		if err := h.Undo(doc); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
	}
	if err := h.Undo(doc); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("got %v, want ErrNothingToUndo", err)
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "b" {
		t.Errorf("title after full undo = %q, want %q", v, "b")
	}
}

func TestSetMaxEntriesKeepsCursorConsistent(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	for _, v := range []string{"a", "b", "c", "d"} {
		if err := h.Apply(doc, setTitle(ch, v), Options{}); err != nil {
			t.Fatalf("Apply %q failed: %v", v, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := h.Undo(doc); err != nil {
			t.Fatalf("Undo %d failed: %v", i, err)
		}
	}
	// Cursor sits at 1: only "a" is applied, "b".."d" await redo.

	h.SetMaxEntries(2)

	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
	if h.Position() != 0 {
		t.Errorf("position = %d, want 0", h.Position())
	}

	// The applied entry "a" was evicted at the oldest end and "d" dropped
	// from the newest end; redo replays "b" next, not "c".
	if err := h.Redo(doc); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "b" {
		t.Errorf("title after redo = %q, want %q", v, "b")
	}
	if err := h.Redo(doc); err != nil {
		t.Fatalf("second Redo failed: %v", err)
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "c" {
		t.Errorf("title after second redo = %q, want %q", v, "c")
	}
	if h.CanRedo() {
		t.Error("redo branch should be exhausted")
	}

	// Undo bottoms out at "a": its entry was evicted, so its effect is
	// permanent.
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if v, _ := dom.Attr(ch, "", "title"); v != "a" {
		t.Errorf("title after full undo = %q, want %q", v, "a")
	}
	if h.CanUndo() {
		t.Error("undo should be exhausted")
	}
}

func TestInfosAndPeek(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	h.Apply(doc, setTitle(ch, "A"), Options{Title: "first"})
	h.Apply(doc, setTitle(ch, "B"), Options{})

	infos := h.Infos()
	if len(infos) != 2 {
		t.Fatalf("infos len = %d, want 2", len(infos))
	}
	if infos[0].Description != "first" {
		t.Errorf("info[0] = %q, want %q", infos[0].Description, "first")
	}
	if infos[1].Description != `Set attribute "title"` {
		t.Errorf("info[1] = %q", infos[1].Description)
	}

	if info, ok := h.PeekUndo(); !ok || info.Description != `Set attribute "title"` {
		t.Errorf("PeekUndo = %+v, %v", info, ok)
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo should be unavailable at end")
	}

	h.Undo(doc)
	if info, ok := h.PeekRedo(); !ok || info.Description != `Set attribute "title"` {
		t.Errorf("PeekRedo = %+v, %v", info, ok)
	}

	h.Clear()
	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty the log")
	}
}

func TestRemovedNodeRetainedByEntry(t *testing.T) {
	doc, ch := newTestDoc(t)
	h := New(0)

	// Removing a node keeps it owned by the entry's undo; a later undo
	// reattaches the very same node.
	if err := h.Apply(doc, &edit.Remove{Node: ch}, Options{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if ch.Parent != nil {
		t.Error("node should be detached")
	}
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if ch.Parent != doc.Root() {
		t.Error("undo should reattach the original node")
	}
}

func TestUndoRoundTripWithMixedTextContent(t *testing.T) {
	doc, ch := newTestDoc(t)
	sec := dom.NewElement("section")
	if err := doc.InsertBefore(ch, sec, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	before := serialize(t, doc)

	h := New(0)

	// Insert a text node before the section, then replace the chapter's
	// text payload: the replacement detaches that inserted node, and the
	// second undo removes it again, so the first entry's inverse must get
	// the identical node back in its original position.
	text := dom.NewText("a")
	if err := h.Apply(doc, &edit.Insert{Parent: ch, Node: text, Reference: sec}, Options{}); err != nil {
		t.Fatalf("Apply insert failed: %v", err)
	}
	if err := h.Apply(doc, &edit.SetTextContent{Element: ch, Text: str("x")}, Options{}); err != nil {
		t.Fatalf("Apply set text failed: %v", err)
	}

	if err := h.Undo(doc); err != nil {
		t.Fatalf("first Undo failed: %v", err)
	}
	if err := h.Undo(doc); err != nil {
		t.Fatalf("second Undo failed: %v", err)
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after full undo: %q, want %q", got, before)
	}
	if h.Position() != 0 {
		t.Errorf("position = %d, want 0", h.Position())
	}

	// The branch replays cleanly in both directions.
	if err := h.Redo(doc); err != nil {
		t.Fatalf("first Redo failed: %v", err)
	}
	if err := h.Redo(doc); err != nil {
		t.Fatalf("second Redo failed: %v", err)
	}
	if err := h.Undo(doc); err != nil {
		t.Fatalf("Undo after redo failed: %v", err)
	}
	if got, _ := dom.TextContent(ch); got != "a" {
		t.Errorf("text after undo = %q, want %q", got, "a")
	}
}
