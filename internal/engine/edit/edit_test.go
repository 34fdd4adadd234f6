package edit

import (
	"errors"
	"testing"

	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
)

func str(s string) *string { return &s }

// Helper to build a document with two chapters under the root.
func newTestDoc(t *testing.T) (*dom.Document, *html.Node, *html.Node) {
	t.Helper()
	doc := dom.NewDocument("test.xml", "book")
	ch1 := dom.NewElement("chapter")
	ch2 := dom.NewElement("chapter")
	dom.SetAttr(ch1, "", "id", "ch1")
	dom.SetAttr(ch2, "", "id", "ch2")
	if err := doc.InsertBefore(doc.Root(), ch1, nil); err != nil {
		t.Fatalf("setup insert ch1: %v", err)
	}
	if err := doc.InsertBefore(doc.Root(), ch2, nil); err != nil {
		t.Fatalf("setup insert ch2: %v", err)
	}
	return doc, ch1, ch2
}

// serialize fails the test on render errors.
func serialize(t *testing.T, doc *dom.Document) string {
	t.Helper()
	s, err := doc.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return s
}

func TestInsertApplyAndInverse(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)
	before := serialize(t, doc)

	sec := dom.NewElement("section")
	ins := &Insert{Parent: ch1, Node: sec}
	inv, err := ins.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if sec.Parent != ch1 {
		t.Error("section not attached under ch1")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after inverse: %q, want %q", got, before)
	}
}

func TestInsertBeforeReferenceSibling(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	intro := dom.NewElement("intro")
	ins := &Insert{Parent: doc.Root(), Node: intro, Reference: ch1}
	if _, err := ins.Apply(doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if doc.Root().FirstChild != intro || intro.NextSibling != ch1 {
		t.Error("intro not placed immediately before ch1")
	}
}

func TestInsertRejectsAttachedNode(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)
	before := serialize(t, doc)

	ins := &Insert{Parent: doc.Root(), Node: ch1}
	if _, err := ins.Apply(doc); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("got %v, want ErrInvalidTarget", err)
	}
	if got := serialize(t, doc); got != before {
		t.Error("document changed on failed insert")
	}
}

func TestRemoveInverseRestoresPosition(t *testing.T) {
	doc, ch1, ch2 := newTestDoc(t)
	before := serialize(t, doc)

	rm := &Remove{Node: ch1}
	inv, err := rm.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if ch1.Parent != nil {
		t.Error("ch1 still attached after remove")
	}

	// The inverse must re-insert ch1 immediately before ch2.
	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if ch1.NextSibling != ch2 {
		t.Error("ch1 not restored before ch2")
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after inverse: %q, want %q", got, before)
	}
}

func TestRemoveDetachedFails(t *testing.T) {
	doc, _, _ := newTestDoc(t)

	rm := &Remove{Node: dom.NewElement("stray")}
	if _, err := rm.Apply(doc); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("got %v, want ErrInvalidTarget", err)
	}
}

func TestSetAttributesInverseCapturesAbsent(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)
	before := serialize(t, doc)

	set := &SetAttributes{Element: ch1, Attrs: []AttrUpdate{
		{Key: "id", Value: str("intro")},     // replaces "ch1"
		{Key: "status", Value: str("draft")}, // was absent
	}}
	inv, err := set.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v, _ := dom.Attr(ch1, "", "id"); v != "intro" {
		t.Errorf("id = %q, want %q", v, "intro")
	}
	if v, _ := dom.Attr(ch1, "", "status"); v != "draft" {
		t.Errorf("status = %q, want %q", v, "draft")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if v, _ := dom.Attr(ch1, "", "id"); v != "ch1" {
		t.Errorf("id after inverse = %q, want %q", v, "ch1")
	}
	if _, ok := dom.Attr(ch1, "", "status"); ok {
		t.Error("status should be absent after inverse")
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after inverse: %q, want %q", got, before)
	}
}

func TestSetAttributesRemoval(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	set := &SetAttributes{Element: ch1, Attrs: []AttrUpdate{{Key: "id"}}}
	inv, err := set.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, ok := dom.Attr(ch1, "", "id"); ok {
		t.Error("id should be removed")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if v, _ := dom.Attr(ch1, "", "id"); v != "ch1" {
		t.Errorf("id after inverse = %q, want %q", v, "ch1")
	}
}

func TestSetTextContentInverse(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	first := &SetTextContent{Element: ch1, Text: str("Loomings")}
	if _, err := first.Apply(doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	second := &SetTextContent{Element: ch1, Text: str("The Carpet-Bag")}
	inv, err := second.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got, _ := dom.TextContent(ch1); got != "The Carpet-Bag" {
		t.Errorf("text = %q", got)
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if got, _ := dom.TextContent(ch1); got != "Loomings" {
		t.Errorf("text after inverse = %q, want %q", got, "Loomings")
	}
}

func TestSetTextContentClearInverse(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	set := &SetTextContent{Element: ch1, Text: str("Loomings")}
	set.Apply(doc)

	clearText := &SetTextContent{Element: ch1} // nil Text clears
	inv, err := clearText.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, ok := dom.TextContent(ch1); ok {
		t.Error("text should be cleared")
	}

	inv.Apply(doc)
	if got, _ := dom.TextContent(ch1); got != "Loomings" {
		t.Errorf("text after inverse = %q", got)
	}
}

func TestSetTextContentInverseRestoresOriginalNodes(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	sec := dom.NewElement("section")
	if err := doc.InsertBefore(ch1, sec, nil); err != nil {
		t.Fatalf("setup insert section: %v", err)
	}
	leading := dom.NewText("a")
	if err := doc.InsertBefore(ch1, leading, sec); err != nil {
		t.Fatalf("setup insert text: %v", err)
	}

	set := &SetTextContent{Element: ch1, Text: str("x")}
	inv, err := set.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if leading.Parent != nil {
		t.Fatal("original text node should be detached after apply")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	// The same node comes back, in its original position before the
	// section, so edits recorded against it stay valid.
	if ch1.FirstChild != leading || leading.NextSibling != sec {
		t.Error("inverse should re-attach the original text node before the section")
	}
}

func TestSetTextContentReplayKeepsNodeIdentity(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)

	set := &SetTextContent{Element: ch1, Text: str("x")}
	inv, err := set.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	installed := ch1.FirstChild
	if installed == nil || installed.Type != html.TextNode {
		t.Fatal("expected installed text node")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}

	// Re-applying, as redo does, must attach the same node so the
	// recorded inverse still references a live target.
	if _, err := set.Apply(doc); err != nil {
		t.Fatalf("re-Apply failed: %v", err)
	}
	if ch1.FirstChild != installed {
		t.Error("replay should reuse the installed text node")
	}
	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply after replay failed: %v", err)
	}
}

func TestCompositeInverseReversesNetEffect(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)
	before := serialize(t, doc)

	sec := dom.NewElement("section")
	comp := NewComposite(
		&Insert{Parent: ch1, Node: sec},
		&SetAttributes{Element: sec, Attrs: []AttrUpdate{{Key: "n", Value: str("1")}}},
		&SetTextContent{Element: sec, Text: str("Call me Ishmael.")},
	)
	inv, err := comp.Apply(doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if sec.Parent != ch1 {
		t.Error("section not attached")
	}

	if _, err := inv.Apply(doc); err != nil {
		t.Fatalf("inverse Apply failed: %v", err)
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("after inverse: %q, want %q", got, before)
	}
}

func TestCompositeAtomicity(t *testing.T) {
	doc, ch1, _ := newTestDoc(t)
	before := serialize(t, doc)

	// Second member targets a detached element and must fail; the first
	// member's effect has to be rolled back.
	comp := NewComposite(
		&SetAttributes{Element: ch1, Attrs: []AttrUpdate{{Key: "id", Value: str("changed")}}},
		&Remove{Node: dom.NewElement("stray")},
	)
	if _, err := comp.Apply(doc); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("got %v, want ErrInvalidTarget", err)
	}
	if got := serialize(t, doc); got != before {
		t.Errorf("document changed after failed composite: %q, want %q", got, before)
	}
}

func TestDescriptions(t *testing.T) {
	sec := dom.NewElement("section")
	tests := []struct {
		name string
		e    Edit
		want string
	}{
		{"insert", &Insert{Node: sec}, "Insert <section>"},
		{"remove", &Remove{Node: sec}, "Remove <section>"},
		{"one attr", &SetAttributes{Attrs: []AttrUpdate{{Key: "id"}}}, `Set attribute "id"`},
		{"many attrs", &SetAttributes{Attrs: []AttrUpdate{{Key: "a"}, {Key: "b"}}}, "Set 2 attributes"},
		{"clear text", &SetTextContent{}, "Clear text"},
		{"composite", NewComposite(&Remove{Node: sec}, &Remove{Node: sec}), "2 edits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}
}
