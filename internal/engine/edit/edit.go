// Package edit implements the declarative edit engine. An Edit describes a
// single document mutation; applying it mutates the document store and
// returns the exact inverse, computed from the state immediately before the
// mutation. Edits are the only path through which documents change.
package edit

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
)

// ErrInvalidTarget indicates an edit referencing a node that is not attached
// to, or not validly attachable within, the current document. The document is
// left unmodified.
var ErrInvalidTarget = errors.New("invalid edit target")

// Edit is a composable document mutation that can be applied and inverted.
type Edit interface {
	// Apply performs the edit against doc and returns its inverse.
	// On error the document is left unchanged.
	Apply(doc *dom.Document) (Edit, error)

	// Description returns a human-readable description of the edit.
	Description() string
}

// invalidTarget wraps a store-level failure as an ErrInvalidTarget.
func invalidTarget(op string, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrInvalidTarget, cause)
}

// Insert attaches Node as a child of Parent, immediately before Reference.
// A nil Reference places the node at the end. The node must be detached.
type Insert struct {
	Parent    *html.Node
	Node      *html.Node
	Reference *html.Node
}

// Apply attaches the node and returns a Remove of the same node.
func (e *Insert) Apply(doc *dom.Document) (Edit, error) {
	if err := doc.InsertBefore(e.Parent, e.Node, e.Reference); err != nil {
		return nil, invalidTarget("insert", err)
	}
	return &Remove{Node: e.Node}, nil
}

// Description returns a human-readable description.
func (e *Insert) Description() string {
	if e.Node != nil && e.Node.Type == html.ElementNode {
		return fmt.Sprintf("Insert <%s>", e.Node.Data)
	}
	return "Insert node"
}

// Remove detaches Node from its current parent. The node stays owned by the
// returned inverse until the corresponding history entry is discarded.
type Remove struct {
	Node *html.Node
}

// Apply detaches the node and returns an Insert capturing the node's parent
// and the sibling immediately following it at time of removal.
func (e *Remove) Apply(doc *dom.Document) (Edit, error) {
	if e.Node == nil {
		return nil, invalidTarget("remove", dom.ErrNotAttached)
	}
	parent := e.Node.Parent
	ref := e.Node.NextSibling
	if err := doc.Remove(e.Node); err != nil {
		return nil, invalidTarget("remove", err)
	}
	return &Insert{Parent: parent, Node: e.Node, Reference: ref}, nil
}

// Description returns a human-readable description.
func (e *Remove) Description() string {
	if e.Node != nil && e.Node.Type == html.ElementNode {
		return fmt.Sprintf("Remove <%s>", e.Node.Data)
	}
	return "Remove node"
}

// AttrUpdate names one attribute and its new value. A nil Value removes the
// attribute.
type AttrUpdate struct {
	Namespace string
	Key       string
	Value     *string
}

// SetAttributes sets or removes the named attributes on Element.
type SetAttributes struct {
	Element *html.Node
	Attrs   []AttrUpdate
}

// Apply updates the attributes and returns a SetAttributes restoring each
// prior value, including "was absent".
func (e *SetAttributes) Apply(doc *dom.Document) (Edit, error) {
	if err := validElement(doc, e.Element); err != nil {
		return nil, invalidTarget("set attributes", err)
	}

	// Capture prior values before any mutation.
	prior := make([]AttrUpdate, len(e.Attrs))
	for i, a := range e.Attrs {
		prior[i] = AttrUpdate{Namespace: a.Namespace, Key: a.Key}
		if v, ok := dom.Attr(e.Element, a.Namespace, a.Key); ok {
			val := v
			prior[i].Value = &val
		}
	}

	for _, a := range e.Attrs {
		var err error
		if a.Value == nil {
			err = dom.RemoveAttr(e.Element, a.Namespace, a.Key)
		} else {
			err = dom.SetAttr(e.Element, a.Namespace, a.Key, *a.Value)
		}
		if err != nil {
			return nil, invalidTarget("set attributes", err)
		}
	}

	return &SetAttributes{Element: e.Element, Attrs: prior}, nil
}

// Description returns a human-readable description.
func (e *SetAttributes) Description() string {
	if len(e.Attrs) == 1 {
		return fmt.Sprintf("Set attribute %q", e.Attrs[0].Key)
	}
	return fmt.Sprintf("Set %d attributes", len(e.Attrs))
}

// SetTextContent replaces Element's directly contained character data. A nil
// Text clears it.
type SetTextContent struct {
	Element *html.Node
	Text    *string

	// installed memoizes the text node this edit attaches, so replaying
	// the edit after an undo reuses the same node. Without stable node
	// identity a recorded inverse would reference a node that no longer
	// exists in the tree.
	installed *html.Node
}

// Apply replaces the text payload. The inverse removes the installed node
// and re-attaches the exact text nodes detached here, at their original
// positions: those nodes stay owned by the inverse, not just their string
// contents.
func (e *SetTextContent) Apply(doc *dom.Document) (Edit, error) {
	if err := validElement(doc, e.Element); err != nil {
		return nil, invalidTarget("set text", err)
	}

	if e.Text != nil && e.installed == nil {
		e.installed = dom.NewText(*e.Text)
	}

	inv := NewComposite()
	if e.installed != nil {
		inv.Add(&Remove{Node: e.installed})
	}

	// Detach the element's immediate text nodes, capturing each node and
	// the sibling that followed it. The inverse reinserts them newest
	// first, so every captured reference is attached again by the time an
	// insert needs it.
	var inserts []*Insert
	c := e.Element.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode {
			e.Element.RemoveChild(c)
			inserts = append(inserts, &Insert{Parent: e.Element, Node: c, Reference: next})
		}
		c = next
	}
	for i := len(inserts) - 1; i >= 0; i-- {
		inv.Add(inserts[i])
	}

	if e.installed != nil {
		e.Element.AppendChild(e.installed)
	}
	return inv, nil
}

// Description returns a human-readable description.
func (e *SetTextContent) Description() string {
	if e.Text == nil {
		return "Clear text"
	}
	return "Set text"
}

// Composite applies an ordered sequence of edits as one indivisible unit.
// Its inverse is the member inverses in reverse order, so undoing a composite
// exactly reverses its net effect.
type Composite struct {
	Edits []Edit
}

// NewComposite creates a composite edit.
func NewComposite(edits ...Edit) *Composite {
	return &Composite{Edits: edits}
}

// Apply runs all member edits in order. If any member fails, the members
// already applied are rolled back via their inverses and the document is
// left unchanged.
func (e *Composite) Apply(doc *dom.Document) (Edit, error) {
	inverses := make([]Edit, 0, len(e.Edits))
	for i, member := range e.Edits {
		inv, err := member.Apply(doc)
		if err != nil {
			for j := len(inverses) - 1; j >= 0; j-- {
				_, _ = inverses[j].Apply(doc)
			}
			return nil, fmt.Errorf("composite step %d: %w", i, err)
		}
		inverses = append(inverses, inv)
	}

	// Member inverses in reverse order.
	inverse := &Composite{Edits: make([]Edit, len(inverses))}
	for i, inv := range inverses {
		inverse.Edits[len(inverses)-1-i] = inv
	}
	return inverse, nil
}

// Description returns a human-readable description.
func (e *Composite) Description() string {
	if len(e.Edits) == 1 {
		return e.Edits[0].Description()
	}
	return fmt.Sprintf("%d edits", len(e.Edits))
}

// Add appends an edit to the composite.
func (e *Composite) Add(member Edit) {
	e.Edits = append(e.Edits, member)
}

// IsEmpty returns true if the composite has no member edits.
func (e *Composite) IsEmpty() bool {
	return len(e.Edits) == 0
}

// validElement checks that el is an element attached to doc.
func validElement(doc *dom.Document, el *html.Node) error {
	if el == nil || !doc.Contains(el) {
		return dom.ErrNotAttached
	}
	if el.Type != html.ElementNode {
		return dom.ErrNotElement
	}
	return nil
}
