// Package dom provides the mutable XML document store. It owns the node
// trees the edit engine mutates and exposes the read/mutate primitives the
// engine is built on. No other package mutates nodes directly.
package dom

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// Common errors for document store operations.
var (
	// ErrNotAttached indicates a node that is not part of the document tree.
	ErrNotAttached = errors.New("node is not attached to the document")

	// ErrAlreadyAttached indicates a node that already belongs to a tree.
	ErrAlreadyAttached = errors.New("node is already attached to a tree")

	// ErrNotElement indicates a node that is not an element.
	ErrNotElement = errors.New("node is not an element")

	// ErrBadReference indicates a reference sibling outside the parent.
	ErrBadReference = errors.New("reference node is not a child of parent")

	// ErrRootRemoval indicates an attempt to detach the document root.
	ErrRootRemoval = errors.New("document root cannot be removed")

	// ErrCycle indicates an insert that would make a node its own ancestor.
	ErrCycle = errors.New("node would become its own ancestor")
)

// Document owns a single mutable XML tree.
type Document struct {
	name string
	root *html.Node
}

// NewDocument creates a document with a fresh root element.
func NewDocument(name, rootTag string) *Document {
	return &Document{
		name: name,
		root: NewElement(rootTag),
	}
}

// NewDocumentWithRoot creates a document around an existing detached element.
func NewDocumentWithRoot(name string, root *html.Node) (*Document, error) {
	if root == nil || root.Type != html.ElementNode {
		return nil, ErrNotElement
	}
	if !Detached(root) {
		return nil, ErrAlreadyAttached
	}
	return &Document{name: name, root: root}, nil
}

// Name returns the document's display name.
func (d *Document) Name() string {
	return d.name
}

// Root returns the document's root element.
func (d *Document) Root() *html.Node {
	return d.root
}

// NewElement creates a detached element node.
func NewElement(tag string) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: tag,
	}
}

// NewElementNS creates a detached element node in a namespace.
func NewElementNS(namespace, tag string) *html.Node {
	return &html.Node{
		Type:      html.ElementNode,
		Namespace: namespace,
		Data:      tag,
	}
}

// NewText creates a detached text node.
func NewText(data string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: data,
	}
}

// Detached reports whether a node has no parent and no siblings.
// Only detached nodes may be inserted.
func Detached(n *html.Node) bool {
	return n.Parent == nil && n.PrevSibling == nil && n.NextSibling == nil
}

// Contains reports whether n is the root or a descendant of the root.
func (d *Document) Contains(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// InsertBefore attaches node as a child of parent, immediately before ref.
// A nil ref appends node as the last child. The parent must belong to the
// document and the node must be detached; the tree is untouched on error.
func (d *Document) InsertBefore(parent, node, ref *html.Node) error {
	if parent == nil || !d.Contains(parent) {
		return ErrNotAttached
	}
	if node == nil || !Detached(node) {
		return ErrAlreadyAttached
	}
	// The root has no parent and no siblings, so the Detached check alone
	// would let it be inserted under its own descendant, closing a cycle.
	for anc := parent; anc != nil; anc = anc.Parent {
		if anc == node {
			return ErrCycle
		}
	}
	if ref != nil && ref.Parent != parent {
		return ErrBadReference
	}
	parent.InsertBefore(node, ref)
	return nil
}

// Remove detaches node from its parent. The node stays alive and keeps its
// own subtree; callers own it afterwards.
func (d *Document) Remove(node *html.Node) error {
	if node == d.root {
		return ErrRootRemoval
	}
	if node == nil || node.Parent == nil || !d.Contains(node) {
		return ErrNotAttached
	}
	node.Parent.RemoveChild(node)
	return nil
}

// Attr returns the value of a (optionally namespaced) attribute.
func Attr(el *html.Node, namespace, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Namespace == namespace && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute on an element.
func SetAttr(el *html.Node, namespace, key, val string) error {
	if el.Type != html.ElementNode {
		return ErrNotElement
	}
	for i, a := range el.Attr {
		if a.Namespace == namespace && a.Key == key {
			el.Attr[i].Val = val
			return nil
		}
	}
	el.Attr = append(el.Attr, html.Attribute{Namespace: namespace, Key: key, Val: val})
	return nil
}

// RemoveAttr removes an attribute from an element. Removing an absent
// attribute is a no-op.
func RemoveAttr(el *html.Node, namespace, key string) error {
	if el.Type != html.ElementNode {
		return ErrNotElement
	}
	for i, a := range el.Attr {
		if a.Namespace == namespace && a.Key == key {
			el.Attr = append(el.Attr[:i], el.Attr[i+1:]...)
			return nil
		}
	}
	return nil
}

// TextContent returns the element's directly contained character data: the
// concatenation of its immediate text-node children. The second return is
// false when the element has no text-node children at all.
func TextContent(el *html.Node) (string, bool) {
	var b strings.Builder
	found := false
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			found = true
		}
	}
	return b.String(), found
}

// SetTextContent replaces the element's directly contained character data.
// A nil text removes all immediate text-node children; element children are
// left in place. Non-nil text is installed as a single text node appended
// after any element children.
func SetTextContent(el *html.Node, text *string) error {
	if el.Type != html.ElementNode {
		return ErrNotElement
	}
	c := el.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode {
			el.RemoveChild(c)
		}
		c = next
	}
	if text != nil {
		el.AppendChild(NewText(*text))
	}
	return nil
}

// Serialize renders the document tree to its textual form. Used for state
// snapshots and round-trip comparison; full serialization concerns live
// outside the core.
func (d *Document) Serialize() (string, error) {
	return Render(d.root)
}

// Render renders a single node and its subtree.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
