package app

import (
	"sync"

	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
	"github.com/dtowne/xylem/internal/engine/history"
)

// Document pairs an element tree with its edit history.
type Document struct {
	// Tree is the element tree being edited.
	Tree *dom.Document

	// History is the undo/redo log for the tree.
	History *history.History
}

// NewDocument creates a document around an existing tree.
func NewDocument(tree *dom.Document, maxHistory int) *Document {
	return &Document{
		Tree:    tree,
		History: history.New(maxHistory),
	}
}

// Name returns the document's display name.
func (d *Document) Name() string {
	return d.Tree.Name()
}

// DocumentManager manages all open documents.
type DocumentManager struct {
	mu         sync.RWMutex
	documents  map[string]*Document // name -> document
	active     *Document
	order      []string // tracks open order for navigation
	maxHistory int
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager(maxHistory int) *DocumentManager {
	return &DocumentManager{
		documents:  make(map[string]*Document),
		order:      make([]string, 0),
		maxHistory: maxHistory,
	}
}

// Open registers a tree as an open document and makes it active.
// The name must not already be in use.
func (dm *DocumentManager) Open(tree *dom.Document) (*Document, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	name := tree.Name()
	if _, exists := dm.documents[name]; exists {
		return nil, NewOperationError("open document", name, ErrDocumentAlreadyOpen)
	}

	doc := NewDocument(tree, dm.maxHistory)
	dm.documents[name] = doc
	dm.order = append(dm.order, name)
	dm.active = doc

	return doc, nil
}

// Close removes a document by name.
func (dm *DocumentManager) Close(name string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.documents[name]
	if !exists {
		return NewOperationError("close document", name, ErrDocumentNotFound)
	}

	delete(dm.documents, name)

	for i, n := range dm.order {
		if n == name {
			dm.order = append(dm.order[:i], dm.order[i+1:]...)
			break
		}
	}

	if dm.active == doc {
		if len(dm.order) > 0 {
			dm.active = dm.documents[dm.order[len(dm.order)-1]]
		} else {
			dm.active = nil
		}
	}

	return nil
}

// Active returns the currently active document, or nil.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.active
}

// SetActiveByName sets the active document by name.
func (dm *DocumentManager) SetActiveByName(name string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.documents[name]
	if !exists {
		return NewOperationError("activate document", name, ErrDocumentNotFound)
	}
	dm.active = doc
	return nil
}

// Get returns a document by name.
func (dm *DocumentManager) Get(name string) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc, exists := dm.documents[name]
	return doc, exists
}

// All returns all open documents in open order.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*Document, 0, len(dm.documents))
	for _, name := range dm.order {
		if doc, exists := dm.documents[name]; exists {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Names returns the names of all open documents in open order.
func (dm *DocumentManager) Names() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	names := make([]string, len(dm.order))
	copy(names, dm.order)
	return names
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

// ContainsNode reports whether any open document's tree contains n.
func (dm *DocumentManager) ContainsNode(n *html.Node) bool {
	if n == nil {
		return false
	}

	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, doc := range dm.documents {
		if doc.Tree.Contains(n) {
			return true
		}
	}
	return false
}
