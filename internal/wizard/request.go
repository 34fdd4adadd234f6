// Package wizard implements the modal request scheduler. Plugins ask for a
// modal editing dialog by submitting a request; the coordinator serializes
// them so exactly one request is visible at a time. Independent top-level
// requests are served in arrival order (FIFO); a request opened as a child
// of the visible dialog pre-empts the queue and nests LIFO above its parent.
package wizard

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Request is a single modal dialog request.
type Request interface {
	// ID is the unique identifier assigned at creation.
	ID() string

	// Sub reports whether the request was opened as a child of the
	// currently visible dialog.
	Sub() bool

	// Target is the document node the dialog acts on: the element being
	// edited, or the parent a new element is created under.
	Target() *html.Node

	// Description returns a human-readable description of the request.
	Description() string
}

// EditRequest asks for a dialog editing an existing element.
type EditRequest struct {
	id        string
	Element   *html.Node
	SubWizard bool
}

// NewEditRequest creates an edit-wizard request for an element.
func NewEditRequest(element *html.Node, sub bool) *EditRequest {
	return &EditRequest{
		id:        uuid.NewString(),
		Element:   element,
		SubWizard: sub,
	}
}

// ID returns the request's unique identifier.
func (r *EditRequest) ID() string { return r.id }

// Sub reports whether this is a sub-wizard request.
func (r *EditRequest) Sub() bool { return r.SubWizard }

// Target returns the element being edited.
func (r *EditRequest) Target() *html.Node { return r.Element }

// Description returns a human-readable description.
func (r *EditRequest) Description() string {
	if r.Element != nil {
		return fmt.Sprintf("Edit <%s>", r.Element.Data)
	}
	return "Edit element"
}

// CreateRequest asks for a dialog creating a new element under a parent.
type CreateRequest struct {
	id        string
	Parent    *html.Node
	TagName   string
	SubWizard bool
}

// NewCreateRequest creates a create-wizard request for a new element.
func NewCreateRequest(parent *html.Node, tagName string, sub bool) *CreateRequest {
	return &CreateRequest{
		id:        uuid.NewString(),
		Parent:    parent,
		TagName:   tagName,
		SubWizard: sub,
	}
}

// ID returns the request's unique identifier.
func (r *CreateRequest) ID() string { return r.id }

// Sub reports whether this is a sub-wizard request.
func (r *CreateRequest) Sub() bool { return r.SubWizard }

// Target returns the parent the new element is created under.
func (r *CreateRequest) Target() *html.Node { return r.Parent }

// Description returns a human-readable description.
func (r *CreateRequest) Description() string {
	return fmt.Sprintf("Create <%s>", r.TagName)
}
