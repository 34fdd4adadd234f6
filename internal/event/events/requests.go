// Package events defines the closed set of typed messages crossing the core
// boundary: the request payloads collaborators send in, and the notification
// payloads the core pushes out after each mutating call.
package events

import (
	"golang.org/x/net/html"

	"github.com/dtowne/xylem/internal/dom"
	"github.com/dtowne/xylem/internal/engine/edit"
	"github.com/dtowne/xylem/internal/event"
)

// Request topics consumed by the core.
const (
	// TopicEditRequested asks the core to apply an edit to the active
	// document.
	TopicEditRequested event.Topic = "document.edit.requested"

	// TopicUndoRequested asks the core to undo the last history step of
	// the active document.
	TopicUndoRequested event.Topic = "document.undo.requested"

	// TopicRedoRequested asks the core to redo the next history step of
	// the active document.
	TopicRedoRequested event.Topic = "document.redo.requested"

	// TopicOpenDocumentRequested asks the core to add a document to the
	// document mapping and make it active.
	TopicOpenDocumentRequested event.Topic = "document.open.requested"

	// TopicCreateWizardRequested asks for a modal dialog creating a new
	// element under a parent.
	TopicCreateWizardRequested event.Topic = "wizard.create.requested"

	// TopicEditWizardRequested asks for a modal dialog editing an
	// existing element.
	TopicEditWizardRequested event.Topic = "wizard.edit.requested"

	// TopicCloseWizardRequested asks the core to dismiss the visible
	// dialog.
	TopicCloseWizardRequested event.Topic = "wizard.close.requested"
)

// EditRequested is the payload of TopicEditRequested.
type EditRequested struct {
	// Edit is the declarative mutation to apply.
	Edit edit.Edit

	// Title optionally labels the resulting history entry.
	Title string

	// Squash merges the edit into the previous history entry.
	Squash bool
}

// UndoRequested is the payload of TopicUndoRequested.
type UndoRequested struct{}

// RedoRequested is the payload of TopicRedoRequested.
type RedoRequested struct{}

// OpenDocumentRequested is the payload of TopicOpenDocumentRequested.
type OpenDocumentRequested struct {
	// Doc is the document to add to the mapping.
	Doc *dom.Document
}

// CreateWizardRequested is the payload of TopicCreateWizardRequested.
type CreateWizardRequested struct {
	// Parent is the element the new element will be created under.
	Parent *html.Node

	// TagName is the tag of the element to create.
	TagName string

	// SubWizard marks the request as a child of the visible dialog.
	SubWizard bool
}

// EditWizardRequested is the payload of TopicEditWizardRequested.
type EditWizardRequested struct {
	// Element is the element to edit.
	Element *html.Node

	// SubWizard marks the request as a child of the visible dialog.
	SubWizard bool
}

// CloseWizardRequested is the payload of TopicCloseWizardRequested.
type CloseWizardRequested struct {
	// RequestID optionally names the request being closed. When set it
	// must match the visible request; a mismatch means the caller's view
	// is stale and the close is rejected.
	RequestID string
}
