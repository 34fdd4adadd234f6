// Package app provides the supervisory coordinator for the editor core. It
// wires the document store, edit engine, history, and wizard scheduler to
// the message boundary and surfaces one coherent state snapshot.
package app

import (
	"errors"
	"fmt"
)

// Coordinator errors.
var (
	// ErrNoActiveDocument indicates no document is currently active.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrDocumentNotFound indicates a document was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentAlreadyOpen indicates a document name is already in use.
	ErrDocumentAlreadyOpen = errors.New("document already open")

	// ErrStaleWizardClose indicates a close naming a request that is not
	// the visible one.
	ErrStaleWizardClose = errors.New("close names a wizard that is not visible")

	// ErrInvalidRequest indicates a malformed boundary request payload.
	ErrInvalidRequest = errors.New("invalid request payload")
)

// OperationError represents an error that occurred during a specific
// coordinator operation.
type OperationError struct {
	Op     string // Operation name (e.g., "apply edit", "undo")
	Target string // Target of the operation (e.g., document name)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
