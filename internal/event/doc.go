// Package event is the message-passing boundary between the editor core and
// its collaborators (plugins and the host shell). Intent crosses the
// boundary as a small closed set of typed request messages; the core answers
// with notification messages after each mutating call.
//
// Topics are hierarchical, dot-separated strings ("wizard.create.requested").
// Subscriptions may use wildcards: "*" matches one segment, "**" matches any
// number of segments.
//
// Delivery is synchronous and run-to-completion: Publish invokes every
// matching handler in the caller's goroutine, in subscription order, under
// panic recovery, and returns the handlers' combined error. The core never
// suspends inside a handler, which serializes all mutation of the document
// store, the history log, and the wizard coordinator.
package event
