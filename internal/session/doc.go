// Package session holds the pages captured during one scanning session.
//
// A Session is an ordered, in-memory collection of immutable pages. Pages
// are appended in capture order and keep that order through removals: the
// final document's page sequence is exactly the capture sequence minus
// whatever the operator removed. Mutations are mutex-serialized so the
// capture path, the control surface, and finalize can share one session.
//
// Pages are never modified in place. Retakes are expressed as remove plus
// capture, and Pages hands out a snapshot copy so callers can iterate
// without holding the session lock.
package session
