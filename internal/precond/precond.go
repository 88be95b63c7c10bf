// Package precond classifies local precondition violations: empty
// message text, no chat selected, recorder already running. They mark
// UI affordances fired in a state where the action has no meaning, so
// callers absorb them as no-ops instead of surfacing a failure.
package precond

import "errors"

// Error is a precondition violation.
type Error string

func (e Error) Error() string { return string(e) }

// Is reports whether err (or anything it wraps) is a precondition
// violation.
func Is(err error) bool {
	var pe Error
	return errors.As(err, &pe)
}
