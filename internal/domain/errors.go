package domain

import "errors"

// Error taxonomy for broker operations. Callers match with errors.Is; the
// concrete messages wrap these sentinels with operation context.
var (
	// ErrValidation marks malformed or empty required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a nonexistent alias or session.
	ErrNotFound = errors.New("not found")

	// ErrPersistence marks a state-store failure. The in-memory state is
	// left unchanged when it is returned.
	ErrPersistence = errors.New("persistence failed")

	// ErrTransient marks an external checker failure. Results carrying it
	// mean "unknown", never "not breached".
	ErrTransient = errors.New("transient failure")
)
