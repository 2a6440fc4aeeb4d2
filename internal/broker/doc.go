// Package broker is the single entry point for alias and session
// operations. It owns the live state, serializes mutations behind one
// writer lock, and installs a mutated snapshot only after the store has
// accepted it, so memory and disk never diverge.
package broker
