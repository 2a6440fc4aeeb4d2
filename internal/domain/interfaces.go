package domain

import "context"

// StateStore durably persists broker state snapshots.
//
// Load returns the empty default state when nothing has been saved yet.
// When the persisted snapshot is unreadable it still returns the empty
// default, together with an error the caller can surface as a warning;
// corruption degrades, it does not take the broker down. Save must be
// atomic with respect to the previous snapshot.
type StateStore interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// BreachChecker answers whether an email appears in a breach corpus. It is
// an external collaborator: implementations may block on I/O and must honor
// context cancellation. They never mutate broker state.
type BreachChecker interface {
	Check(ctx context.Context, email string) (BreachReport, error)
}

// CredentialGenerator produces passwords and identifiers.
//
// Secure reports whether the underlying randomness source is
// cryptographically strong; callers must not put output from an insecure
// generator into security-bearing fields.
type CredentialGenerator interface {
	Password(length int) (string, error)
	ID(length int) (string, error)
	Secure() bool
}
