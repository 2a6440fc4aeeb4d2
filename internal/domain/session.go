package domain

import "time"

// SessionID uniquely identifies a virtual session.
type SessionID string

// String returns the string form of the identifier.
func (id SessionID) String() string { return string(id) }

// EphemeralLocal is the AliasLocal marker for sessions whose alias reference
// could not be resolved at creation time.
const EphemeralLocal = "(ephemeral)"

// Session binds an alias (or none) to a target site for tracking purposes.
//
// AliasLocal is a denormalized snapshot of the alias address taken at
// creation. It is kept even if the alias is deleted later, so the session
// stays displayable and auditable. AliasID is cleared when the referenced
// alias goes away; AliasLocal is not.
type Session struct {
	ID         SessionID `json:"id"`
	Site       string    `json:"site"`
	AliasID    AliasID   `json:"alias_id,omitempty"`
	AliasLocal string    `json:"alias_local"`
	Created    time.Time `json:"created"`
}

// Ephemeral reports whether the session carries no alias reference.
func (s Session) Ephemeral() bool { return s.AliasID == "" }

// OpenToken is an opaque capability handle for a session. The reference
// implementation issues it without backing isolation; a real deployment
// would exchange it for a proxy route or isolated browsing context.
type OpenToken struct {
	Token     string    `json:"token"`
	SessionID SessionID `json:"session_id"`
	Site      string    `json:"site"`
	IssuedAt  time.Time `json:"issued_at"`
}
