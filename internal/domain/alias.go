package domain

import "time"

// AliasID uniquely identifies an alias for its whole lifetime.
type AliasID string

// String returns the string form of the identifier.
func (id AliasID) String() string { return string(id) }

// Alias is a generated email identity with its own credential.
//
// All fields are set at creation and never mutated afterwards; regenerating
// a password means creating a new alias.
type Alias struct {
	ID       AliasID   `json:"id"`
	Name     string    `json:"name"`
	Domain   string    `json:"domain"`
	Group    string    `json:"group,omitempty"`
	Password string    `json:"password"`
	Created  time.Time `json:"created"`
}

// Local returns the address form name@domain.
func (a Alias) Local() string { return a.Name + "@" + a.Domain }
