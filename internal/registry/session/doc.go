// Package session owns the virtual-session half of the broker state:
// creation with an alias-address snapshot, hard deletion, and the open
// extension point.
package session
