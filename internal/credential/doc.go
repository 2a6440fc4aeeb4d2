// Package credential generates passwords and opaque identifiers from a
// cryptographically secure randomness source.
package credential
