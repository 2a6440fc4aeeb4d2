// Package alias owns the alias half of the broker state: creation with
// generated credentials, lookups, and deletion under the denormalization
// policy (sessions keep their address snapshot when the alias goes away).
package alias
