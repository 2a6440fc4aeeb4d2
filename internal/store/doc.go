// Package store provides the durable StateStore backends: a plain JSON
// file, a passphrase-encrypted file, a Redis snapshot key, and an in-memory
// store for tests. All backends load missing data as the empty default and
// degrade corrupt data to the empty default with ErrCorrupt.
package store
