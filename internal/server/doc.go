// Package server exposes the broker API over HTTP for mailveild. It is a
// presentation layer: it consumes broker results read-only and mutates only
// through the broker operations.
package server
