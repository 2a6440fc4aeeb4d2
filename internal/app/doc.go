// Package app loads configuration and wires the store backend, breach
// checker, and broker into an application context shared by the CLI and
// the daemon.
package app
