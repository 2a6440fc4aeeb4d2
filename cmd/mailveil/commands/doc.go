// Package commands implements the mailveil CLI: alias and session
// lifecycle, password generation, and breach checks against the configured
// lookup service.
package commands
