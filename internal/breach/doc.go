// Package breach implements the BreachChecker collaborator: an HTTP client
// for a real lookup service, a static in-memory corpus for tests and demos,
// and a disabled checker that reports unknown rather than pretending an
// email is clear.
package breach
