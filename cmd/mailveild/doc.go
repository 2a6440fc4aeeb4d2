// mailveild serves the broker API over HTTP for presentation layers that
// are not the CLI. It exposes the same operations as the mailveil command
// plus a Prometheus metrics endpoint.
package main
