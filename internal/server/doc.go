// Package server wires and runs the application's transport servers.
//
// It provides orchestration for the client-facing HTTP server and the
// Prometheus metrics side server, including startup, signal handling, and
// graceful shutdown of all enabled transports.
package server
