package server

// Server is the lifecycle contract shared by the gateway's listeners: the
// client-facing HTTP server and the Prometheus metrics server.
//
// RunServer blocks until a stop signal arrives and every listener has
// drained; Shutdown asks all listeners to stop accepting and finish
// in-flight requests.
type Server interface {
	// RunServer starts every configured listener and blocks until shutdown.
	RunServer()

	// Shutdown gracefully stops all listeners.
	Shutdown()
}
