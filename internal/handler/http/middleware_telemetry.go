package http

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// withTelemetry wraps the router with OpenTelemetry HTTP instrumentation:
// request duration, in-flight requests and body size measurements, reported
// through the process-wide meter provider.
func withTelemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("go-fin-gateway")(next)
}
