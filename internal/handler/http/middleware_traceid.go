package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// traceIDHeader carries the request trace id in both directions: callers
// may supply one, and the gateway always echoes the effective id back.
const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a trace id to every request. The id from the
// incoming header is reused when present so the single-page client can
// correlate its own logs with the gateway's; otherwise a fresh uuid is
// generated. A child logger carrying the id is stored in the request
// context, and every log line downstream of this middleware (handlers,
// services, repositories) inherits it via logger.FromContext.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
