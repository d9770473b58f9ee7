package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(withTelemetry)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withCORS)

	// service endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", h.getHealth)
		r.Get("/version", h.getServerVersion)
	})

	// link lifecycle
	router.Group(func(r chi.Router) {
		r.Post("/link/session", h.linkSession)
		r.Post("/link/exchange", h.linkExchange)
		r.Get("/link/events", h.linkEvents)
		r.Post("/webhook", h.webhook)
	})

	// aggregation
	router.Group(func(r chi.Router) {
		r.Post("/accounts", h.accounts)
		r.Post("/transactions", h.transactions)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
