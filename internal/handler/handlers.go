package handler

import (
	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/handler/http"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, verifier http.WebhookVerifier, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, verifier, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
