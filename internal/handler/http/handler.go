package http

import (
	"context"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/service"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// WebhookVerifier authenticates provider webhook deliveries before their
// payload is trusted. Satisfied by [provider.WebhookVerifier].
type WebhookVerifier interface {
	Verify(ctx context.Context, signedJWT string, body []byte) error
}

type Handler struct {
	services *service.Services
	verifier WebhookVerifier

	logger *logger.Logger
}

func NewHandler(services *service.Services, verifier WebhookVerifier, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		verifier: verifier,
		logger:   logger,
	}
}

// userOrDefault substitutes the single-tenant sentinel for an absent user
// identity. The gateway does not authenticate callers; the sentinel keeps
// clients without their own account system working.
func userOrDefault(userID string) string {
	if userID == "" {
		return models.DefaultUserID
	}
	return userID
}
