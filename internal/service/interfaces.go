package service

import (
	"context"

	"github.com/MKhiriev/go-fin-gateway/models"
)

// LinkService drives the credential lifecycle: opening provider link
// sessions, exchanging transient proofs for durable credentials, and
// keeping the append-only audit trail of lifecycle events.
type LinkService interface {
	BeginLink(ctx context.Context, userID string) (models.LinkSession, error)
	CompleteLink(ctx context.Context, exchange models.LinkExchange) (models.Credential, error)

	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	ListEvents(ctx context.Context, filter models.LinkEventFilter) ([]models.LinkEvent, error)
}

// AggregationService fans one query out across every credential linked to a
// user and merges the per-institution results into a single response.
type AggregationService interface {
	Accounts(ctx context.Context, userID string) ([]models.Account, error)
	Transactions(ctx context.Context, userID, startDate, endDate string) ([]models.Transaction, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetEnvironment(ctx context.Context) string
}
