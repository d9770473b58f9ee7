package store

import (
	"context"

	"github.com/MKhiriev/go-fin-gateway/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CredentialRepository is the append-only ledger of provider access grants.
// Tokens are never updated or deleted; a relink appends a fresh row for the
// same user.
type CredentialRepository interface {
	// Save appends a credential and returns it with the server-assigned ID
	// and CreatedAt filled in.
	Save(ctx context.Context, credential models.Credential) (models.Credential, error)

	// ListForUser returns every credential of the given user in creation
	// order. A user with no linked institutions yields an empty slice,
	// not an error.
	ListForUser(ctx context.Context, userID string) ([]models.Credential, error)

	// ListAll returns the whole ledger in creation order. Used by the
	// background health sweep.
	ListAll(ctx context.Context) ([]models.Credential, error)
}

// LinkEventRepository is the audit trail of link lifecycle events.
type LinkEventRepository interface {
	// Record appends an event and returns it with the server-assigned ID
	// and CreatedAt filled in.
	Record(ctx context.Context, event models.LinkEvent) (models.LinkEvent, error)

	// ListForUser returns events matching the filter, newest first.
	ListForUser(ctx context.Context, filter models.LinkEventFilter) ([]models.LinkEvent, error)
}
