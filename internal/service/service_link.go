package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// linkService is the concrete implementation of LinkService.
// It orchestrates the link handshake against the upstream provider
// (create session → exchange transient proof → persist credential) and
// records every lifecycle transition in the audit trail.
type linkService struct {
	// credentials is the append-only ledger the exchange writes to.
	credentials store.CredentialRepository

	// events receives one audit row per lifecycle transition. Recording is
	// best-effort: a failed write is logged and never fails the operation
	// that triggered it.
	events store.LinkEventRepository

	// providerAPI is the outbound client for the upstream provider.
	providerAPI provider.API

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewLinkService constructs a LinkService wired to the given repositories
// and provider client.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewLinkService(credentials store.CredentialRepository, events store.LinkEventRepository, providerAPI provider.API, logger *logger.Logger) LinkService {
	return &linkService{
		credentials: credentials,
		events:      events,
		providerAPI: providerAPI,
		logger:      logger,
	}
}

// BeginLink asks the provider for an ephemeral link session scoped to the
// given user. The session token is handed to the client's link widget and
// is never persisted; a failed create leaves no residue.
//
// Returns the session or:
//   - ErrValidationNoUserID if userID is empty.
//   - A wrapped provider error if the upstream create call fails.
func (s *linkService) BeginLink(ctx context.Context, userID string) (models.LinkSession, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Msg("no user ID provided for link session")
		return models.LinkSession{}, ErrValidationNoUserID
	}

	session, err := s.providerAPI.CreateLinkToken(ctx, userID)
	if err != nil {
		log.Err(err).Str("userID", userID).Msg("link session creation failed")
		return models.LinkSession{}, fmt.Errorf("link session creation failed: %w", err)
	}

	s.recordEvent(ctx, models.LinkEvent{
		UserID: userID,
		Kind:   models.LinkEventOpened,
	})

	return session, nil
}

// CompleteLink trades the transient proof produced by a finished link
// widget flow for a durable access token and appends it to the credential
// ledger. The exchange-then-persist order is strict: an upstream failure
// persists nothing, and a repeat exchange for the same institution appends
// a brand new credential rather than merging into an old one.
//
// Returns the stored credential or:
//   - ErrValidationNoPublicToken if the transient proof is missing. The
//     check runs before any network call.
//   - ErrValidationNoUserID if the user identity is missing.
//   - A wrapped provider error if the upstream exchange fails.
//   - A wrapped storage error if the ledger append fails.
func (s *linkService) CompleteLink(ctx context.Context, exchange models.LinkExchange) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if exchange.PublicToken == "" {
		log.Error().Str("userID", exchange.UserID).Msg("no public token provided for exchange")
		return models.Credential{}, ErrValidationNoPublicToken
	}
	if exchange.UserID == "" {
		log.Error().Msg("no user ID provided for exchange")
		return models.Credential{}, ErrValidationNoUserID
	}

	result, err := s.providerAPI.ExchangePublicToken(ctx, exchange.PublicToken)
	if err != nil {
		log.Err(err).Str("userID", exchange.UserID).Msg("public token exchange failed")
		return models.Credential{}, fmt.Errorf("public token exchange failed: %w", err)
	}

	credential := models.Credential{
		UserID:           exchange.UserID,
		AccessToken:      result.AccessToken,
		ItemID:           result.ItemID,
		InstitutionLabel: exchange.InstitutionLabel,
	}

	saved, err := s.credentials.Save(ctx, credential)
	if err != nil {
		log.Err(err).
			Str("userID", exchange.UserID).
			Str("itemID", result.ItemID).
			Msg("credential saving failed")
		return models.Credential{}, fmt.Errorf("credential saving failed: %w", err)
	}

	s.recordEvent(ctx, models.LinkEvent{
		UserID: saved.UserID,
		ItemID: saved.ItemID,
		Kind:   models.LinkEventCompleted,
		Detail: exchange.InstitutionLabel,
	})

	return saved, nil
}

// HandleWebhook records a verified provider webhook delivery against the
// credential that owns its item. Deliveries for items the ledger does not
// know are acknowledged and ignored; an attached ITEM_LOGIN_REQUIRED error
// additionally flags the credential for re-linking.
func (s *linkService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	log := logger.FromContext(ctx)

	if payload.ItemID == "" {
		log.Error().Str("webhookType", payload.WebhookType).Msg("webhook payload has no item ID")
		return ErrInvalidDataProvided
	}

	owner, found := s.findItemOwner(ctx, payload.ItemID)
	if !found {
		// Deliveries can outlive their credential or race a fresh link;
		// acknowledge them without recording anything.
		log.Warn().Str("itemID", payload.ItemID).Msg("webhook for unknown item ignored")
		return nil
	}

	s.recordEvent(ctx, models.LinkEvent{
		UserID: owner.UserID,
		ItemID: payload.ItemID,
		Kind:   models.LinkEventWebhookReceived,
		Detail: payload.WebhookType + ":" + payload.WebhookCode,
	})

	if payload.Error != nil && payload.Error.ErrorCode == provider.CodeItemLoginRequired {
		s.recordEvent(ctx, models.LinkEvent{
			UserID: owner.UserID,
			ItemID: payload.ItemID,
			Kind:   models.LinkEventRelinkRequired,
			Detail: payload.Error.ErrorCode,
		})
	}

	return nil
}

// ListEvents returns the audit trail matching the filter, newest first.
//
// Returns the events or:
//   - ErrValidationNoUserID if the filter has no user identity.
//   - A wrapped storage error if the listing fails.
func (s *linkService) ListEvents(ctx context.Context, filter models.LinkEventFilter) ([]models.LinkEvent, error) {
	log := logger.FromContext(ctx)

	if filter.UserID == "" {
		log.Error().Msg("no user ID provided for events listing")
		return nil, ErrValidationNoUserID
	}

	events, err := s.events.ListForUser(ctx, filter)
	if err != nil {
		log.Err(err).Str("userID", filter.UserID).Msg("link events listing failed")
		return nil, fmt.Errorf("link events listing failed: %w", err)
	}

	return events, nil
}

// recordEvent appends one audit row. Failures are logged and swallowed so
// that bookkeeping can never fail the lifecycle operation it describes.
func (s *linkService) recordEvent(ctx context.Context, event models.LinkEvent) {
	log := logger.FromContext(ctx)

	if _, err := s.events.Record(ctx, event); err != nil {
		log.Err(err).
			Str("kind", event.Kind).
			Str("userID", event.UserID).
			Msg("link event recording failed")
	}
}

// findItemOwner resolves a provider item id back to the credential that was
// stored when the item was linked. A listing failure resolves to not-found
// because webhook processing is best-effort.
func (s *linkService) findItemOwner(ctx context.Context, itemID string) (models.Credential, bool) {
	log := logger.FromContext(ctx)

	credentials, err := s.credentials.ListAll(ctx)
	if err != nil {
		log.Err(err).Msg("credentials listing for webhook correlation failed")
		return models.Credential{}, false
	}

	for _, credential := range credentials {
		if credential.ItemID == itemID {
			return credential, true
		}
	}

	return models.Credential{}, false
}
