// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/models"
)

const (
	// probeTimeout bounds one provider probe so a hung call cannot stall
	// the whole sweep.
	probeTimeout = 15 * time.Second

	// listRetries and listRetryDelay shape the backoff for the ledger
	// listing that opens every sweep round.
	listRetries    = 2
	listRetryDelay = 500 * time.Millisecond
)

// sweepWorker periodically probes every stored credential against the
// provider and records audit events for the ones that stopped working.
// A credential that surfaces ITEM_LOGIN_REQUIRED gets a relink_required
// event; other terminal failures get sweep_failed. Transient failures are
// left for the next round.
type sweepWorker struct {
	credentials store.CredentialRepository
	events      store.LinkEventRepository
	providerAPI provider.API

	interval  time.Duration
	listDelay time.Duration

	logger *logger.Logger
}

// NewSweepWorker constructs the credential health sweep. A zero or negative
// sweep interval disables it.
func NewSweepWorker(credentials store.CredentialRepository, events store.LinkEventRepository, providerAPI provider.API, cfg config.Workers, logger *logger.Logger) Worker {
	return &sweepWorker{
		credentials: credentials,
		events:      events,
		providerAPI: providerAPI,
		interval:    cfg.SweepInterval,
		listDelay:   listRetryDelay,
		logger:      logger,
	}
}

// Run starts the sweep loop in its own goroutine and returns immediately.
func (w *sweepWorker) Run() {
	if w.interval <= 0 {
		w.logger.Info().Msg("credential health sweep disabled")
		return
	}

	w.logger.Info().Dur("interval", w.interval).Msg("credential health sweep started")

	go w.loop()
}

func (w *sweepWorker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.sweep(context.Background())
	}
}

// sweep runs one full round: list the ledger, probe every credential.
func (w *sweepWorker) sweep(ctx context.Context) {
	credentials, err := w.listCredentials(ctx)
	if err != nil {
		w.logger.Err(err).Msg("credential listing for sweep failed")
		return
	}

	w.logger.Debug().Int("credentials", len(credentials)).Msg("sweep round started")

	for _, credential := range credentials {
		w.probe(ctx, credential)
	}
}

// listCredentials reads the whole ledger, retrying short storage hiccups so
// one failed query does not cost a whole sweep interval.
func (w *sweepWorker) listCredentials(ctx context.Context) ([]models.Credential, error) {
	backoff := retry.WithMaxRetries(listRetries, retry.NewExponential(w.listDelay))

	var credentials []models.Credential
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var listErr error
		credentials, listErr = w.credentials.ListAll(ctx)
		if listErr != nil {
			return retry.RetryableError(listErr)
		}
		return nil
	})

	return credentials, err
}

// probe issues one bounded accounts call for the credential and classifies
// the outcome.
func (w *sweepWorker) probe(ctx context.Context, credential models.Credential) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := w.providerAPI.GetAccounts(probeCtx, credential.AccessToken)
	if err == nil {
		return
	}

	var apiErr *provider.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.ErrorCode == provider.CodeItemLoginRequired:
		w.logger.Warn().
			Str("userID", credential.UserID).
			Str("itemID", credential.ItemID).
			Msg("credential requires relink")

		w.recordEvent(ctx, models.LinkEvent{
			UserID: credential.UserID,
			ItemID: credential.ItemID,
			Kind:   models.LinkEventRelinkRequired,
			Detail: apiErr.ErrorCode,
		})
	case provider.IsTransient(err):
		// дождёмся следующего круга
		w.logger.Warn().
			Err(err).
			Str("itemID", credential.ItemID).
			Msg("credential probe hit a transient failure")
	default:
		w.logger.Error().
			Err(err).
			Str("userID", credential.UserID).
			Str("itemID", credential.ItemID).
			Msg("credential probe failed")

		w.recordEvent(ctx, models.LinkEvent{
			UserID: credential.UserID,
			ItemID: credential.ItemID,
			Kind:   models.LinkEventSweepFailed,
			Detail: sweepDetail(err, apiErr),
		})
	}
}

// sweepDetail prefers the machine-readable provider code for the audit row.
func sweepDetail(err error, apiErr *provider.APIError) string {
	if apiErr != nil && apiErr.ErrorCode != "" {
		return apiErr.ErrorCode
	}

	return err.Error()
}

// recordEvent appends one audit row. Failures are logged and swallowed; the
// sweep itself never fails because bookkeeping did.
func (w *sweepWorker) recordEvent(ctx context.Context, event models.LinkEvent) {
	if _, err := w.events.Record(ctx, event); err != nil {
		w.logger.Err(err).
			Str("kind", event.Kind).
			Str("userID", event.UserID).
			Msg("sweep event recording failed")
	}
}
