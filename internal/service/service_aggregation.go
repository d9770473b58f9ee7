// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/metric"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// Operation labels attached to logs and metrics emitted by the engine.
const (
	opAccounts     = "accounts"
	opTransactions = "transactions"
)

// aggregationService is the concrete implementation of AggregationService.
// One call fans out over every credential linked to the user, issues one
// provider call per credential, and concatenates the successful results in
// credential creation order. A failing credential only loses its own slot:
// its failure is logged, counted and, for ITEM_LOGIN_REQUIRED, recorded in
// the audit trail, but it never aborts the sibling calls or the response.
type aggregationService struct {
	// credentials supplies the per-user credential list that defines both
	// the fan-out width and the merge order.
	credentials store.CredentialRepository

	// events receives relink_required audit rows when a credential comes
	// back from the provider with ITEM_LOGIN_REQUIRED.
	events store.LinkEventRepository

	// providerAPI is the outbound client the fan-out calls.
	providerAPI provider.API

	// maxInFlight caps how many provider calls one aggregation may have in
	// flight at once.
	maxInFlight int

	// pageSize bounds the single transactions page requested per credential.
	pageSize int

	// defaultStartDate is the window start applied when the caller omits one.
	defaultStartDate string

	// retryAttempts and retryBaseDelay shape the per-credential retry of
	// transient provider failures.
	retryAttempts  int
	retryBaseDelay time.Duration

	// metrics carries the engine's OpenTelemetry instruments.
	metrics *aggregationMetrics

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAggregationService constructs an AggregationService tuned by cfg.
// Values that would stall the engine (a zero concurrency bound, an empty
// page) fall back to the built-in defaults.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAggregationService(credentials store.CredentialRepository, events store.LinkEventRepository, providerAPI provider.API, cfg config.Aggregation, meter metric.Meter, logger *logger.Logger) (AggregationService, error) {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = config.DefaultMaxConcurrency
	}
	if cfg.TransactionsPageSize < 1 {
		cfg.TransactionsPageSize = config.DefaultTransactionsPageSize
	}
	if cfg.DefaultStartDate == "" {
		cfg.DefaultStartDate = config.DefaultStartDate
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = config.DefaultRetryBaseDelay
	}

	metrics, err := newAggregationMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("aggregation metrics creation failed: %w", err)
	}

	return &aggregationService{
		credentials:      credentials,
		events:           events,
		providerAPI:      providerAPI,
		maxInFlight:      cfg.MaxConcurrency,
		pageSize:         cfg.TransactionsPageSize,
		defaultStartDate: cfg.DefaultStartDate,
		retryAttempts:    cfg.RetryAttempts,
		retryBaseDelay:   cfg.RetryBaseDelay,
		metrics:          metrics,
		logger:           logger,
	}, nil
}

// Accounts merges the account snapshots of every institution linked to the
// user. A user with no linked institutions gets an empty slice and a nil
// error: that is the normal steady state before the first link, not a
// failure.
//
// Returns the merged accounts or:
//   - ErrValidationNoUserID if userID is empty.
//   - A wrapped storage error if the credential listing fails.
//   - ctx.Err() if the caller abandoned the fan-out.
func (s *aggregationService) Accounts(ctx context.Context, userID string) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Msg("no user ID provided for accounts aggregation")
		return nil, ErrValidationNoUserID
	}

	credentials, err := s.credentials.ListForUser(ctx, userID)
	if err != nil {
		log.Err(err).Str("userID", userID).Msg("credentials listing failed")
		return nil, fmt.Errorf("credentials listing failed: %w", err)
	}
	if len(credentials) == 0 {
		return []models.Account{}, nil
	}

	started := time.Now()

	accounts := fanOut(ctx, credentials, s.maxInFlight,
		func(ctx context.Context, credential models.Credential) ([]models.Account, error) {
			return s.fetchAccounts(ctx, credential)
		},
		func(credential models.Credential, err error) {
			s.dropCredential(ctx, credential, opAccounts, err)
		})

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	s.metrics.observeFanOut(ctx, opAccounts, time.Since(started), len(accounts))

	return accounts, nil
}

// Transactions merges one page of transactions per linked institution
// within the given date window. Empty dates fall back to the configured
// start constant and the server's current date; as with Accounts, zero
// linked institutions is a success with an empty slice.
//
// Returns the merged transactions or:
//   - ErrValidationNoUserID if userID is empty.
//   - ErrValidationBadDate / ErrValidationBadDateRange for a malformed
//     window. Both are raised before any provider call.
//   - A wrapped storage error if the credential listing fails.
//   - ctx.Err() if the caller abandoned the fan-out.
func (s *aggregationService) Transactions(ctx context.Context, userID, startDate, endDate string) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Error().Msg("no user ID provided for transactions aggregation")
		return nil, ErrValidationNoUserID
	}

	window, err := s.resolveWindow(startDate, endDate)
	if err != nil {
		log.Error().
			Str("userID", userID).
			Str("startDate", startDate).
			Str("endDate", endDate).
			Msg("invalid transactions window")
		return nil, err
	}

	credentials, err := s.credentials.ListForUser(ctx, userID)
	if err != nil {
		log.Err(err).Str("userID", userID).Msg("credentials listing failed")
		return nil, fmt.Errorf("credentials listing failed: %w", err)
	}
	if len(credentials) == 0 {
		return []models.Transaction{}, nil
	}

	started := time.Now()

	transactions := fanOut(ctx, credentials, s.maxInFlight,
		func(ctx context.Context, credential models.Credential) ([]models.Transaction, error) {
			return s.fetchTransactions(ctx, credential, window)
		},
		func(credential models.Credential, err error) {
			s.dropCredential(ctx, credential, opTransactions, err)
		})

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	s.metrics.observeFanOut(ctx, opTransactions, time.Since(started), len(transactions))

	return transactions, nil
}

// fanOut runs fetch once per credential with at most maxInFlight calls in
// flight and concatenates the successful slices in credential order. Each
// result lands in its own index slot, so the merge order never depends on
// goroutine scheduling. A failed credential surrenders only its slot;
// onFailure observes the failure and the merge goes on without it.
//
// When every credential fails the merged result is an empty non-nil slice:
// the caller cannot tell "all failed" from "all empty", which is the
// partial-failure tolerance the engine exists to provide.
func fanOut[R any](ctx context.Context, credentials []models.Credential, maxInFlight int, fetch func(ctx context.Context, credential models.Credential) ([]R, error), onFailure func(credential models.Credential, err error)) []R {
	slots := make([][]R, len(credentials))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxInFlight)

	for idx, credential := range credentials {
		wg.Add(1)
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			records, err := fetch(ctx, credential)
			if err != nil {
				onFailure(credential, err)
				return
			}

			slots[idx] = records
		}()
	}
	wg.Wait()

	total := 0
	for _, slot := range slots {
		total += len(slot)
	}

	merged := make([]R, 0, total)
	for _, slot := range slots {
		merged = append(merged, slot...)
	}

	return merged
}

func (s *aggregationService) fetchAccounts(ctx context.Context, credential models.Credential) ([]models.Account, error) {
	var accounts []models.Account

	err := s.withRetry(ctx, func(ctx context.Context) error {
		var callErr error
		accounts, callErr = s.providerAPI.GetAccounts(ctx, credential.AccessToken)
		return callErr
	})

	return accounts, err
}

func (s *aggregationService) fetchTransactions(ctx context.Context, credential models.Credential, window dateWindow) ([]models.Transaction, error) {
	query := provider.TransactionsQuery{
		StartDate: window.start,
		EndDate:   window.end,
		Count:     s.pageSize,
		Offset:    0,
	}

	var transactions []models.Transaction

	err := s.withRetry(ctx, func(ctx context.Context) error {
		var callErr error
		transactions, callErr = s.providerAPI.GetTransactions(ctx, credential.AccessToken, query)
		return callErr
	})

	return transactions, err
}

// withRetry retries op on transient provider failures (rate limits, 5xx,
// network errors) with capped exponential backoff. Provider business errors
// such as a bad item state are returned from the first attempt; retrying
// them cannot help.
func (s *aggregationService) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(s.retryAttempts), retry.NewExponential(s.retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if provider.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		return nil
	})
}

// dropCredential observes one credential's removal from a merge: it logs
// the failure with the raw provider payload, bumps the failure counter and,
// when the provider demanded re-authentication, records a relink_required
// audit row for the credential.
func (s *aggregationService) dropCredential(ctx context.Context, credential models.Credential, operation string, err error) {
	log := logger.FromContext(ctx)

	event := log.Warn().
		Str("operation", operation).
		Str("userID", credential.UserID).
		Str("itemID", credential.ItemID).
		Err(err)

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		event = event.Str("providerPayload", apiErr.Raw)
	}
	event.Msg("credential dropped from aggregation")

	s.metrics.observeCredentialFailure(ctx, operation)

	if apiErr != nil && apiErr.ErrorCode == provider.CodeItemLoginRequired {
		if _, recordErr := s.events.Record(ctx, models.LinkEvent{
			UserID: credential.UserID,
			ItemID: credential.ItemID,
			Kind:   models.LinkEventRelinkRequired,
			Detail: apiErr.ErrorCode,
		}); recordErr != nil {
			log.Err(recordErr).
				Str("itemID", credential.ItemID).
				Msg("relink event recording failed")
		}
	}
}

// dateWindow is a validated YYYY-MM-DD transactions range.
type dateWindow struct {
	start string
	end   string
}

// resolveWindow fills in the default bounds and validates the result.
// The end bound defaults to the server's current date.
func (s *aggregationService) resolveWindow(startDate, endDate string) (dateWindow, error) {
	if startDate == "" {
		startDate = s.defaultStartDate
	}
	if endDate == "" {
		endDate = time.Now().Format(time.DateOnly)
	}

	from, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return dateWindow{}, fmt.Errorf("%w: %w", ErrValidationBadDate, err)
	}

	to, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return dateWindow{}, fmt.Errorf("%w: %w", ErrValidationBadDate, err)
	}

	if from.After(to) {
		return dateWindow{}, ErrValidationBadDateRange
	}

	return dateWindow{start: startDate, end: endDate}, nil
}
