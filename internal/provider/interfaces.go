// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package provider implements the outbound client for the upstream
// financial-data provider.
//
// The primary abstraction is [API], which decouples the service layer from
// the provider's wire protocol. The package ships one HTTP implementation
// ([NewClient]) built on resty; every call authenticates with the client
// id/secret pair in the request body, as the provider requires.
//
// Non-2xx provider responses are decoded into [*APIError] by
// mapProviderError so that the gateway's error translator can dispatch on
// the machine-readable error code with [errors.As]. Network-level failures
// are wrapped in [ErrProviderUnreachable] and classified as transient by
// [IsTransient].
package provider

import (
	"context"

	"github.com/MKhiriev/go-fin-gateway/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/provider_api_mock.go -package=mock

// API defines the provider operations the gateway depends on.
// Implementations own serialisation, API authentication, and mapping of
// provider failures to [*APIError] values.
type API interface {
	// CreateLinkToken asks the provider for a short-lived link session
	// scoped to userID with read access to balances and transactions.
	// The returned session is handed to the client's link widget verbatim.
	CreateLinkToken(ctx context.Context, userID string) (models.LinkSession, error)

	// ExchangePublicToken trades the transient proof produced by a
	// completed link widget flow for the durable access token and item id.
	// The public token is consumed by the provider on success.
	ExchangePublicToken(ctx context.Context, publicToken string) (ExchangeResult, error)

	// GetAccounts fetches the current account snapshot for one credential.
	GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error)

	// GetTransactions fetches one bounded page of transactions for one
	// credential within the query's date window.
	GetTransactions(ctx context.Context, accessToken string, q TransactionsQuery) ([]models.Transaction, error)

	// GetWebhookVerificationKey fetches the JWK the provider signed a
	// webhook JWS with, identified by the token header's kid.
	GetWebhookVerificationKey(ctx context.Context, keyID string) (WebhookKey, error)
}

// ExchangeResult is the durable outcome of a public-token exchange.
type ExchangeResult struct {
	AccessToken string
	ItemID      string
	RequestID   string
}

// TransactionsQuery bounds a single-page transactions fetch.
// Dates are YYYY-MM-DD.
type TransactionsQuery struct {
	StartDate string
	EndDate   string
	Count     int
	Offset    int
}
