// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// The capability set every link session is created with. Read-only access
// to balances and transactions; the gateway never initiates payments.
var (
	linkProducts     = []string{"transactions"}
	linkCountryCodes = []string{"US"}
)

const linkClientName = "go-fin-gateway"

// Config holds everything needed to talk to one provider environment.
type Config struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

// Client is the HTTP implementation of [API] built on resty.
type Client struct {
	client   *utils.HTTPClient
	clientID string
	secret   string
}

var _ API = (*Client)(nil)

// NewClient constructs a provider client for the given environment.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := utils.NewHTTPClient()
	cli.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{client: cli, clientID: cfg.ClientID, secret: cfg.Secret}
}

func (c *Client) auth() apiAuth {
	return apiAuth{ClientID: c.clientID, Secret: c.secret}
}

// CreateLinkToken implements [API].
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (models.LinkSession, error) {
	body := createLinkTokenRequest{
		apiAuth:      c.auth(),
		ClientName:   linkClientName,
		User:         linkTokenUser{ClientUserID: userID},
		Products:     linkProducts,
		CountryCodes: linkCountryCodes,
		Language:     "en",
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/link/token/create")
	if err != nil {
		return models.LinkSession{}, fmt.Errorf("%w: create link token: %w", ErrProviderUnreachable, err)
	}
	if err = mapProviderError(resp); err != nil {
		return models.LinkSession{}, err
	}

	var out createLinkTokenResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return models.LinkSession{}, fmt.Errorf("decode link token response: %w", err)
	}

	return models.LinkSession{
		UserID:     userID,
		LinkToken:  out.LinkToken,
		Expiration: out.Expiration,
		RequestID:  out.RequestID,
	}, nil
}

// ExchangePublicToken implements [API].
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (ExchangeResult, error) {
	body := exchangePublicTokenRequest{
		apiAuth:     c.auth(),
		PublicToken: publicToken,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/item/public_token/exchange")
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("%w: exchange public token: %w", ErrProviderUnreachable, err)
	}
	if err = mapProviderError(resp); err != nil {
		return ExchangeResult{}, err
	}

	var out exchangePublicTokenResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return ExchangeResult{}, fmt.Errorf("decode exchange response: %w", err)
	}

	return ExchangeResult{
		AccessToken: out.AccessToken,
		ItemID:      out.ItemID,
		RequestID:   out.RequestID,
	}, nil
}

// GetAccounts implements [API].
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	body := getAccountsRequest{
		apiAuth:     c.auth(),
		AccessToken: accessToken,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/accounts/get")
	if err != nil {
		return nil, fmt.Errorf("%w: get accounts: %w", ErrProviderUnreachable, err)
	}
	if err = mapProviderError(resp); err != nil {
		return nil, err
	}

	var out getAccountsResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode accounts response: %w", err)
	}

	return out.Accounts, nil
}

// GetTransactions implements [API].
func (c *Client) GetTransactions(ctx context.Context, accessToken string, q TransactionsQuery) ([]models.Transaction, error) {
	body := getTransactionsRequest{
		apiAuth:     c.auth(),
		AccessToken: accessToken,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Options: transactionsOptions{
			Count:  q.Count,
			Offset: q.Offset,
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/transactions/get")
	if err != nil {
		return nil, fmt.Errorf("%w: get transactions: %w", ErrProviderUnreachable, err)
	}
	if err = mapProviderError(resp); err != nil {
		return nil, err
	}

	var out getTransactionsResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode transactions response: %w", err)
	}

	return out.Transactions, nil
}

// GetWebhookVerificationKey implements [API].
func (c *Client) GetWebhookVerificationKey(ctx context.Context, keyID string) (WebhookKey, error) {
	body := getWebhookKeyRequest{
		apiAuth: c.auth(),
		KeyID:   keyID,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/webhook_verification_key/get")
	if err != nil {
		return WebhookKey{}, fmt.Errorf("%w: get webhook key: %w", ErrProviderUnreachable, err)
	}
	if err = mapProviderError(resp); err != nil {
		return WebhookKey{}, err
	}

	var out getWebhookKeyResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return WebhookKey{}, fmt.Errorf("decode webhook key response: %w", err)
	}

	return out.Key, nil
}
