// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-fin-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:  serverURL,
		ClientID: "test-client-id",
		Secret:   "test-secret",
		Timeout:  5 * time.Second,
	})
}

func writeProviderError(w http.ResponseWriter, status int, errorType, errorCode string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error_type":    errorType,
		"error_code":    errorCode,
		"error_message": "provider says no",
		"request_id":    "req-1",
	})
}

// ── CreateLinkToken ──────────────────────────────────────────────────────────

func TestCreateLinkToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/link/token/create", r.URL.Path)

		var body createLinkTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-client-id", body.ClientID)
		assert.Equal(t, "test-secret", body.Secret)
		assert.Equal(t, "u1", body.User.ClientUserID)
		assert.Equal(t, []string{"transactions"}, body.Products)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"link_token": "link-sandbox-abc",
			"expiration": "2026-08-23T12:56:34Z",
			"request_id": "req-lt-1",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.CreateLinkToken(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "link-sandbox-abc", got.LinkToken)
	assert.Equal(t, "req-lt-1", got.RequestID)
	assert.False(t, got.Expiration.IsZero())
}

func TestCreateLinkToken_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "INVALID_REQUEST", "INVALID_FIELD")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.CreateLinkToken(context.Background(), "u1")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_FIELD", apiErr.ErrorCode)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

// ── ExchangePublicToken ──────────────────────────────────────────────────────

func TestExchangePublicToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/item/public_token/exchange", r.URL.Path)

		var body exchangePublicTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "public-sandbox-xyz", body.PublicToken)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-sandbox-123",
			"item_id":      "item-1",
			"request_id":   "req-ex-1",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.ExchangePublicToken(context.Background(), "public-sandbox-xyz")

	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-123", got.AccessToken)
	assert.Equal(t, "item-1", got.ItemID)
	assert.Equal(t, "req-ex-1", got.RequestID)
}

func TestExchangePublicToken_InvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "INVALID_INPUT", "INVALID_PUBLIC_TOKEN")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ExchangePublicToken(context.Background(), "stale-token")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PUBLIC_TOKEN", apiErr.ErrorCode)
}

// ── GetAccounts ──────────────────────────────────────────────────────────────

func TestGetAccounts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/get", r.URL.Path)

		var body getAccountsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "access-1", body.AccessToken)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(getAccountsResponse{
			Accounts: []models.Account{
				{AccountID: "acc-1", Name: "Checking", Type: "depository"},
				{AccountID: "acc-2", Name: "Savings", Type: "depository"},
			},
			RequestID: "req-acc-1",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GetAccounts(context.Background(), "access-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "acc-1", got[0].AccountID)
	assert.Equal(t, "acc-2", got[1].AccountID)
}

func TestGetAccounts_ItemLoginRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "ITEM_ERROR", "ITEM_LOGIN_REQUIRED")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetAccounts(context.Background(), "access-1")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ITEM_LOGIN_REQUIRED", apiErr.ErrorCode)
	assert.False(t, IsTransient(err))
}

// ── GetTransactions ──────────────────────────────────────────────────────────

func TestGetTransactions_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/get", r.URL.Path)

		var body getTransactionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "access-1", body.AccessToken)
		assert.Equal(t, "2024-01-01", body.StartDate)
		assert.Equal(t, "2024-06-01", body.EndDate)
		assert.Equal(t, 100, body.Options.Count)
		assert.Equal(t, 0, body.Options.Offset)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(getTransactionsResponse{
			Transactions: []models.Transaction{
				{TransactionID: "txn-1", AccountID: "acc-1", Amount: 12.5, Date: "2024-03-01"},
			},
			TotalTransactions: 1,
			RequestID:         "req-txn-1",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GetTransactions(context.Background(), "access-1", TransactionsQuery{
		StartDate: "2024-01-01",
		EndDate:   "2024-06-01",
		Count:     100,
		Offset:    0,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-1", got[0].TransactionID)
}

func TestGetTransactions_ProductNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusBadRequest, "ITEM_ERROR", "PRODUCT_NOT_READY")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetTransactions(context.Background(), "access-1", TransactionsQuery{
		StartDate: "2024-01-01",
		EndDate:   "2024-06-01",
		Count:     100,
	})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PRODUCT_NOT_READY", apiErr.ErrorCode)
}

// ── GetWebhookVerificationKey ────────────────────────────────────────────────

func TestGetWebhookVerificationKey_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook_verification_key/get", r.URL.Path)

		var body getWebhookKeyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kid-1", body.KeyID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(getWebhookKeyResponse{
			Key: WebhookKey{
				Alg: "ES256",
				Crv: "P-256",
				Kid: "kid-1",
				Kty: "EC",
				Use: "sig",
				X:   "x-coord",
				Y:   "y-coord",
			},
			RequestID: "req-key-1",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GetWebhookVerificationKey(context.Background(), "kid-1")

	require.NoError(t, err)
	assert.Equal(t, "kid-1", got.Kid)
	assert.Equal(t, "ES256", got.Alg)
}

// ── transport failures ───────────────────────────────────────────────────────

func TestClient_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose: connection refused

	c := newTestClient(t, srv.URL)
	_, err := c.GetAccounts(context.Background(), "access-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnreachable)
	assert.True(t, IsTransient(err))
}

// ── mapProviderError ─────────────────────────────────────────────────────────

func TestMapProviderError_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream proxy error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetAccounts(context.Background(), "access-1")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.ErrorCode)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Raw, "upstream proxy error")
}

// ── IsTransient ──────────────────────────────────────────────────────────────

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &APIError{StatusCode: http.StatusTooManyRequests, ErrorCode: "RATE_LIMIT_EXCEEDED"}, true},
		{"provider 500", &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "INTERNAL_SERVER_ERROR"}, true},
		{"item error", &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "ITEM_LOGIN_REQUIRED"}, false},
		{"invalid token", &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_ACCESS_TOKEN"}, false},
		{"network failure", ErrProviderUnreachable, true},
		{"nil", nil, false},
		{"unrelated", assert.AnError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
