package provider

import (
	"time"

	"github.com/MKhiriev/go-fin-gateway/models"
)

// apiAuth carries the body-level credentials the provider expects on every
// call. Embedded into each request type so the fields marshal inline.
type apiAuth struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type createLinkTokenRequest struct {
	apiAuth
	ClientName   string        `json:"client_name"`
	User         linkTokenUser `json:"user"`
	Products     []string      `json:"products"`
	CountryCodes []string      `json:"country_codes"`
	Language     string        `json:"language"`
}

type createLinkTokenResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id"`
}

type exchangePublicTokenRequest struct {
	apiAuth
	PublicToken string `json:"public_token"`
}

type exchangePublicTokenResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

type getAccountsRequest struct {
	apiAuth
	AccessToken string `json:"access_token"`
}

type getAccountsResponse struct {
	Accounts  []models.Account `json:"accounts"`
	RequestID string           `json:"request_id"`
}

type transactionsOptions struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
}

type getTransactionsRequest struct {
	apiAuth
	AccessToken string              `json:"access_token"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Options     transactionsOptions `json:"options"`
}

type getTransactionsResponse struct {
	Transactions      []models.Transaction `json:"transactions"`
	TotalTransactions int                  `json:"total_transactions"`
	RequestID         string               `json:"request_id"`
}

type getWebhookKeyRequest struct {
	apiAuth
	KeyID string `json:"key_id"`
}

type getWebhookKeyResponse struct {
	Key       WebhookKey `json:"key"`
	RequestID string     `json:"request_id"`
}

// WebhookKey is the provider's JWK for webhook JWS verification.
// Only ES256 keys on the P-256 curve are issued.
type WebhookKey struct {
	Alg       string `json:"alg"`
	Crv       string `json:"crv"`
	Kid       string `json:"kid"`
	Kty       string `json:"kty"`
	Use       string `json:"use"`
	X         string `json:"x"`
	Y         string `json:"y"`
	CreatedAt int64  `json:"created_at"`
	ExpiredAt int64  `json:"expired_at"`
}
