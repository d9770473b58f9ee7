package models

import "time"

// LinkSession is the ephemeral provider-issued handle for an in-progress
// link flow. It exists only for the duration of one client-driven linking
// interaction, is never persisted, and has no identity once the client
// exchanges the resulting public token for a durable credential.
type LinkSession struct {
	// UserID is the identity the session was created for. The provider
	// scopes the link token to it.
	UserID string `json:"-"`

	// LinkToken is the provider token the single-page client feeds into the
	// provider's link widget to start the interactive flow.
	LinkToken string `json:"link_token"`

	// Expiration is the provider-reported instant after which the token can
	// no longer open a link flow.
	Expiration time.Time `json:"expiration"`

	// RequestID is the provider's identifier for the create call, surfaced
	// for support correlation.
	RequestID string `json:"request_id"`
}

// LinkExchange carries everything needed to turn a completed client-side
// link flow into a durable credential.
type LinkExchange struct {
	// UserID is the identity the credential will belong to.
	UserID string `json:"user_id"`

	// PublicToken is the transient proof produced by the provider's link
	// widget on success. Required; it is consumed by exactly one exchange.
	PublicToken string `json:"public_token"`

	// InstitutionLabel is the optional display label of the institution the
	// user picked in the widget.
	InstitutionLabel string `json:"institution_label,omitempty"`
}
