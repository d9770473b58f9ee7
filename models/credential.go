// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DefaultUserID is the sentinel user identity applied when a request omits
// the userId field. It is a deliberate single-tenant simplification for
// clients that do not manage their own user accounts, not a security
// boundary: the gateway does not authenticate user identities.
const DefaultUserID = "default-user"

// Credential represents one successfully linked financial institution for
// one user. A row is written exactly once, when a link flow completes, and
// is never updated afterwards: re-linking the same institution produces a
// new row, and institution-side invalidation is observed at query time
// rather than recorded in place.
type Credential struct {
	// ID is the server-assigned primary key. Rows are returned to callers
	// in ID order, which equals creation order.
	ID int64 `json:"-"`

	// UserID is the opaque caller-supplied identity that owns this
	// credential. Defaults to [DefaultUserID] upstream of the store.
	UserID string `json:"user_id"`

	// AccessToken is the durable opaque secret issued by the provider in
	// exchange for a public token. It is never re-derivable and must be
	// stored verbatim. Excluded from JSON so it can never leak into
	// response payloads.
	AccessToken string `json:"-"`

	// ItemID is the provider-side identifier of the linked item. Stored so
	// that asynchronous provider webhooks can be correlated back to a
	// credential without guessing.
	ItemID string `json:"item_id"`

	// InstitutionLabel is the optional display label the client supplied
	// during the link flow. Informational only; the gateway never
	// deduplicates credentials by institution.
	InstitutionLabel string `json:"institution_label,omitempty"`

	// CreatedAt is the time the exchange completed and the row was written.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Credential model.
func (c Credential) TableName() string {
	return "credentials"
}
