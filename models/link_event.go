package models

import "time"

// Link event kinds recorded in the audit trail.
const (
	// LinkEventOpened marks the creation of a link session.
	LinkEventOpened = "link_opened"

	// LinkEventCompleted marks a successful public-token exchange.
	LinkEventCompleted = "link_completed"

	// LinkEventRelinkRequired marks a credential that surfaced
	// ITEM_LOGIN_REQUIRED and needs user re-authentication.
	LinkEventRelinkRequired = "relink_required"

	// LinkEventWebhookReceived marks a verified provider webhook delivery.
	LinkEventWebhookReceived = "webhook_received"

	// LinkEventSweepFailed marks a credential the background health sweep
	// could not refresh.
	LinkEventSweepFailed = "sweep_failed"
)

// LinkEvent is one row of the append-only link audit trail. Events are
// written by the link service, the webhook handler and the health sweep,
// and read back through the events listing endpoint.
type LinkEvent struct {
	// ID is the database-assigned row id.
	ID int64 `json:"id"`

	// UserID is the tenant the event belongs to.
	UserID string `json:"user_id"`

	// ItemID is the provider item involved, empty for events that precede
	// a completed link.
	ItemID string `json:"item_id,omitempty"`

	// Kind is one of the LinkEvent* constants.
	Kind string `json:"kind"`

	// Detail is a short human-readable note (error code, webhook type).
	Detail string `json:"detail,omitempty"`

	// CreatedAt is when the event was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table storing link events.
func (e *LinkEvent) TableName() string {
	return "link_events"
}

// LinkEventFilter narrows an audit-trail listing. UserID is mandatory;
// the remaining fields are optional and combined with AND when set.
type LinkEventFilter struct {
	// UserID selects the tenant whose events are listed.
	UserID string

	// Kinds restricts the result to the given event kinds.
	Kinds []string

	// ItemID restricts the result to events of a single provider item.
	ItemID string

	// Limit caps the number of returned events, newest first.
	// Zero means no limit.
	Limit uint64
}
