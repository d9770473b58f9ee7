package models

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

// LinkSessionRequest starts a link flow for a user. UserID is optional and
// defaults to DefaultUserID when absent or empty.
type LinkSessionRequest struct {
	UserID string `json:"userId,omitempty"`
}

// LinkSessionResponse carries the short-lived link token the client hands
// to the provider's widget. Field names follow the provider's payload, which
// is forwarded as-is.
type LinkSessionResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id,omitempty"`
}

// LinkExchangeRequest finishes a link flow by trading the widget's
// transient proof for a durable credential.
type LinkExchangeRequest struct {
	UserID           string `json:"userId,omitempty"`
	TransientProof   string `json:"transientProof"`
	InstitutionLabel string `json:"institutionLabel,omitempty"`
}

// LinkExchangeResponse acknowledges a stored credential. The access token
// itself never leaves the gateway.
type LinkExchangeResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id,omitempty"`
}

// AccountsRequest scopes an account aggregation to one user.
type AccountsRequest struct {
	UserID string `json:"userId,omitempty"`
}

// AccountsResponse is the merged account list across every linked
// credential of the user.
type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// TransactionsRequest scopes a transaction aggregation. Dates are
// YYYY-MM-DD; empty values fall back to the configured defaults.
type TransactionsRequest struct {
	UserID    string `json:"userId,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// TransactionsResponse is the merged transaction list across every linked
// credential of the user.
type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// LinkEventsResponse lists the audit trail for a user, newest first.
type LinkEventsResponse struct {
	Events []LinkEvent `json:"events"`
}

// WebhookPayload is the subset of the provider's webhook body the gateway
// acts on.
type WebhookPayload struct {
	WebhookType string `json:"webhook_type"`
	WebhookCode string `json:"webhook_code"`
	ItemID      string `json:"item_id"`
	Error       *WebhookError `json:"error,omitempty"`
}

// WebhookError is the error object attached to item-status webhooks.
type WebhookError struct {
	ErrorCode string `json:"error_code"`
}

// WebhookAck acknowledges a verified webhook delivery.
type WebhookAck struct {
	Acknowledged bool `json:"acknowledged"`
}

// PendingResponse tells the caller to retry later because the provider is
// still preparing data for a freshly linked credential.
type PendingResponse struct {
	Pending bool `json:"pending"`
}

// RelinkResponse tells the caller a credential must be re-authenticated
// before aggregation can proceed.
type RelinkResponse struct {
	Relink bool   `json:"relink"`
	Reason string `json:"reason"`
}

// ErrorResponse is the uniform error body for 4xx/5xx answers.
type ErrorResponse struct {
	Error string `json:"error"`
}
