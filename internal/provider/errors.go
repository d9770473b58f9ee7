package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Provider error codes with dedicated translation semantics. Any other
// code falls through to the translator's generic arm.
const (
	CodeProductNotReady    = "PRODUCT_NOT_READY"
	CodeItemLoginRequired  = "ITEM_LOGIN_REQUIRED"
	CodeInvalidAccessToken = "INVALID_ACCESS_TOKEN"
)

var (
	// ErrProviderUnreachable wraps network-level failures: connection
	// refused, DNS errors, timeouts. Always transient.
	ErrProviderUnreachable = errors.New("provider unreachable")
)

// APIError is a structured provider failure decoded from a non-2xx
// response body. ErrorCode is the machine-readable code the gateway's
// error translator dispatches on; it is empty when the provider's error
// payload could not be parsed.
type APIError struct {
	// StatusCode is the HTTP status the provider answered with.
	StatusCode int

	// ErrorType is the provider's coarse error family
	// (ITEM_ERROR, API_ERROR, RATE_LIMIT_EXCEEDED, ...).
	ErrorType string

	// ErrorCode is the machine-readable code
	// (ITEM_LOGIN_REQUIRED, PRODUCT_NOT_READY, ...). Empty if unparsable.
	ErrorCode string

	// Message is the provider's human-readable explanation.
	Message string

	// RequestID correlates the failure with provider-side logs.
	RequestID string

	// Raw is the verbatim response body, kept for operability logging.
	Raw string
}

func (e *APIError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("provider error (http %d): unparsable body", e.StatusCode)
	}
	return fmt.Sprintf("provider error %s (http %d): %s", e.ErrorCode, e.StatusCode, e.Message)
}

// IsTransient reports whether err is worth retrying: rate limits,
// provider-side 5xx failures and network-level errors. Item-state errors
// such as ITEM_LOGIN_REQUIRED arrive with 4xx statuses and are never
// retried.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}

	return errors.Is(err, ErrProviderUnreachable)
}
