package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client for outbound HTTP calls. Embedding
// *resty.Client exposes the full resty API directly while leaving room for
// gateway-specific behavior; the provider client builds on this type for
// every upstream call.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent HTTPClient with its own
// configuration, connection pool, and state. Callers are expected to set
// the base URL, timeout, and default headers before use:
//
//	cli := utils.NewHTTPClient()
//	cli.SetBaseURL("https://sandbox.example.com").SetTimeout(15 * time.Second)
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
