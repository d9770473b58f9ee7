package provider

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// providerErrorBody is the provider's documented error payload shape.
type providerErrorBody struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

// mapProviderError turns a non-2xx provider response into an [*APIError].
// The raw body is preserved verbatim on the error so the translation layer
// can log it. A body that does not decode as the documented error shape
// still yields an APIError, just with an empty ErrorCode.
func mapProviderError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	raw := strings.TrimSpace(string(resp.Body()))

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Raw:        raw,
	}

	var body providerErrorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.ErrorType = body.ErrorType
		apiErr.ErrorCode = body.ErrorCode
		apiErr.Message = body.ErrorMessage
		apiErr.RequestID = body.RequestID
	}

	return apiErr
}
