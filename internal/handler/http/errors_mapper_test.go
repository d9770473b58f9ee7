// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/service"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/models"
	"github.com/stretchr/testify/assert"
)

// ─────────────────────────────────────────────
// translateProviderError — policy table
// ─────────────────────────────────────────────

// TestTranslateProviderError_PolicyTable verifies the full client-facing
// error contract: each recognized provider code maps to exactly one
// status/body pair, unknown codes fall through to the generic 500 arm, and
// an unparsable provider body yields "unknown error".
func TestTranslateProviderError_PolicyTable(t *testing.T) {
	tests := []struct {
		name       string
		apiErr     *provider.APIError
		wantStatus int
		wantBody   any
	}{
		{
			name:       "PRODUCT_NOT_READY — 202 pending",
			apiErr:     &provider.APIError{StatusCode: http.StatusBadRequest, ErrorCode: provider.CodeProductNotReady},
			wantStatus: http.StatusAccepted,
			wantBody:   models.PendingResponse{Pending: true},
		},
		{
			name:       "ITEM_LOGIN_REQUIRED — 409 relink",
			apiErr:     &provider.APIError{StatusCode: http.StatusBadRequest, ErrorCode: provider.CodeItemLoginRequired},
			wantStatus: http.StatusConflict,
			wantBody:   models.RelinkResponse{Relink: true, Reason: "ITEM_LOGIN_REQUIRED"},
		},
		{
			name:       "INVALID_ACCESS_TOKEN — 401",
			apiErr:     &provider.APIError{StatusCode: http.StatusBadRequest, ErrorCode: provider.CodeInvalidAccessToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   models.ErrorResponse{Error: "INVALID_ACCESS_TOKEN"},
		},
		{
			name:       "unrecognized code — 500 with code",
			apiErr:     &provider.APIError{StatusCode: http.StatusBadRequest, ErrorCode: "INSTITUTION_NOT_RESPONDING"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   models.ErrorResponse{Error: "INSTITUTION_NOT_RESPONDING"},
		},
		{
			name:       "missing code (unparsable body) — 500 unknown error",
			apiErr:     &provider.APIError{StatusCode: http.StatusBadGateway, Raw: "<html>bad gateway</html>"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   models.ErrorResponse{Error: "unknown error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := translateProviderError(tt.apiErr)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

// TestTranslateProviderError_Total feeds arbitrary malformed inputs through
// the translation and asserts it always yields a usable status, never
// panics and never exposes the raw payload in the body.
func TestTranslateProviderError_Total(t *testing.T) {
	inputs := []*provider.APIError{
		{},
		{StatusCode: -1},
		{StatusCode: http.StatusTeapot, ErrorCode: "???", Raw: `{"secret":"do-not-leak"}`},
		{ErrorType: "ITEM_ERROR", Message: "free-form text"},
	}

	for i, apiErr := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			status, body := translateProviderError(apiErr)

			assert.GreaterOrEqual(t, status, http.StatusOK)
			assert.NotNil(t, body)
			if errBody, ok := body.(models.ErrorResponse); ok {
				assert.NotContains(t, errBody.Error, "do-not-leak")
			}
		})
	}
}

// ─────────────────────────────────────────────
// statusFromError
// ─────────────────────────────────────────────

func TestStatusFromError_TableTest(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid data provided", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"no public token", service.ErrValidationNoPublicToken, http.StatusBadRequest},
		{"no user ID", service.ErrValidationNoUserID, http.StatusBadRequest},
		{"bad date", service.ErrValidationBadDate, http.StatusBadRequest},
		{"bad date range", service.ErrValidationBadDateRange, http.StatusBadRequest},
		{"credential not saved", store.ErrCredentialNotSaved, http.StatusInternalServerError},
		{"executing query", store.ErrExecutingQuery, http.StatusInternalServerError},
		{"unknown error", errors.New("some unexpected failure"), http.StatusInternalServerError},
		{"wrapped known error", fmt.Errorf("complete link failed: %w", service.ErrValidationNoPublicToken), http.StatusBadRequest},
		{"deeply wrapped store error", fmt.Errorf("a: %w", fmt.Errorf("b: %w", store.ErrScanningRow)), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFromError(tt.err))
		})
	}
}

// ─────────────────────────────────────────────
// respondError
// ─────────────────────────────────────────────

// TestRespondError_ProviderErrorTranslated verifies that a provider failure
// travelling up a wrap chain is still recognized and translated.
func TestRespondError_ProviderErrorTranslated(t *testing.T) {
	apiErr := &provider.APIError{StatusCode: http.StatusBadRequest, ErrorCode: provider.CodeProductNotReady}
	wrapped := fmt.Errorf("accounts aggregation failed: %w", apiErr)

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, wrapped)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"pending": true}`, rec.Body.String())
}

// TestRespondError_InternalErrorBodyIsGeneric verifies that storage internals
// never leak into 500 response bodies.
func TestRespondError_InternalErrorBodyIsGeneric(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, fmt.Errorf("%w: relation credentials does not exist", store.ErrExecutingQuery))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "relation credentials")
}

// TestRespondError_ValidationErrorKeepsMessage verifies that client-caused
// 400s carry the sentinel text so the caller knows what to fix.
func TestRespondError_ValidationErrorKeepsMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/link/exchange", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, service.ErrValidationNoPublicToken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no public token provided")
}
