package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/provider"
	"github.com/MKhiriev/go-fin-gateway/internal/service"
	"github.com/MKhiriev/go-fin-gateway/internal/store"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrValidationNoPublicToken: http.StatusBadRequest,
	service.ErrValidationNoUserID:      http.StatusBadRequest,
	service.ErrValidationBadDate:       http.StatusBadRequest,
	service.ErrValidationBadDateRange:  http.StatusBadRequest,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,

	store.ErrCredentialNotSaved: http.StatusInternalServerError,
	store.ErrLinkEventNotSaved:  http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// translateProviderError maps a provider failure onto the stable
// client-facing contract:
//
//	PRODUCT_NOT_READY    -> 202 {"pending": true}
//	ITEM_LOGIN_REQUIRED  -> 409 {"relink": true, "reason": code}
//	INVALID_ACCESS_TOKEN -> 401 {"error": code}
//	any other code       -> 500 {"error": code}
//	no code / unparsable -> 500 {"error": "unknown error"}
//
// The function is total: every *provider.APIError, however malformed,
// yields a status and a JSON-encodable body. Callers never see raw
// provider payloads.
func translateProviderError(apiErr *provider.APIError) (int, any) {
	switch apiErr.ErrorCode {
	case provider.CodeProductNotReady:
		return http.StatusAccepted, models.PendingResponse{Pending: true}
	case provider.CodeItemLoginRequired:
		return http.StatusConflict, models.RelinkResponse{Relink: true, Reason: apiErr.ErrorCode}
	case provider.CodeInvalidAccessToken:
		return http.StatusUnauthorized, models.ErrorResponse{Error: apiErr.ErrorCode}
	case "":
		return http.StatusInternalServerError, models.ErrorResponse{Error: "unknown error"}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: apiErr.ErrorCode}
	}
}

// respondError renders a service failure onto w. Provider failures go
// through [translateProviderError]; everything else is matched against
// errorStatusMap. The raw provider payload is logged here, once, so that
// operators can see exactly what the upstream returned while the caller
// only ever receives the translated body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Str("errorCode", apiErr.ErrorCode).
			Str("requestID", apiErr.RequestID).
			Str("providerPayload", apiErr.Raw).
			Msg("provider call failed")

		status, body := translateProviderError(apiErr)
		if _, writeErr := utils.WriteJSON(w, body, status); writeErr != nil {
			log.Err(writeErr).Msg("error writing response")
		}
		return
	}

	status := statusFromError(err)
	body := models.ErrorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		// do not leak storage internals to clients
		body = models.ErrorResponse{Error: "internal error"}
	}

	if _, writeErr := utils.WriteJSON(w, body, status); writeErr != nil {
		log.Err(writeErr).Msg("error writing response")
	}
}
