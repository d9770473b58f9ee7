package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// linkSession asks the provider for a short-lived link token scoped to the
// requesting user. The client feeds the token into the provider's link
// widget; nothing is persisted until the widget completes and the client
// calls linkExchange. An empty body is allowed: the user identity falls
// back to the single-tenant sentinel.
func (h *Handler) linkSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LinkSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.linkSession").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	session, err := h.services.LinkService.BeginLink(ctx, userOrDefault(request.UserID))
	if err != nil {
		log.Err(err).Str("func", "*Handler.linkSession").Msg("begin link failed")
		respondError(w, r, err)
		return
	}

	response := models.LinkSessionResponse{
		LinkToken:  session.LinkToken,
		Expiration: session.Expiration.Format(time.RFC3339),
		RequestID:  session.RequestID,
	}
	if _, err = utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.linkSession").Msg("error writing response")
	}
}

// linkExchange trades the link widget's transient proof for a durable
// access token and stores the resulting credential. The proof is validated
// by the service before any provider call is made, so a missing proof is
// always a local 400.
func (h *Handler) linkExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LinkExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.linkExchange").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	exchange := models.LinkExchange{
		UserID:           userOrDefault(request.UserID),
		PublicToken:      request.TransientProof,
		InstitutionLabel: request.InstitutionLabel,
	}

	credential, err := h.services.LinkService.CompleteLink(ctx, exchange)
	if err != nil {
		log.Err(err).Str("func", "*Handler.linkExchange").Msg("complete link failed")
		respondError(w, r, err)
		return
	}

	response := models.LinkExchangeResponse{
		Success: true,
		ItemID:  credential.ItemID,
	}
	if _, err = utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.linkExchange").Msg("error writing response")
	}
}
