// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// verificationHeader carries the detached JWS the provider signs every
// webhook delivery with.
const verificationHeader = "Verification"

// webhook ingests one provider webhook delivery. The raw body is
// authenticated against the JWS in the Verification header before the
// payload is parsed; unverifiable deliveries are rejected with 401 and
// never reach the link service.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.webhook").Msg("error reading webhook body")
		http.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}

	if err = h.verifier.Verify(ctx, r.Header.Get(verificationHeader), body); err != nil {
		log.Err(err).Str("func", "*Handler.webhook").Msg("webhook verification failed")
		http.Error(w, "webhook verification failed", http.StatusUnauthorized)
		return
	}

	var payload models.WebhookPayload
	if err = json.Unmarshal(body, &payload); err != nil {
		log.Err(err).Str("func", "*Handler.webhook").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err = h.services.LinkService.HandleWebhook(ctx, payload); err != nil {
		log.Err(err).Str("func", "*Handler.webhook").Msg("webhook handling failed")
		respondError(w, r, err)
		return
	}

	if _, err = utils.WriteJSON(w, models.WebhookAck{Acknowledged: true}, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.webhook").Msg("error writing response")
	}
}
