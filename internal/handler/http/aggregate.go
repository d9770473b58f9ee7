package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// accounts returns the merged account list across every institution linked
// to the user. Zero linked institutions is a normal steady state and yields
// an empty list with 200, never an error.
func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.AccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.accounts").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	accounts, err := h.services.AggregationService.Accounts(ctx, userOrDefault(request.UserID))
	if err != nil {
		log.Err(err).Str("func", "*Handler.accounts").Msg("accounts aggregation failed")
		respondError(w, r, err)
		return
	}

	response := models.AccountsResponse{Accounts: accounts}
	if _, err = utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.accounts").Msg("error writing response")
	}
}

// transactions returns the merged transaction list for the requested date
// window. Missing dates fall back to the configured defaults; unparsable
// dates are rejected before any provider call.
func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.TransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.transactions").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	transactions, err := h.services.AggregationService.Transactions(
		ctx,
		userOrDefault(request.UserID),
		request.StartDate,
		request.EndDate,
	)
	if err != nil {
		log.Err(err).Str("func", "*Handler.transactions").Msg("transactions aggregation failed")
		respondError(w, r, err)
		return
	}

	response := models.TransactionsResponse{Transactions: transactions}
	if _, err = utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.transactions").Msg("error writing response")
	}
}
