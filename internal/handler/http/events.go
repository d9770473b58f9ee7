package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

// linkEvents lists the audit trail of link lifecycle events for a user,
// newest first. Filters arrive as optional query parameters: userId, kind
// (repeatable), itemId and limit.
func (h *Handler) linkEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	query := r.URL.Query()

	filter := models.LinkEventFilter{
		UserID: userOrDefault(query.Get("userId")),
		Kinds:  query["kind"],
		ItemID: query.Get("itemId"),
	}

	if rawLimit := query.Get("limit"); rawLimit != "" {
		limit, err := strconv.ParseUint(rawLimit, 10, 64)
		if err != nil {
			log.Err(err).Str("func", "*Handler.linkEvents").Msg("invalid limit parameter")
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	events, err := h.services.LinkService.ListEvents(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*Handler.linkEvents").Msg("list link events failed")
		respondError(w, r, err)
		return
	}

	response := models.LinkEventsResponse{Events: events}
	if _, err = utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.linkEvents").Msg("error writing response")
	}
}
