package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-fin-gateway/internal/logger"
	"github.com/MKhiriev/go-fin-gateway/internal/utils"
	"github.com/MKhiriev/go-fin-gateway/models"
)

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	response := models.HealthResponse{
		Status:      "ok",
		Environment: h.services.AppInfoService.GetEnvironment(r.Context()),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := utils.WriteJSON(w, response, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.getHealth").Msg("error writing response")
	}
}
