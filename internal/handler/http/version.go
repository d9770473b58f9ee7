package http

import (
	"net/http"
)

// getServerVersion reports the running gateway build as plain text, for
// deploy verification and support tickets.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}
