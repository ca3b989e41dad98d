package handler

import "net/http"

// HealthHandler serves the liveness probe endpoint. It reports whether a
// bot token is loaded and which audit backend is active, never the token.
type HealthHandler struct {
	credentialConfigured bool
	auditBackend         string
}

func NewHealthHandler(credentialConfigured bool, auditBackend string) *HealthHandler {
	return &HealthHandler{credentialConfigured: credentialConfigured, auditBackend: auditBackend}
}

// Health handles GET /health
//
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	credential := "missing"
	if h.credentialConfigured {
		credential = "configured"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"credential": credential,
		"audit":      h.auditBackend,
	})
}
