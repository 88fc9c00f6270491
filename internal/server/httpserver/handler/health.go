package handler

import "net/http"

// Health handles GET /health. It never touches the token store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Server is running",
	})
}
