package handler

import (
	"net/http"
)

// HealthResponse is the liveness payload served on /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports that the process is up. It checks no dependencies, so it
// stays green while yt-dlp or the CDN is unavailable.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
