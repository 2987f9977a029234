package handlers

import (
	"log"
	"movesmart-route-service/internal/api/dto"
	"movesmart-route-service/internal/platform/obs"
	"movesmart-route-service/internal/ports"
	"movesmart-route-service/internal/services"
	"net/http"
)

// AnalyticsHandler serves city-wide aggregates over every logged trip.
type AnalyticsHandler struct {
	Repo      ports.TripRepository
	TopRoutes int
}

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	trips, err := h.Repo.ListTrips(r.Context())
	if err != nil {
		log.Printf("req_id=%s list trips failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	topN := h.TopRoutes
	if topN <= 0 {
		topN = services.DefaultTopRoutes
	}

	writeJSON(w, r, http.StatusOK, dto.UrbanAnalyticsFromDomain(services.SummarizeTrips(trips, topN)))
}
