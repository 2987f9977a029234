package api

import (
	"movesmart-route-service/internal/api/handlers"
	"movesmart-route-service/internal/ports"
	"net/http"
)

// NewRouter wires the analytics endpoints to repo and returns an http.Handler.
// db may be nil, in which case /health only reports liveness.
func NewRouter(repo ports.TripRepository, db handlers.Pinger, topRoutes int) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: db}
	tripHandler := &handlers.TripHandler{Repo: repo}
	analyticsHandler := &handlers.AnalyticsHandler{Repo: repo, TopRoutes: topRoutes}

	mux.HandleFunc("/health", healthHandler.Get)
	mux.HandleFunc("/log_trip", tripHandler.Log)
	mux.HandleFunc("/urban_analytics", analyticsHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux))
}
