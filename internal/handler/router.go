package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/student-loan-simulator/pkg/response"
)

// NewRouter wires the API and health routes
func NewRouter(simulationHandler *SimulationHandler, healthHandler *HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/simulations", simulationHandler.RunSimulation).Methods(http.MethodPost)
	api.HandleFunc("/simulations/{runId}/cycles", simulationHandler.GetRunCycles).Methods(http.MethodGet)

	return router
}
