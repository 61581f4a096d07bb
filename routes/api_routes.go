// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/covid_tracker/websocket"
)

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, handlers *Handlers, wsManager *websocket.Manager) {
	// Применяем CORS middleware
	router.Use(corsMiddleware)

	// WebSocket соединения
	if wsManager != nil {
		router.HandleFunc("/ws", wsManager.HandleConnections)
	}

	// API отчета и графиков
	router.HandleFunc("/api/report", handlers.GetReport).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/charts", handlers.ListCharts).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/charts/{name}", handlers.GetChart).Methods("GET", "OPTIONS")

	// API журнала запусков и прогноза
	router.HandleFunc("/api/runs", handlers.GetRuns).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/runs/last", handlers.GetLastRun).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/forecast", handlers.GetForecast).Methods("GET", "OPTIONS")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
