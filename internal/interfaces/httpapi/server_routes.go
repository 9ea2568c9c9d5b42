package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/jobs/match-scheduler", handler.RunMatchScheduler)
	mux.HandleFunc("POST /v1/jobs/match-scheduler", handler.RunMatchScheduler)

	mux.HandleFunc("GET /v1/events", handler.ListActiveEvents)
	mux.HandleFunc("GET /v1/events/{eventKey}/matches", handler.ListEventMatches)
	mux.HandleFunc("GET /v1/teams/upcoming", handler.ListTeamsWithUpcomingMatches)
}
