package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.EdgePage)
	mux.HandleFunc("GET /trends", handler.TrendsPage)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/edge", handler.GetEdge)
	mux.HandleFunc("GET /v1/trends", handler.GetTrends)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/rankings", handler.ListRankings)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/odds", handler.ListOdds)
	mux.HandleFunc("GET /v1/archive", handler.ListArchiveWeeks)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/archive/record", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordArchiveWeek)))
	mux.Handle("POST /v1/internal/archive/backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.BackfillArchive)))
	mux.Handle("POST /v1/internal/cache/purge", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.PurgeCache)))
}
