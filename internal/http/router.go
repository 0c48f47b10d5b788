package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eduassist/internal/corpus"
	"eduassist/internal/engine"
	"eduassist/internal/handlers"
	"eduassist/internal/session"
	"eduassist/internal/storage"
	"eduassist/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine   engine.Engine
	Sessions *session.Manager
	QueryLog storage.QueryStore
	Facets   corpus.Facets
	Index    vectorstore.SimilarityIndex
	DB       *sql.DB
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)
	r.Use(SessionMiddleware(deps.Sessions))

	askHandler := handlers.NewAskHandler(deps.Engine, deps.QueryLog)
	historyHandler := handlers.NewHistoryHandler()
	facetsHandler := handlers.NewFacetsHandler(deps.Facets)
	statsHandler := handlers.NewStatsHandler(deps.QueryLog)
	healthHandler := handlers.NewHealthHandler(deps.Index, deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodGet, "/history", historyHandler)
		r.Method(http.MethodDelete, "/history", historyHandler)
		r.Method(http.MethodGet, "/facets", facetsHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
