package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kbsearch/internal/docstore"
	"kbsearch/internal/handlers"
	"kbsearch/internal/retriever"
	"kbsearch/internal/runlog"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Searcher retriever.Searcher
	Store    docstore.Store
	Runner   handlers.IngestRunner
	Runs     runlog.RunStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	// Add request-scoped logger
	r.Use(LoggerMiddleware)

	searchHandler := handlers.NewSearchHandler(deps.Searcher)
	ingestHandler := handlers.NewIngestHandler(deps.Runner)
	indexesHandler := handlers.NewIndexesHandler(deps.Store)
	runsHandler := handlers.NewRunsHandler(deps.Runs)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Method(http.MethodGet, "/indexes", indexesHandler)
		r.Method(http.MethodGet, "/runs", runsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
