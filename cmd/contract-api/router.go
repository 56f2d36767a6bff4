package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ridhwanrazaliwork/PR1ME-project/cmd/contract-api/handlers"
	"github.com/ridhwanrazaliwork/PR1ME-project/cmd/contract-api/middleware"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

// RouterConfig holds router settings.
type RouterConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg RouterConfig, ingester handlers.Ingester, answerer handlers.Answerer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Hello, World!"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	documents := handlers.NewDocumentHandler(logger, ingester, answerer)

	r.Post("/upload", documents.Upload)
	r.Post("/summarize", documents.Summarize)
	r.Post("/query", documents.Query)
	r.Get("/documents/{documentId}", documents.Get)

	return r
}
