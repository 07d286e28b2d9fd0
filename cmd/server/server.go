// cmd/server/server.go
package main

import (
	"net/http"
	"time"

	"github.com/codr1/excerpt-config/internal/api"
	"github.com/codr1/excerpt-config/internal/api/apiutil"
	"github.com/codr1/excerpt-config/internal/api/appconfig"
	"github.com/codr1/excerpt-config/internal/api/health"
	"github.com/codr1/excerpt-config/internal/config"
	"github.com/codr1/excerpt-config/internal/store"
)

func newServer(cfg *config.Config, configStore *store.Store, startedAt time.Time) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newHandler(cfg, configStore, startedAt),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func newHandler(cfg *config.Config, configStore *store.Store, startedAt time.Time) http.Handler {
	router := http.NewServeMux()

	registerRoutes(
		router,
		appconfig.NewHandler(configStore, cfg.IsDevelopment()),
		health.NewHandler(startedAt),
	)

	// Setup middleware chain, innermost first
	return api.ChainMiddleware(
		router,
		api.WithRecovery(cfg.IsDevelopment()),
		api.WithCORS(cfg.App.CORSOrigin),
		api.WithLogging,
		api.WithRequestID,
	)
}

func registerRoutes(mux *http.ServeMux, configHandler *appconfig.Handler, healthHandler *health.Handler) {
	// Anything not matched below, including wrong methods on known paths
	mux.HandleFunc("/", apiutil.WriteNotFound)

	// Health check
	mux.HandleFunc("GET /health", healthHandler.HandleHealth)

	// Configuration document
	mux.HandleFunc("GET /api/config", configHandler.HandleGet)
	mux.HandleFunc("GET /api/config/{$}", configHandler.HandleGet)
	mux.HandleFunc("POST /api/config", configHandler.HandleSave)
	mux.HandleFunc("POST /api/config/{$}", configHandler.HandleSave)
}
