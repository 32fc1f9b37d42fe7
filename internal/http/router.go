package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/gorilla/mux"

	"nhl-travel-service/internal/http/handlers"
	"nhl-travel-service/internal/http/middleware"
	"nhl-travel-service/internal/metrics"
)

// RouterConfig carries the optional surfaces mounted next to the core routes.
type RouterConfig struct {
	Admin          *handlers.AdminHandler
	MCP            nethttp.Handler
	Logger         *slog.Logger
	Recorder       *metrics.Recorder
	RequestTimeout time.Duration
}

// NewRouter registers HTTP routes on a gorilla/mux router.
func NewRouter(handler *handlers.Handler, cfg RouterConfig) nethttp.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Mux(cfg.Logger, cfg.Recorder))

	api := r.NewRoute().Subrouter()
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	api.HandleFunc("/health", handler.Health).Methods(nethttp.MethodGet)
	api.HandleFunc("/ready", handler.Ready).Methods(nethttp.MethodGet)
	api.HandleFunc("/games", handler.Games).Methods(nethttp.MethodGet)
	api.HandleFunc("/games/{id}", handler.GameByID).Methods(nethttp.MethodGet)
	api.HandleFunc("/teams", handler.Teams).Methods(nethttp.MethodGet)
	api.HandleFunc("/travel", handler.Travel).Methods(nethttp.MethodGet)
	api.HandleFunc("/best-odds/back-to-back/{when}", handler.BestOdds).Methods(nethttp.MethodGet)
	api.HandleFunc("/next-best-odds/{when}", handler.NextBestOdds).Methods(nethttp.MethodGet)

	if cfg.Admin != nil {
		api.HandleFunc("/admin/refresh", cfg.Admin.RefreshCache)
	}
	// MCP sessions stream, so they skip the request timeout.
	if cfg.MCP != nil {
		r.PathPrefix("/mcp").Handler(cfg.MCP)
	}
	return r
}
