package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buzzboard/internal/handlers"
	"buzzboard/internal/handlers/api"
	"buzzboard/internal/middleware"
	"buzzboard/internal/store"
	"buzzboard/internal/suggest"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(st store.Store, fetcher handlers.CountsFetcher) {
	suggestions := suggest.NewProvider(st)

	// Initialize middleware
	walletMiddleware := middleware.NewWalletMiddleware()

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(st, fetcher, suggestions, s.Cfg)
	probeHandler := handlers.NewProbeHandler(st)
	seriesHandler := api.NewSeriesHandler(st)
	suggestHandler := api.NewSuggestHandler(suggestions, s.Cfg)
	walletHandler := api.NewWalletHandler(st)
	pointsHandler := api.NewPointsHandler(st)

	// Dashboard routes
	s.App.Get("/", walletMiddleware.OptionalWallet, searchHandler.Index)
	s.App.Post("/", walletMiddleware.RequireWallet, searchHandler.Search)
	s.App.Get("/chart/:keyword", searchHandler.Chart)

	// JSON API routes
	s.App.Get("/api/series/:keyword", seriesHandler.Get)
	s.App.Get("/api/suggest", suggestHandler.Suggest)
	s.App.Post("/api/wallet/connect", walletHandler.Connect)
	s.App.Post("/api/wallet/disconnect", walletHandler.Disconnect)
	s.App.Get("/api/points", pointsHandler.Points)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
