package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/config"
	"buzzboard/internal/jobs"
	"buzzboard/internal/logging"
	"buzzboard/internal/metrics"
	"buzzboard/internal/server"
	"buzzboard/internal/store"
	"buzzboard/internal/twitter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init("buzzboard", cfg.Env)

	fileCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file")
	}
	fileCfg.Apply(cfg)

	// Initialize storage
	st, err := store.NewFileStore(store.Options{
		DataDir:     cfg.DataDir,
		HistoryFile: cfg.HistoryFile,
		RecentFile:  cfg.RecentFile,
		AccountDir:  cfg.AccountDir,
		PointsFile:  cfg.PointsFile,
		WalletsFile: cfg.WalletsFile,
		RefreshFile: cfg.RefreshFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	client := twitter.NewClient(cfg.TwitterBaseURL, cfg.BearerToken)
	metrics.Init(st)

	srv := server.New(cfg)
	srv.RegisterRoutes(st, client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background series refresher
	if cfg.RefreshEnabled {
		refresher := jobs.NewRefresher(st, client, cfg.RefreshInterval, cfg.RefreshMaxAge, fileCfg.Keywords())
		go refresher.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	log.Info().Str("addr", cfg.ServerAddr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
