package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/live"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/repositories"
	api "github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("pairing_strategy", cfg.Pairing.Strategy),
		slog.Int("pairing_retry_limit", cfg.Pairing.RetryLimit),
		slog.Bool("pairing_escalation", cfg.Pairing.Escalation))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, db.DefaultPool, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applied, err := db.Migrate(ctx, dbConn)
	if err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready", slog.Int("migrations_applied", applied))

	var archiver services.RoundArchiver
	if cfg.R2.Enabled() {
		store, err := storage.NewR2Store(ctx, cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewRoundArchiver(store, cfg.ArchivePrefix)
		logger.Info("round archive enabled", slog.String("bucket", cfg.R2.BucketName))
	}

	m := metrics.New()

	hub := live.NewHub(logger, m.LiveClients)
	go hub.Run(ctx)

	tx := repositories.NewPostgresTransactor(dbConn, logger)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	playerService := services.NewPlayerService(tx, playerRepo, matchRepo, hub, m, logger)
	matchService := services.NewMatchService(tx, matchRepo, hub, m, logger)
	standingsService := services.NewStandingsService(playerRepo, matchRepo, logger)
	pairingService, err := services.NewPairingService(playerRepo, matchRepo, services.PairingSettings{
		Strategy:   cfg.Pairing.Strategy,
		RetryLimit: cfg.Pairing.RetryLimit,
		Escalation: cfg.Pairing.Escalation,
	}, archiver, hub, m, logger)
	if err != nil {
		logger.Error("failed to initialize pairing service", slog.Any("error", err))
		os.Exit(1)
	}

	router := api.SetupRoutes(api.Handlers{
		Players:    handlers.NewPlayerHandler(playerService),
		Matches:    handlers.NewMatchHandler(matchService),
		Tournament: handlers.NewTournamentHandler(standingsService, pairingService),
		WebSocket:  handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        m,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
