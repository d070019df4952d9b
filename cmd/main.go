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

	"github.com/Dosada05/fantasy-playoffs/brackets"
	"github.com/Dosada05/fantasy-playoffs/config"
	"github.com/Dosada05/fantasy-playoffs/db"
	"github.com/Dosada05/fantasy-playoffs/handlers"
	"github.com/Dosada05/fantasy-playoffs/repositories"
	api "github.com/Dosada05/fantasy-playoffs/routes"
	"github.com/Dosada05/fantasy-playoffs/services"
	"github.com/Dosada05/fantasy-playoffs/sleeper"
	"github.com/Dosada05/fantasy-playoffs/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Int("leagues", len(cfg.LeagueIDs)))

	dialect, err := repositories.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		logger.Error("invalid database driver", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(dialect, cfg.DatabaseURL, 5*time.Second)
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
	logger.Info("database connection established", slog.String("driver", string(dialect)))

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := db.Migrate(rootCtx, dbConn, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	var archiver storage.SnapshotArchiver = storage.NopArchiver{}
	r2Cfg := storage.CloudflareR2ArchiverConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2Cfg.Enabled() {
		archiver, err = storage.NewCloudflareR2Archiver(rootCtx, r2Cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 archiver", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 snapshot archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run(rootCtx)

	entryRepo := repositories.NewBracketEntryRepository(dbConn, dialect)
	ledgerRepo := repositories.NewMatchupLedgerRepository(dbConn, dialect)

	sleeperClient := sleeper.NewHTTPClient(sleeper.Config{
		BaseURL:           cfg.SleeperBaseURL,
		RequestsPerSecond: cfg.SleeperRPS,
	}, logger)

	bracketService := services.NewBracketService(
		sleeperClient,
		entryRepo,
		ledgerRepo,
		archiver,
		wsHub,
		logger,
		services.BracketServiceConfig{
			UpsertBatchSize:   cfg.UpsertBatchSize,
			LeagueConcurrency: cfg.LeagueConcurrency,
		},
	)

	if len(cfg.LeagueIDs) > 0 {
		go runSyncScheduler(rootCtx, logger, bracketService, cfg.LeagueIDs, cfg.SyncInterval)
	} else {
		logger.Warn("LEAGUE_IDS is empty, scheduled bracket sync disabled")
	}

	bracketHandler := handlers.NewBracketHandler(bracketService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey), bracketHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stop()

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

// runSyncScheduler re-syncs every configured league once at startup and then on each tick.
func runSyncScheduler(ctx context.Context, logger *slog.Logger, svc services.BracketService, leagueIDs []string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("bracket sync scheduler started", slog.Duration("interval", interval))

	run := func() {
		if _, err := svc.SyncLeagues(ctx, leagueIDs); err != nil {
			logger.Error("scheduled bracket sync finished with errors", slog.Any("error", err))
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			logger.Info("bracket sync scheduler stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
