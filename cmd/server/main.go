package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/api"
	"github.com/gripfinance/grip-backend/internal/config"
	"github.com/gripfinance/grip-backend/internal/database"
	"github.com/gripfinance/grip-backend/internal/logger"
	"github.com/gripfinance/grip-backend/internal/previewtoken"
	"github.com/gripfinance/grip-backend/internal/repository"
	"github.com/gripfinance/grip-backend/internal/scheduler"
	"github.com/gripfinance/grip-backend/internal/service"
	"github.com/gripfinance/grip-backend/internal/version"
)

func main() {
	// Load configuration
	fallback := logger.Default()
	cfg, err := config.Load()
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to create logger")
	}
	zlog.Logger = log

	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := logger.WithContext(context.Background(), log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}
	log.Info().
		Str("path", cfg.Database.Path).
		Ints64("migrations_applied", applied).
		Msg("connected to database")

	signer, err := previewtoken.NewSigner(cfg.Import.PreviewTokenKey, cfg.Import.PreviewTokenTTL)
	if err != nil {
		return err
	}
	if cfg.Import.PreviewTokenKey == "" {
		log.Warn().Msg("PREVIEW_TOKEN_KEY not set, preview tokens will not survive a restart")
	}

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewInvestmentTransactionRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	holdingService := service.NewHoldingService(holdingRepo, transactionRepo)
	statementService := service.NewStatementService(
		db,
		holdingRepo,
		transactionRepo,
		signer,
		cfg.Import.MaxParallelFiles,
	)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		if _, err := sched.RegisterSIPDetection(cfg.Scheduler.SIPDetectionSchedule, statementService); err != nil {
			return err
		}
		sched.Start()
	}

	router := api.NewRouter(cfg, log, api.Services{
		System:    systemService,
		Statement: statementService,
		Holding:   holdingService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("version", version.Version).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("scheduled jobs did not finish before shutdown")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exited")
	return nil
}
