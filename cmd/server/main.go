package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/climrisk/internal/config"
	"github.com/aristath/climrisk/internal/database"
	"github.com/aristath/climrisk/internal/events"
	"github.com/aristath/climrisk/internal/modules/calculations"
	"github.com/aristath/climrisk/internal/modules/hazard"
	hazardhandlers "github.com/aristath/climrisk/internal/modules/hazard/handlers"
	"github.com/aristath/climrisk/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/climrisk/internal/modules/portfolio/handlers"
	"github.com/aristath/climrisk/internal/modules/report"
	reporthandlers "github.com/aristath/climrisk/internal/modules/report/handlers"
	"github.com/aristath/climrisk/internal/modules/scenario"
	"github.com/aristath/climrisk/internal/modules/simulation"
	"github.com/aristath/climrisk/internal/scheduler"
	"github.com/aristath/climrisk/internal/server"
	"github.com/aristath/climrisk/pkg/logger"
)

func main() {
	// Load configuration first so the logger level is configurable
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting climate risk service")

	// Databases
	portfolioDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "portfolio.db"),
		Profile: database.ProfileStandard,
		Name:    "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open portfolio database")
	}
	defer portfolioDB.Close()

	hazardDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "hazard.db"),
		Profile: database.ProfileStandard,
		Name:    "hazard",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open hazard database")
	}
	defer hazardDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	// Repositories and schemas
	portfolioRepo := portfolio.NewRepository(portfolioDB.Conn(), log)
	if err := portfolioRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate portfolio schema")
	}

	hazardRepo := hazard.NewRepository(hazardDB.Conn(), log)
	if err := hazardRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate hazard schema")
	}

	cache := calculations.NewCache(cacheDB.Conn(), log)
	if err := cache.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache schema")
	}

	// Services
	bus := events.NewBus(log)
	engine := simulation.NewEngine(log)
	scenarioService := scenario.NewService(engine, log)
	portfolioService := portfolio.NewService(portfolioRepo, log)
	reportService := report.NewService(hazardRepo, scenarioService, cache, log)

	var archiver *report.Archiver
	if cfg.ReportArchive.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		archiver, err = report.NewArchiver(ctx, cfg.ReportArchive, log)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure report archive")
		}
		log.Info().Str("bucket", cfg.ReportArchive.Bucket).Msg("Report archive enabled")
	}

	// Scheduler with the nightly report refresh
	sched := scheduler.New(log)
	reportJob := scheduler.NewReportRefreshJob(reportService, portfolioService, archiver, bus, cfg.Simulation, log)
	if err := sched.AddJob(cfg.ReportCron, reportJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register report refresh job")
	}
	purgeJob := scheduler.NewCachePurgeJob(cache, log)
	if err := sched.AddJob("0 30 3 * * *", purgeJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache purge job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:         log,
		PortfolioDB: portfolioDB,
		HazardDB:    hazardDB,
		CacheDB:     cacheDB,
		Config:      cfg,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,

		HazardHandlers:    hazardhandlers.NewHandler(hazardRepo, log),
		PortfolioHandlers: portfoliohandlers.NewHandler(portfolioService, bus, log),
		ReportHandlers:    reporthandlers.NewHandler(reportService, portfolioService, engine, archiver, bus, cfg.Simulation, log),

		EventBus:  bus,
		Scheduler: sched,
		ReportJob: reportJob,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
