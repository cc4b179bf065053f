// API server entry point for AssetHunter-Intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/config"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/search/serp"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
	httpserver "github.com/turtacn/AssetHunter-Intelligence/internal/interfaces/http"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	// Local development convenience; absent .env files are not an error.
	_ = godotenv.Load()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	logger.Info("starting AssetHunter-Intelligence API server",
		logging.Int("port", cfg.Server.Port),
		logging.Bool("search_configured", cfg.Search.Configured()),
		logging.Bool("ai_configured", cfg.AI.Configured()),
	)

	var store cache.Cache
	if cfg.Cache.Backend == "redis" {
		store = cache.NewRedisCache(cfg.Cache.Redis)
	} else {
		store = cache.NewMemoryCache()
	}

	var (
		searcher   serp.Searcher
		serpClient *serp.Client
	)
	if cfg.Search.Configured() {
		client, err := serp.NewClient(cfg.Search, store, logger)
		if err != nil {
			return err
		}
		serpClient = client
		searcher = client
	} else {
		logger.Warn("search API key absent, /scan will answer 503")
	}

	var generator hunterai.TextGenerator
	if cfg.AI.Configured() {
		client, err := hunterai.NewGeminiClient(cfg.AI, logger)
		if err != nil {
			return err
		}
		generator = client
	} else {
		logger.Warn("generative API key absent, enrichment runs extraction-only")
	}

	var (
		metrics     *prometheus.AppMetrics
		metricsHTTP http.Handler
	)
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
		metricsHTTP = collector.Handler()
	}

	verifier := verification.NewOrchestrator(generator, logger)
	scanSvc := scanning.NewScanService(searcher, verifier, metrics, logger)
	scanSvc.SetWorkers(cfg.Scan.VerifyWorkers)
	analysisSvc := hunterai.NewAnalysisService(generator, store, logger)
	if serpClient != nil {
		serpClient.SetMetrics(metrics)
	}
	analysisSvc.SetMetrics(metrics)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		ScanService: scanSvc,
		Verifier:    verifier,
		Analysis:    analysisSvc,
		Cache:       store,
		Metrics:     metrics,
		MetricsHTTP: metricsHTTP,
		Logger:      logger,
		Mode:        cfg.Server.Mode,
	})
	server := httpserver.NewServer(router, httpserver.ServerOptions{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
