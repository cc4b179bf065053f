// Package http wires the gin router and server around the application
// services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/application/scanning"
	"github.com/turtacn/AssetHunter-Intelligence/internal/application/verification"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
	"github.com/turtacn/AssetHunter-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/AssetHunter-Intelligence/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	ScanService *scanning.ScanService
	Verifier    *verification.Orchestrator
	Analysis    *hunterai.AnalysisService
	Cache       cache.Cache
	Metrics     *prometheus.AppMetrics
	MetricsHTTP http.Handler
	Logger      logging.Logger
	Mode        string
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(deps.Logger))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if deps.Metrics != nil {
		engine.Use(middleware.Metrics(deps.Metrics))
	}

	scanHandler := handlers.NewScanHandler(deps.ScanService, deps.Logger)
	verifyHandler := handlers.NewVerifyHandler(deps.Verifier, deps.Logger)
	analyzeHandler := handlers.NewAnalyzeHandler(deps.Analysis, deps.Logger)
	marketplaceHandler := handlers.NewMarketplaceHandler()
	healthHandler := handlers.NewHealthHandler(
		deps.ScanService.SearchConfigured(),
		deps.Verifier.Configured(),
		deps.Cache,
		deps.Metrics,
	)

	engine.POST("/scan", scanHandler.Scan)
	engine.POST("/verify", verifyHandler.Verify)
	engine.POST("/analyze", analyzeHandler.Analyze)
	engine.GET("/marketplaces", marketplaceHandler.List)
	engine.GET("/health", healthHandler.Health)
	if deps.MetricsHTTP != nil {
		engine.GET("/metrics", gin.WrapH(deps.MetricsHTTP))
	}

	return engine
}
