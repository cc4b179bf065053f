package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// HealthResponse is the GET /health reply.  Collaborator availability means
// "credential configured", not "upstream reachable": the service never probes
// paid endpoints just to answer a health check.
type HealthResponse struct {
	Status          string `json:"status"`
	SearchAvailable bool   `json:"serpapi_available"`
	AIAvailable     bool   `json:"gemini_available"`
	CacheHealthy    bool   `json:"cache_healthy"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	searchConfigured bool
	aiConfigured     bool
	cache            cache.Cache
	metrics          *prometheus.AppMetrics
}

func NewHealthHandler(searchConfigured, aiConfigured bool, c cache.Cache, metrics *prometheus.AppMetrics) *HealthHandler {
	return &HealthHandler{
		searchConfigured: searchConfigured,
		aiConfigured:     aiConfigured,
		cache:            c,
		metrics:          metrics,
	}
}

// Health reports service liveness and which collaborators are configured.
// The endpoint answers 200 even when collaborators are absent; degraded
// features are visible in the body, not the status code.
func (h *HealthHandler) Health(c *gin.Context) {
	cacheHealthy := true
	if h.cache != nil {
		cacheHealthy = h.cache.Ping(c.Request.Context()) == nil
	}

	h.metrics.SetComponentHealth("serpapi", h.searchConfigured)
	h.metrics.SetComponentHealth("gemini", h.aiConfigured)
	h.metrics.SetComponentHealth("cache", cacheHealthy)

	c.JSON(http.StatusOK, HealthResponse{
		Status:          "healthy",
		SearchAvailable: h.searchConfigured,
		AIAvailable:     h.aiConfigured,
		CacheHealthy:    cacheHealthy,
	})
}
