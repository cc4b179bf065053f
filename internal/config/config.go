// Package config defines the service configuration structures.  No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/search/serp"
	"github.com/turtacn/AssetHunter-Intelligence/internal/intelligence/hunterai"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig selects and parameterises the cache backend.
type CacheConfig struct {
	Backend string            `mapstructure:"backend"` // "memory" | "redis"
	Redis   cache.RedisConfig `mapstructure:"redis"`
}

// ScanConfig holds scan pipeline tunables.
type ScanConfig struct {
	VerifyWorkers            int `mapstructure:"verify_workers"`
	MaxResultsPerMarketplace int `mapstructure:"max_results_per_marketplace"`
}

// MetricsConfig holds instrumentation settings.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// Config is the root configuration for the service.  Both collaborator API
// keys are optional: an absent key degrades the corresponding feature and is
// reported by /health rather than blocking startup.
type Config struct {
	Server  ServerConfig          `mapstructure:"server"`
	Log     logging.LogConfig     `mapstructure:"log"`
	Cache   CacheConfig           `mapstructure:"cache"`
	Search  serp.Config           `mapstructure:"search"`
	AI      hunterai.ClientConfig `mapstructure:"ai"`
	Scan    ScanConfig            `mapstructure:"scan"`
	Metrics MetricsConfig         `mapstructure:"metrics"`
}

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected memory|redis", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required for the redis backend")
	}

	if c.Scan.VerifyWorkers < 1 {
		return fmt.Errorf("config: scan.verify_workers must be ≥ 1, got %d", c.Scan.VerifyWorkers)
	}
	if c.Scan.MaxResultsPerMarketplace < 1 {
		return fmt.Errorf("config: scan.max_results_per_marketplace must be ≥ 1, got %d", c.Scan.MaxResultsPerMarketplace)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	return nil
}
