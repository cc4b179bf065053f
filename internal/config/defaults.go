package config

import "time"

const (
	DefaultServerPort      = 8000
	DefaultServerMode      = "release"
	DefaultShutdownTimeout = 10 * time.Second

	DefaultCacheBackend = "memory"
	DefaultRedisAddr    = "localhost:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultVerifyWorkers            = 4
	DefaultMaxResultsPerMarketplace = 20

	DefaultMetricsNamespace = "hunter"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Scan requests fan out over up to fourteen marketplaces with a
		// verification round trip each; give responses room to finish.
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}

	if cfg.Scan.VerifyWorkers == 0 {
		cfg.Scan.VerifyWorkers = DefaultVerifyWorkers
	}
	if cfg.Scan.MaxResultsPerMarketplace == 0 {
		cfg.Scan.MaxResultsPerMarketplace = DefaultMaxResultsPerMarketplace
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
