// Package config provides configuration loading, defaults, and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "HUNTER"

// newViper builds a pre-configured Viper instance: YAML file type, HUNTER_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// nested keys like "search.api_key" resolve to "HUNTER_SEARCH_API_KEY".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges HUNTER_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from HUNTER_* environment variables,
// with no config file required.  Preferred for containerised deployments;
// both collaborator keys stay optional here too.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	// AutomaticEnv alone does not surface env-only keys through Unmarshal;
	// bind the nested keys explicitly so LoadFromEnv sees them.
	for _, key := range []string{
		"server.port", "server.mode",
		"log.level", "log.format",
		"cache.backend", "cache.redis.addr", "cache.redis.password", "cache.redis.db", "cache.redis.key_prefix",
		"search.api_key", "search.base_url", "search.engine",
		"ai.api_key", "ai.base_url", "ai.model",
		"scan.verify_workers", "scan.max_results_per_marketplace",
		"metrics.enabled", "metrics.namespace",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: failed to bind %q: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// MustLoad wraps Load and panics on any error.  Intended for main(), where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
