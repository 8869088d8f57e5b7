// Package config loads server configuration from a yaml file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beauBalthazarBruneau/draft-engine/internal/recommend"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr         string           `yaml:"listen_addr"`
	LogLevel           string           `yaml:"log_level"`
	NATSURL            string           `yaml:"nats_url"`
	NATSPrefix         string           `yaml:"nats_prefix"`
	SessionTTLMin      int              `yaml:"session_ttl_min"`
	JanitorIntervalSec int              `yaml:"janitor_interval_sec"`
	ProjectionsPath    string           `yaml:"projections_path"`
	Engine             recommend.Config `yaml:"engine"`
}

// SessionTTL converts the configured minutes to a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// JanitorInterval converts the configured seconds to a duration.
func (c Config) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSec) * time.Second
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr:         ":8080",
		LogLevel:           "info",
		NATSPrefix:         "draftengine",
		SessionTTLMin:      360,
		JanitorIntervalSec: 300,
		Engine:             recommend.DefaultConfig(),
	}
}

// Load reads the yaml file at path (when it exists) over the defaults,
// then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.NATSPrefix = getEnv("NATS_PREFIX", cfg.NATSPrefix)
	cfg.ProjectionsPath = getEnv("PROJECTIONS_PATH", cfg.ProjectionsPath)
	cfg.SessionTTLMin = getEnvAsInt("SESSION_TTL_MIN", cfg.SessionTTLMin)
	cfg.Engine.TopN = getEnvAsInt("ENGINE_TOP_N", cfg.Engine.TopN)
	cfg.Engine.CandidatePoolSize = getEnvAsInt("ENGINE_CANDIDATE_POOL", cfg.Engine.CandidatePoolSize)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
