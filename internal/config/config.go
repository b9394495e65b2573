// Package config loads application configuration via viper and owns the
// global zap logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Engine defaults, shared with the engine so zero-valued configs behave
// the same as a default config file.
const (
	DefaultFallbackEmployeeCount    = 100
	DefaultEvidenceExpiryWindowDays = 30
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// EngineConfig tunes the scoring and task-sync engine.
type EngineConfig struct {
	// FallbackEmployeeCount is substituted when a company profile is
	// missing or carries a non-positive employee count. Substitution is
	// logged and surfaced as a warning on the score result, never a
	// hard failure.
	FallbackEmployeeCount int `yaml:"fallback_employee_count" mapstructure:"fallback_employee_count"`

	// EvidenceExpiryWindowDays is how far ahead the task synchronizer
	// looks for expiring evidence documents.
	EvidenceExpiryWindowDays int `yaml:"evidence_expiry_window_days" mapstructure:"evidence_expiry_window_days"`

	// MaxNextSteps caps the readiness remediation list.
	MaxNextSteps int `yaml:"max_next_steps" mapstructure:"max_next_steps"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECOTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("engine.fallback_employee_count", DefaultFallbackEmployeeCount)
	v.SetDefault("engine.evidence_expiry_window_days", DefaultEvidenceExpiryWindowDays)
	v.SetDefault("engine.max_next_steps", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
