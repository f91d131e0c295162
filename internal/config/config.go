// Package config loads service configuration from defaults, an optional
// config file and GRAPHER_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Engine EngineConfig `mapstructure:"engine"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Store  StoreConfig  `mapstructure:"store"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"oneof=debug info warn error"`
	LogJSON         bool          `mapstructure:"log_json"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EngineConfig bounds expression evaluation.
type EngineConfig struct {
	MaxExpressionLength int           `mapstructure:"max_expression_length" validate:"gt=0"`
	MaxBatchSize        int           `mapstructure:"max_batch_size"        validate:"gt=0"`
	MaxPoints           int           `mapstructure:"max_points"            validate:"gte=10"`
	EvalTimeout         time.Duration `mapstructure:"eval_timeout"          validate:"gt=0"`
}

// CacheConfig controls the evaluation result cache.
type CacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size" validate:"gt=0"`
}

// StoreConfig controls saved-expression persistence. An empty path selects
// the in-memory store.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration. Environment variables take precedence over the
// config file, which takes precedence over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_json", false)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("engine.max_expression_length", 1000)
	v.SetDefault("engine.max_batch_size", 100)
	v.SetDefault("engine.max_points", 10000)
	v.SetDefault("engine.eval_timeout", 5*time.Second)

	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.size", 1024)

	v.SetDefault("store.path", "")

	v.SetEnvPrefix("GRAPHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
