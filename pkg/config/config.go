// Package config loads report configuration from an optional YAML file, a
// .env file and ABCXYZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/cache"
	"github.com/Sternrassler/ozon-abcxyz/pkg/classify"
	"github.com/Sternrassler/ozon-abcxyz/pkg/client"
	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/Sternrassler/ozon-abcxyz/pkg/pagination"
	"github.com/Sternrassler/ozon-abcxyz/pkg/pipeline"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. ABCXYZ_API_CLIENT_ID.
const EnvPrefix = "ABCXYZ"

// ErrMissingCredentials is returned by Validate when the seller credentials are not set.
var ErrMissingCredentials = errors.New("api.client_id and api.api_key are required")

type APIConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	ClientID           string        `mapstructure:"client_id"`
	APIKey             string        `mapstructure:"api_key"`
	Timeout            time.Duration `mapstructure:"timeout"`
	PageSize           int           `mapstructure:"page_size"`
	MaxRetries         int           `mapstructure:"max_retries"`
	MinRequestInterval time.Duration `mapstructure:"min_request_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ClassifyConfig struct {
	ShiftedDemandColumns bool `mapstructure:"shifted_demand_columns"`
}

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Classify ClassifyConfig `mapstructure:"classify"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", client.DefaultBaseURL)
	v.SetDefault("api.client_id", "")
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.page_size", pagination.DefaultPageSize)
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.min_request_interval", time.Duration(0))
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("log.level", string(logging.LevelInfo))
	v.SetDefault("log.pretty", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("classify.shifted_demand_columns", false)
}

// Load reads configuration. configFile is optional; envFiles default to
// ".env" and missing env files are ignored. Environment variables override
// the file, which overrides the defaults.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a report run cannot do without.
func (c *Config) Validate() error {
	if c.API.ClientID == "" || c.API.APIKey == "" {
		return ErrMissingCredentials
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be > 0 (got %d)", c.API.PageSize)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must be >= 0 (got %d)", c.API.MaxRetries)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0 (got %s)", c.API.Timeout)
	}
	return nil
}

// NewRedisClient returns a Redis client, or nil when redis.addr is empty.
func (c *Config) NewRedisClient() *redis.Client {
	if c.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}

// ClientConfig builds the API client configuration. rdb may be nil.
func (c *Config) ClientConfig(rdb *redis.Client) client.Config {
	cfg := client.DefaultConfig(c.API.ClientID, c.API.APIKey)
	cfg.BaseURL = c.API.BaseURL
	cfg.Timeout = c.API.Timeout
	cfg.MinRequestInterval = c.API.MinRequestInterval
	cfg.Retry.MaxAttempts = c.API.MaxRetries + 1
	cfg.Redis = rdb
	cfg.CacheTTL = c.Cache.TTL
	return cfg
}

// PipelineConfig builds the configuration of a report run. rdb may be nil.
func (c *Config) PipelineConfig(rdb *redis.Client) pipeline.Config {
	return pipeline.Config{
		Client:   c.ClientConfig(rdb),
		PageSize: c.API.PageSize,
		Classify: classify.Options{ShiftedDemandColumns: c.Classify.ShiftedDemandColumns},
	}
}

// LoggingConfig builds the logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}
