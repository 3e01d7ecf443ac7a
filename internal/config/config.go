package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Model     ModelConfig     `mapstructure:"model"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Checkers  CheckersConfig  `mapstructure:"checkers"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ModelConfig locates the trained classifier artifacts. Both files must be
// present at startup; the service refuses to start without them.
type ModelConfig struct {
	ClassifierPath string `mapstructure:"classifier_path"`
	VectorizerPath string `mapstructure:"vectorizer_path"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// CheckersConfig holds settings for the external reputation checkers.
// Each API credential is individually optional; a missing credential
// degrades the corresponding checker instead of failing startup.
type CheckersConfig struct {
	Timeout      time.Duration      `mapstructure:"timeout"`
	CacheTTL     time.Duration      `mapstructure:"cache_ttl"`
	SafeBrowsing SafeBrowsingConfig `mapstructure:"safebrowsing"`
	Search       SearchConfig       `mapstructure:"search"`
}

type SafeBrowsingConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
}

// Load reads configuration from file and environment variables. The config
// file is optional so env-only deployments work out of the box.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamshield")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SCAMSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("checkers.safebrowsing.api_key", "SCAMSHIELD_SAFEBROWSING_API_KEY")
	v.BindEnv("checkers.search.api_key", "SCAMSHIELD_SEARCH_API_KEY")
	v.BindEnv("checkers.search.engine_id", "SCAMSHIELD_SEARCH_ENGINE_ID")
	v.BindEnv("model.classifier_path", "SCAMSHIELD_MODEL_CLASSIFIER_PATH")
	v.BindEnv("model.vectorizer_path", "SCAMSHIELD_MODEL_VECTORIZER_PATH")
	v.BindEnv("redis.enabled", "SCAMSHIELD_REDIS_ENABLED")
	v.BindEnv("redis.host", "SCAMSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMSHIELD_REDIS_PASSWORD")
	v.BindEnv("app.environment", "SCAMSHIELD_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scamshield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "2.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:3001",
	})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("model.classifier_path", "artifacts/scam_model.json")
	v.SetDefault("model.vectorizer_path", "artifacts/vectorizer.json")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "scamshield:")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("checkers.timeout", 5*time.Second)
	v.SetDefault("checkers.cache_ttl", time.Hour)
}
