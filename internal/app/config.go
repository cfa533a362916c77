package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/envutil"
)

const (
	envProduction  = "production"
	envDevelopment = "development"
	devJWTSecret   = "coursehub-dev-secret"
)

type Config struct {
	Env     string
	Port    string
	LogMode string

	JWTSecret string
	JWTExpire time.Duration

	DB db.Config

	AllowedOrigins []string
	FrontendURL    string

	MediaBucket string

	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	AnalyticsCacheTTL time.Duration

	Otel observability.OtelConfig

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (c Config) IsProduction() bool { return c.Env == envProduction }

// LoadConfig reads a .env file when present, then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:     strings.ToLower(envutil.String("APP_ENV", envDevelopment)),
		Port:    envutil.String("PORT", "5000"),
		LogMode: envutil.String("LOG_MODE", ""),

		JWTSecret: envutil.String("JWT_SECRET", ""),
		JWTExpire: envutil.Duration("JWT_EXPIRE", 30*24*time.Hour),

		DB: db.Config{
			Driver:         strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),
			Host:           envutil.String("POSTGRES_HOST", "localhost"),
			Port:           envutil.String("POSTGRES_PORT", "5432"),
			User:           envutil.String("POSTGRES_USER", "postgres"),
			Password:       envutil.String("POSTGRES_PASSWORD", ""),
			Name:           envutil.String("POSTGRES_NAME", "coursehub"),
			SSLMode:        envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:     envutil.String("SQLITE_PATH", "coursehub.db"),
			ConnectTimeout: envutil.Duration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},

		AllowedOrigins: envutil.List("ALLOWED_ORIGINS"),
		FrontendURL:    envutil.String("FRONTEND_URL", ""),

		MediaBucket: envutil.String("MEDIA_GCS_BUCKET_NAME", ""),

		RedisAddr:         envutil.String("REDIS_ADDR", ""),
		RedisPassword:     envutil.String("REDIS_PASSWORD", ""),
		RedisDB:           envutil.Int("REDIS_DB", 0),
		AnalyticsCacheTTL: envutil.Duration("ANALYTICS_CACHE_TTL", time.Minute),

		ReadTimeout:     envutil.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    envutil.Duration("HTTP_WRITE_TIMEOUT", 5*time.Minute),
		ShutdownTimeout: envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if cfg.LogMode == "" {
		cfg.LogMode = envDevelopment
		if cfg.IsProduction() {
			cfg.LogMode = envProduction
		}
	}

	endpoint := envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", endpoint != ""),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "coursehub-backend"),
		Environment: cfg.Env,
		Version:     envutil.String("APP_VERSION", "dev"),
		Endpoint:    endpoint,
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", !cfg.IsProduction()),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return cfg, fmt.Errorf("missing env var JWT_SECRET")
		}
		cfg.JWTSecret = devJWTSecret
	}
	switch cfg.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return cfg, fmt.Errorf("invalid DB_DRIVER=%q (allowed: %q, %q)", cfg.DB.Driver, db.DriverPostgres, db.DriverSQLite)
	}
	return cfg, nil
}

// Origins is the CORS allow-list: ALLOWED_ORIGINS plus FRONTEND_URL.
func (c Config) Origins() []string {
	out := append([]string{}, c.AllowedOrigins...)
	if c.FrontendURL != "" {
		out = append(out, c.FrontendURL)
	}
	return out
}
