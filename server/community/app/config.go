package app

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App     App
	Log     Log
	Session Session
	Redis   Redis
	MinIO   MinIO
	AMQP    AMQP
	OTEL    OTEL
}

type App struct {
	Env          string `env:"APP_ENV" env-default:"dev"`
	Port         string `env:"PORT" env-default:"5000"`
	SeedDemoData bool   `env:"SEED_DEMO_DATA" env-default:"true"`
}

type Log struct {
	Level     string `env:"LOG_LEVEL" env-default:"info"`
	Format    string `env:"LOG_FORMAT" env-default:"text"`
	FilePath  string `env:"LOG_FILE_PATH"`
	MaxSizeMB int    `env:"LOG_MAX_SIZE_MB" env-default:"20"`
}

type Session struct {
	Secret       string `env:"SESSION_SECRET" env-default:"change-me-in-production"`
	TTLMinutes   int    `env:"SESSION_TTL_MINUTES" env-default:"1440"`
	CookieName   string `env:"COOKIE_NAME" env-default:"community.sid"`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"false"`
}

// Redis, MinIO, AMQP and OTEL are optional; an empty address disables them.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type MinIO struct {
	Endpoint      string `env:"MINIO_ENDPOINT"`
	AccessKey     string `env:"MINIO_ACCESS_KEY"`
	SecretKey     string `env:"MINIO_SECRET_KEY"`
	Bucket        string `env:"MINIO_BUCKET" env-default:"avatars"`
	UseSSL        bool   `env:"MINIO_USE_SSL" env-default:"false"`
	PublicBaseURL string `env:"MINIO_PUBLIC_BASE_URL"`
}

type AMQP struct {
	URL string `env:"AMQP_URL"`
}

type OTEL struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" env-default:"community-server"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}
	if cfg.Session.TTLMinutes <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", cfg.Session.TTLMinutes)
	}
	return cfg, nil
}
