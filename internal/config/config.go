package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Auth     AuthConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string `env:"APP_PORT" envDefault:"8501"`
	BaseURL            string `env:"APP_BASE_URL" envDefault:"http://localhost:8501"`
	Environment        string `env:"GO_ENV" envDefault:"development"`
	DataDir            string `env:"ROCKTALK_DIR" envDefault:"~/.rocktalk"`
	LogFilePath        string `env:"LOG_FILE_PATH"`
	CorsAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	NatsURL            string `env:"NATS_URL"`
	RedisURL           string `env:"REDIS_URL"`
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	Connection string `env:"DB_CONNECTION_STRING"`
}

type LLMConfig struct {
	Provider         string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Model            string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL          string        `env:"LLM_BASE_URL"`
	APIKey           string        `env:"LLM_API_KEY"`
	Timeout          time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	TitleModel       string        `env:"LLM_TITLE_MODEL"`
	TitleGenTopic    string        `env:"TITLE_GENERATION_TOPIC" envDefault:"GENERATE_SESSION_TITLE"`
	DefaultMaxTokens int           `env:"LLM_DEFAULT_MAX_TOKENS" envDefault:"4096"`
}

type AuthConfig struct {
	Enabled      bool          `env:"AUTH_ENABLED" envDefault:"false"`
	Username     string        `env:"AUTH_USERNAME" envDefault:"admin"`
	PasswordHash string        `env:"AUTH_PASSWORD_HASH"`
	JwtSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}

type OtelConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"rocktalk"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	cfg.App.DataDir = expandHome(cfg.App.DataDir)
	if cfg.App.LogFilePath == "" {
		cfg.App.LogFilePath = filepath.Join(cfg.App.DataDir, "logs", "rocktalk.log")
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Connection == "" {
		cfg.Database.Connection = filepath.Join(cfg.App.DataDir, "chat_database.db")
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.PasswordHash == "" {
			return nil, fmt.Errorf("AUTH_PASSWORD_HASH is required when AUTH_ENABLED=true")
		}
		if cfg.Auth.JwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
		}
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
