// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	Env      string `env:"APP_ENV" envDefault:"dev"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	Metrics  bool   `env:"METRICS_ENABLED" envDefault:"true"`

	JWT        JWT        `envPrefix:"JWT_"`
	Database   Database   `envPrefix:"DB_"`
	Redis      Redis      `envPrefix:"REDIS_"`
	Mail       Mail       `envPrefix:"EMAIL_"`
	Completion Completion `envPrefix:"COMPLETION_"`
	OpenRouter OpenRouter `envPrefix:"OPENROUTER_"`
	Gemini     Gemini     `envPrefix:"GEMINI_"`
	HTTP       HTTP
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"dev_secret"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
}

// Database contains GORM connection parameters.
// Driver is "sqlite" or "postgres"; DSN is passed to the driver as-is.
type Database struct {
	Driver        string `env:"DRIVER" envDefault:"sqlite"`
	DSN           string `env:"DSN" envDefault:"./planner.db"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// Redis contains Redis connection parameters. An empty Host disables Redis.
type Redis struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
}

// Mail contains SMTP credentials for OTP delivery.
type Mail struct {
	User string `env:"USER"`
	Pass string `env:"PASS"`
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"PORT" envDefault:"587"`
}

// Enabled reports whether OTP codes should be mailed rather than logged.
func (m Mail) Enabled() bool {
	return m.User != "" && m.Pass != ""
}

// Completion contains provider-independent completion parameters.
type Completion struct {
	Provider      string        `env:"PROVIDER" envDefault:"openrouter"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"60s"`
	RatePerMinute int           `env:"RATE_PER_MINUTE" envDefault:"20"`
	MaxTokens     int           `env:"MAX_TOKENS" envDefault:"1800"`
	Temperature   float32       `env:"TEMPERATURE" envDefault:"0.6"`
}

// OpenRouter contains parameters of the OpenRouter chat completions API.
type OpenRouter struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model   string `env:"MODEL" envDefault:"mistralai/mistral-7b-instruct:free"`
}

// Gemini contains parameters of the Gemini API.
type Gemini struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-2.5-flash"`
}

// HTTP contains inbound HTTP parameters.
type HTTP struct {
	AllowOrigins      []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	AuthRatePerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	AuthRateBurst     int      `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Addr returns the listen address for gin.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return Parse()
}

// Parse parses the current environment into a Config without touching .env.
func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
