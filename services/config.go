package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	JWT      JWTConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	Provider     string // "groq" or "gemini"
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	GroqAPIKey   string
	GroqModel    string
	GroqBaseURL  string
	GeminiAPIKey string
	GeminiModel  string
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins string
}

// IsProduction reports whether cookies must be marked Secure
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("cors.allowed_origins", "http://localhost:5173")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "false")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("ai.provider", "groq")
	viper.SetDefault("ai.temperature", "0.5")
	viper.SetDefault("ai.max_tokens", "2048")
	viper.SetDefault("ai.timeout", "60s")
	viper.SetDefault("groq.api_key", "")
	viper.SetDefault("groq.model", "llama-3.3-70b-versatile")
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.environment", "ENVIRONMENT")
	viper.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("ai.provider", "AI_PROVIDER")
	viper.BindEnv("ai.temperature", "AI_TEMPERATURE")
	viper.BindEnv("ai.max_tokens", "AI_MAX_TOKENS")
	viper.BindEnv("ai.timeout", "AI_TIMEOUT")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("groq.model", "GROQ_MODEL")
	viper.BindEnv("groq.base_url", "GROQ_BASE_URL")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:        viper.GetString("server.port"),
			Environment: viper.GetString("server.environment"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(strings.TrimSpace(viper.GetString("ai.provider"))),
			Temperature:  viper.GetFloat64("ai.temperature"),
			MaxTokens:    viper.GetInt("ai.max_tokens"),
			Timeout:      viper.GetDuration("ai.timeout"),
			GroqAPIKey:   viper.GetString("groq.api_key"),
			GroqModel:    viper.GetString("groq.model"),
			GroqBaseURL:  viper.GetString("groq.base_url"),
			GeminiAPIKey: viper.GetString("gemini.api_key"),
			GeminiModel:  viper.GetString("gemini.model"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
	}
}

// Validate fails when a credential the server cannot run without is missing.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch c.AI.Provider {
	case "groq":
		if c.AI.GroqAPIKey == "" {
			errs = append(errs, errors.New("GROQ_API_KEY is required when AI_PROVIDER=groq"))
		}
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini"))
		}
	default:
		errs = append(errs, errors.New("AI_PROVIDER must be groq or gemini"))
	}
	if c.AI.MaxTokens <= 0 {
		errs = append(errs, errors.New("AI_MAX_TOKENS must be positive"))
	}
	return errors.Join(errs...)
}
