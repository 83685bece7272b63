package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	OpenAI    OpenAIConfig
	Recommend RecommendConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// OpenAIConfig holds configuration for the chat companion model.
// An empty APIKey disables the remote model and the keyword
// fallback handles all conversations.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// RecommendConfig holds tuning knobs for the recommendation engine
type RecommendConfig struct {
	FeedbackWindowDays int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// JWT defaults
	v.SetDefault("jwt.accesstokenttl", 30*time.Minute)
	v.SetDefault("jwt.refreshtokenttl", 7*24*time.Hour)

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Recommendation defaults
	v.SetDefault("recommend.feedbackwindowdays", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// OpenAI
	v.BindEnv("openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("openai.baseurl", "OPENAI_BASE_URL")
	v.BindEnv("openai.model", "OPENAI_MODEL")

	// Recommendation engine
	v.BindEnv("recommend.feedbackwindowdays", "FEEDBACK_WINDOW_DAYS")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}

	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("jwt.accesstokenttl must be positive")
	}

	if c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("jwt.refreshtokenttl must be positive")
	}

	if c.Recommend.FeedbackWindowDays < 1 || c.Recommend.FeedbackWindowDays > 365 {
		return fmt.Errorf("recommend.feedbackwindowdays must be between 1 and 365")
	}

	return nil
}
