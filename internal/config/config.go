package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Agent    AgentConfig    `mapstructure:"agent"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the lifetime of access tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the lifetime of refresh tokens.
	// Refresh tokens outlive access tokens so clients can mint new pairs
	// without re-entering credentials.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// AgentConfig contains settings for the AI agent integration.
// When GeminiAPIKey is empty the service falls back to the built-in
// heuristic generator, which keeps local development self-contained.
type AgentConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}
