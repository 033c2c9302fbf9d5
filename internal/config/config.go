package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"      validate:"required"`
	Notify    NotifyConfig    `mapstructure:"notify"     validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists the origins the single-page client is served from.
	AllowedOrigins         []string `mapstructure:"allowed_origins"          validate:"dive,required"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lte=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lte=44640,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// RedisConfig configures the Redis instance backing pub/sub broadcasts,
// rate limiting and token revocation.
type RedisConfig struct {
	URL     string `mapstructure:"url"     validate:"required,url"`
	Channel string `mapstructure:"channel" validate:"required"`
}

// NotifyConfig tunes the asynchronous notification dispatcher.
type NotifyConfig struct {
	QueueSize             int `mapstructure:"queue_size"              validate:"gt=0"`
	WorkerCount           int `mapstructure:"worker_count"            validate:"gt=0"`
	PublishTimeoutSeconds int `mapstructure:"publish_timeout_seconds" validate:"gt=0"`
}

// RateLimitConfig limits unauthenticated auth endpoints per client IP.
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"       validate:"gt=0"`
	WindowSeconds int `mapstructure:"window_seconds" validate:"gt=0"`
}
