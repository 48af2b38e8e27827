package config

import "time"

// GameConfig holds the game frontend client configuration
type GameConfig struct {
	// Base URL of the game server, e.g. https://pr0game.com
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Path of the universe's game.php below BaseURL
	UniPath string `mapstructure:"uni_path" validate:"required,startswith=/,phpscript"`

	// Account name; also suffixes progress files and the pid file
	Username string `mapstructure:"username"`

	// Session cookie of a logged-in browser session
	SessionCookieName string `mapstructure:"session_cookie_name" validate:"required"`
	SessionCookie     string `mapstructure:"session_cookie"`

	// Upper bound for every live-system action
	ActionTimeout time.Duration `mapstructure:"action_timeout" validate:"required"`

	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig controls when the client stops calling a failing server
type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}
