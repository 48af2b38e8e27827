package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Game defaults
	if cfg.Game.BaseURL == "" {
		cfg.Game.BaseURL = "https://pr0game.com"
	}
	if cfg.Game.UniPath == "" {
		cfg.Game.UniPath = "/uni4/game.php"
	}
	if cfg.Game.SessionCookieName == "" {
		cfg.Game.SessionCookieName = "PHPSESSID"
	}
	if cfg.Game.ActionTimeout == 0 {
		cfg.Game.ActionTimeout = 15 * time.Second
	}
	if cfg.Game.RateLimit.Requests == 0 {
		cfg.Game.RateLimit.Requests = 1
	}
	if cfg.Game.RateLimit.Burst == 0 {
		cfg.Game.RateLimit.Burst = 2
	}
	if cfg.Game.Retry.MaxAttempts == 0 {
		cfg.Game.Retry.MaxAttempts = 3
	}
	if cfg.Game.Retry.BackoffBase == 0 {
		cfg.Game.Retry.BackoffBase = 1 * time.Second
	}
	if cfg.Game.CircuitBreaker.MaxFailures == 0 {
		cfg.Game.CircuitBreaker.MaxFailures = 5
	}
	if cfg.Game.CircuitBreaker.Timeout == 0 {
		cfg.Game.CircuitBreaker.Timeout = 60 * time.Second
	}

	// Scheduler defaults
	if cfg.Scheduler.ResourceRecheckInterval == 0 {
		cfg.Scheduler.ResourceRecheckInterval = 10 * time.Minute
	}
	if cfg.Scheduler.ResourceRecheckVariance == 0 {
		cfg.Scheduler.ResourceRecheckVariance = 1 * time.Minute
	}
	if cfg.Scheduler.WaitBuffer == 0 {
		cfg.Scheduler.WaitBuffer = 5 * time.Second
	}
	if cfg.Scheduler.InteractionDelayMin == 0 {
		cfg.Scheduler.InteractionDelayMin = 1 * time.Second
	}
	if cfg.Scheduler.InteractionDelayMax == 0 {
		cfg.Scheduler.InteractionDelayMax = 5 * time.Second
	}
	if cfg.Scheduler.StorageDir == "" {
		cfg.Scheduler.StorageDir = "./storage"
	}
	if cfg.Scheduler.JournalDir == "" {
		cfg.Scheduler.JournalDir = "./storage/journal"
	}
	if cfg.Scheduler.PIDDir == "" {
		cfg.Scheduler.PIDDir = "/tmp"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./storage/pr0game.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "pr0game"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "pr0game"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Notifier defaults
	if cfg.Notifier.Telegram.BaseURL == "" {
		cfg.Notifier.Telegram.BaseURL = "https://api.telegram.org"
	}
	if cfg.Notifier.Telegram.RatePerSecond == 0 {
		cfg.Notifier.Telegram.RatePerSecond = 1
	}

	// Trigger defaults
	if cfg.Trigger.Address == "" {
		cfg.Trigger.Address = ":3000"
	}
	if cfg.Trigger.StreamBuffer == 0 {
		cfg.Trigger.StreamBuffer = 200
	}
}
