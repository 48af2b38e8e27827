package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Trigger   TriggerConfig   `mapstructure:"trigger"`
}

// legacyEnv maps environment names of earlier deployments to config keys.
// The first variable that is set wins.
var legacyEnv = []struct {
	key  string
	vars []string
}{
	{"game.username", []string{"CLI_PROGAME_USERNAME", "PROGAME_USERNAME_DEFAULT"}},
	{"game.uni_path", []string{"PROGAME_UNI_RELATIVE_PATH"}},
	{"trigger.secret", []string{"PW_SECRET"}},
	{"notifier.telegram.token", []string{"TELEGRAM_BOT_TOKEN"}},
	{"notifier.telegram.chat_id", []string{"TELEGRAM_USER_CHAT_ID"}},
	{"database.url", []string{"DATABASE_URL"}},
}

// envKeys are bound explicitly so environment variables work without a config file
var envKeys = []string{
	"game.base_url", "game.uni_path", "game.username", "game.session_cookie_name",
	"game.session_cookie", "game.action_timeout",
	"scheduler.energy_deficit_allowed", "scheduler.resource_recheck_interval",
	"scheduler.resource_recheck_variance", "scheduler.wait_buffer",
	"scheduler.interaction_delay_min", "scheduler.interaction_delay_max",
	"scheduler.storage_dir", "scheduler.journal_dir", "scheduler.player_interactions",
	"database.type", "database.url", "database.path",
	"logging.level", "logging.output", "logging.dir",
	"metrics.enabled", "metrics.host", "metrics.port", "metrics.path",
	"notifier.telegram.enabled", "notifier.telegram.token", "notifier.telegram.chat_id",
	"trigger.address", "trigger.secret",
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Legacy environment variables (highest priority)
// 2. PR0_ environment variables
// 3. Config file (config.yaml)
// 4. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pr0game")
	}

	v.SetEnvPrefix("PR0")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// zero is a meaningful value for these, so they cannot go through SetDefaults
	v.SetDefault("scheduler.player_interactions", true)
	v.SetDefault("scheduler.energy_deficit_allowed", 50)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, legacy := range legacyEnv {
		for _, name := range legacy.vars {
			if value := os.Getenv(name); value != "" {
				v.Set(legacy.key, value)
				break
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{Scheduler: SchedulerConfig{PlayerInteractions: true, EnergyDeficitAllowed: 50}}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// Masked returns a copy with secrets replaced, for display
func (c Config) Masked() Config {
	out := c
	out.Game.SessionCookie = mask(c.Game.SessionCookie)
	out.Database.Password = mask(c.Database.Password)
	out.Database.URL = mask(c.Database.URL)
	out.Notifier.Telegram.Token = mask(c.Notifier.Telegram.Token)
	out.Trigger.Secret = mask(c.Trigger.Secret)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
