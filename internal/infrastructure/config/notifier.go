package config

// NotifierConfig holds the outbound notification sinks
type NotifierConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig configures delivery through a Telegram bot
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" validate:"required_if=Enabled true"`
	ChatID  string `mapstructure:"chat_id" validate:"required_if=Enabled true"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// Messages per second sent to the bot API
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`
}
