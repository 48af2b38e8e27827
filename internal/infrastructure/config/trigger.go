package config

// TriggerConfig holds the HTTP trigger server configuration
type TriggerConfig struct {
	// Listen address, e.g. :3000
	Address string `mapstructure:"address" validate:"required"`

	// Shared secret expected as the last path segment; required when serving
	Secret string `mapstructure:"secret"`

	// Command spawned per trigger; defaults to this binary with "run"
	Command []string `mapstructure:"command"`

	// Output lines kept for websocket subscribers that connect late
	StreamBuffer int `mapstructure:"stream_buffer" validate:"min=0"`
}
