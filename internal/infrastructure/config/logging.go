package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Minimum level: debug, verbose, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug verbose info warn error"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// Directory of error.log, info.log and trace.log (required if output is "file")
	Dir string `mapstructure:"dir" validate:"required_if=Output file"`
}
