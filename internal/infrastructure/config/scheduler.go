package config

import "time"

// SchedulerConfig holds the queue scheduler tunables
type SchedulerConfig struct {
	// Energy deficit tolerated when gating a building
	EnergyDeficitAllowed int `mapstructure:"energy_deficit_allowed" validate:"min=0"`

	// Recheck interval and symmetric jitter used when no wait can be computed
	ResourceRecheckInterval time.Duration `mapstructure:"resource_recheck_interval" validate:"required"`
	ResourceRecheckVariance time.Duration `mapstructure:"resource_recheck_variance" validate:"ltefield=ResourceRecheckInterval"`

	// Added to every computed resource wait
	WaitBuffer time.Duration `mapstructure:"wait_buffer"`

	// Bounds of the random pause between actions
	InteractionDelayMin time.Duration `mapstructure:"interaction_delay_min"`
	InteractionDelayMax time.Duration `mapstructure:"interaction_delay_max" validate:"gtefield=InteractionDelayMin"`

	// Directory of the progress files
	StorageDir string `mapstructure:"storage_dir" validate:"required"`

	// Directory of the compressed decision journal; empty disables it
	JournalDir string `mapstructure:"journal_dir"`

	// Random page visits between actions
	PlayerInteractions bool `mapstructure:"player_interactions"`

	// Directory of the per-account pid files
	PIDDir string `mapstructure:"pid_dir"`
}
