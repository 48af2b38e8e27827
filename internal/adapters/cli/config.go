package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect pr0game bot configuration settings.

Configuration is loaded from multiple sources with priority:
1. Legacy environment variables (CLI_PROGAME_USERNAME, PW_SECRET, TELEGRAM_BOT_TOKEN, ...)
2. Environment variables (PR0_* prefix)
3. Config file (config.yaml)
4. Default values

Examples:
  pr0game-bot config show
  pr0game-bot config show --config ./config.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the resolved configuration. Secrets are masked.

Example:
  pr0game-bot config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}
			if username != "" {
				cfg.Game.Username = username
			}
			printConfig(os.Stdout, cfg.Masked())
			return nil
		},
	}

	return cmd
}

func printConfig(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w, "pr0game Bot Configuration")
	fmt.Fprintln(w, "=========================")

	fmt.Fprintln(w, "\nGame:")
	fmt.Fprintf(w, "  Base URL:         %s\n", cfg.Game.BaseURL)
	fmt.Fprintf(w, "  Universe Path:    %s\n", cfg.Game.UniPath)
	fmt.Fprintf(w, "  Username:         %s\n", orUnset(cfg.Game.Username))
	fmt.Fprintf(w, "  Session Cookie:   %s=%s\n", cfg.Game.SessionCookieName, orUnset(cfg.Game.SessionCookie))
	fmt.Fprintf(w, "  Action Timeout:   %s\n", cfg.Game.ActionTimeout)
	fmt.Fprintf(w, "  Rate Limit:       %d req/s (burst: %d)\n",
		cfg.Game.RateLimit.Requests, cfg.Game.RateLimit.Burst)
	fmt.Fprintf(w, "  Max Retries:      %d\n", cfg.Game.Retry.MaxAttempts)

	fmt.Fprintln(w, "\nScheduler:")
	fmt.Fprintf(w, "  Energy Deficit:   %d\n", cfg.Scheduler.EnergyDeficitAllowed)
	fmt.Fprintf(w, "  Recheck:          %s ± %s\n", cfg.Scheduler.ResourceRecheckInterval, cfg.Scheduler.ResourceRecheckVariance)
	fmt.Fprintf(w, "  Wait Buffer:      %s\n", cfg.Scheduler.WaitBuffer)
	fmt.Fprintf(w, "  Interactions:     %t (%s - %s)\n", cfg.Scheduler.PlayerInteractions,
		cfg.Scheduler.InteractionDelayMin, cfg.Scheduler.InteractionDelayMax)
	fmt.Fprintf(w, "  Storage Dir:      %s\n", cfg.Scheduler.StorageDir)
	fmt.Fprintf(w, "  Journal Dir:      %s\n", orUnset(cfg.Scheduler.JournalDir))

	fmt.Fprintln(w, "\nDatabase:")
	fmt.Fprintf(w, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(w, "  URL:              %s\n", cfg.Database.URL)
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(w, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(w, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(w, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(w, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(w, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(w, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(w, "\nLogging:")
	fmt.Fprintf(w, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Output:           %s\n", cfg.Logging.Output)
	if cfg.Logging.Dir != "" {
		fmt.Fprintf(w, "  Dir:              %s\n", cfg.Logging.Dir)
	}

	fmt.Fprintln(w, "\nMetrics:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(w, "  Listen:           %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	fmt.Fprintln(w, "\nTelegram:")
	fmt.Fprintf(w, "  Enabled:          %t\n", cfg.Notifier.Telegram.Enabled)
	fmt.Fprintf(w, "  Token:            %s\n", orUnset(cfg.Notifier.Telegram.Token))
	fmt.Fprintf(w, "  Chat ID:          %s\n", orUnset(cfg.Notifier.Telegram.ChatID))

	fmt.Fprintln(w, "\nTrigger:")
	fmt.Fprintf(w, "  Address:          %s\n", cfg.Trigger.Address)
	fmt.Fprintf(w, "  Secret:           %s\n", orUnset(cfg.Trigger.Secret))
	command := "(this binary) run"
	if len(cfg.Trigger.Command) > 0 {
		command = strings.Join(cfg.Trigger.Command, " ")
	}
	fmt.Fprintf(w, "  Command:          %s\n", command)
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
