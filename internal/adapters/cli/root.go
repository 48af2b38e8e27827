package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	username   string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pr0game-bot",
		Short: "pr0game build queue scheduler",
		Long: `pr0game-bot works through a fixed build order on one planet, detouring
into research at checkpoints, and waits for resources in between.

Examples:
  pr0game-bot run
  pr0game-bot run --user alice --max-iterations 10
  pr0game-bot serve
  pr0game-bot plan show --queue research
  pr0game-bot progress status
  pr0game-bot history --limit 20
  pr0game-bot history notifications --level error
  pr0game-bot stats --category research`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs or /etc/pr0game)")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "",
		"Account name (overrides game.username)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log at debug level")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewProgressCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
