package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/adapters/metrics"
	"github.com/andrescamacho/pr0game-go/internal/adapters/trigger"
	"github.com/andrescamacho/pr0game-go/internal/infrastructure/config"
)

// newServeCommand creates the serve command
func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger that starts scheduler runs",
		Long: `Serve the HTTP trigger. Each GET /scheduler/start/<secret> spawns one
scheduler run and answers with its exit code once it exits. Only one run is
admitted at a time. GET /scheduler/stream/<secret> upgrades to a websocket
that streams the run's output.

Examples:
  pr0game-bot serve
  PW_SECRET=... pr0game-bot serve --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := config.ValidateTrigger(&a.cfg.Trigger); err != nil {
				return err
			}
			command, err := triggerCommand(a.cfg.Trigger.Command)
			if err != nil {
				return err
			}

			triggerMetrics := metrics.NewTriggerMetricsCollector()
			var metricsHandler http.Handler
			if a.cfg.Metrics.Enabled {
				metrics.InitRegistry()
				if err := triggerMetrics.Register(); err != nil {
					return fmt.Errorf("failed to register metrics: %w", err)
				}
				metricsHandler = metrics.Handler()
			}

			srv := trigger.NewServer(trigger.Options{
				Address:        a.cfg.Trigger.Address,
				Secret:         a.cfg.Trigger.Secret,
				StreamBuffer:   a.cfg.Trigger.StreamBuffer,
				MetricsHandler: metricsHandler,
			}, &trigger.CommandRunner{Command: command}, a.logger, triggerMetrics, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	return cmd
}

// triggerCommand returns the configured command, or this binary's run
// command with the global flags passed through
func triggerCommand(configured []string) ([]string, error) {
	if len(configured) > 0 {
		return configured, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	command := []string{exe, "run"}
	if configPath != "" {
		command = append(command, "--config", configPath)
	}
	if username != "" {
		command = append(command, "--user", username)
	}
	if verbose {
		command = append(command, "--verbose")
	}
	return command, nil
}
