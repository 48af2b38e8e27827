package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// NewProgressCommand creates the progress command with subcommands
func NewProgressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect or rewrite persisted queue progress",
	}

	cmd.AddCommand(newProgressStatusCommand())
	cmd.AddCommand(newProgressResetCommand())
	cmd.AddCommand(newProgressInitResearchCommand())

	return cmd
}

func newProgressStatusCommand() *cobra.Command {
	var queueName string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show persisted progress merged onto the static plan",
		Long: `Show which steps of a queue have been queued. The next step to submit is highlighted.

Examples:
  pr0game-bot progress status
  pr0game-bot progress status --queue research --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := parseQueue(queueName)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.progressStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			steps, err := store.Load(cmd.Context(), queue, staticPlan(queue))
			if err != nil {
				return fmt.Errorf("failed to load %s progress: %w", queue, err)
			}

			fmt.Printf("\nProgress file: %s\n\n", store.Path(queue))
			renderProgress(os.Stdout, steps)
			return nil
		},
	}

	cmd.Flags().StringVarP(&queueName, "queue", "q", "buildings", "Queue: buildings or research")

	return cmd
}

// renderProgress prints the merged plan with the next unqueued step highlighted
func renderProgress(w io.Writer, steps plan.Plan) {
	next, _, err := steps.Next()
	if err != nil {
		next = -1
	}
	highlight := color.New(color.FgYellow, color.Bold).SprintFunc()

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Kind", "Step", "Queued", "Queued At"}),
	)
	for i, s := range steps {
		queued := "no"
		if s.HasBeenQueued {
			queued = "yes"
		}
		queuedAt := ""
		if s.QueuedAt != nil {
			queuedAt = s.QueuedAt.Local().Format("2006-01-02 15:04:05")
		}
		row := []string{strconv.Itoa(s.Order), s.Kind.String(), s.Label(), queued, queuedAt}
		if i == next {
			for j := range row {
				row[j] = highlight(row[j])
			}
			row[3] = highlight("next")
		}
		_ = table.Append(row)
	}
	_ = table.Render()

	done := steps.QueuedCount()
	summary := color.New(color.FgGreen)
	if done < len(steps) {
		summary = color.New(color.FgCyan)
	}
	summary.Fprintf(w, "\n%d/%d queued\n", done, len(steps))
}

// resetProgress rewrites the progress file of a queue from its static plan
func resetProgress(cmd *cobra.Command, queue game.QueueKind) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	store, err := a.progressStore(ctx, nil)
	if err != nil {
		return err
	}
	if err := store.Reset(ctx, queue, staticPlan(queue)); err != nil {
		return fmt.Errorf("failed to reset %s progress: %w", queue, err)
	}

	color.New(color.FgGreen).Printf("✓ %s progress reset: %s\n", queue, store.Path(queue))
	return nil
}

func newProgressResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Rewrite the building progress from the static build order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetProgress(cmd, game.BuildingQueue)
		},
	}
}

func newProgressInitResearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-research",
		Short: "Rewrite the research progress from the static research order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetProgress(cmd, game.ResearchQueue)
		},
	}
}
