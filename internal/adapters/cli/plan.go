package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect the static build and research orders",
	}

	cmd.AddCommand(newPlanShowCommand())
	cmd.AddCommand(newPlanExportCommand())

	return cmd
}

// parseQueue maps the --queue flag to a queue kind
func parseQueue(name string) (game.QueueKind, error) {
	switch name {
	case "buildings", "building", "":
		return game.BuildingQueue, nil
	case "research":
		return game.ResearchQueue, nil
	default:
		return 0, fmt.Errorf("unknown queue %q (want buildings or research)", name)
	}
}

// staticPlan returns the built-in plan of a queue
func staticPlan(queue game.QueueKind) plan.Plan {
	if queue == game.ResearchQueue {
		return plan.DefaultResearchOrder()
	}
	return plan.DefaultBuildOrder()
}

func newPlanShowCommand() *cobra.Command {
	var queueName string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the static plan of a queue",
		Long: `Show every step of the static build or research order with its cost.

Examples:
  pr0game-bot plan show
  pr0game-bot plan show --queue research`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := parseQueue(queueName)
			if err != nil {
				return err
			}
			steps := staticPlan(queue)

			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Printf("\n📋 %s plan (%d steps)\n\n", queue, len(steps))
			renderPlan(os.Stdout, steps)
			return nil
		},
	}

	cmd.Flags().StringVarP(&queueName, "queue", "q", "buildings", "Queue: buildings or research")

	return cmd
}

// renderPlan prints the steps of a plan as a table
func renderPlan(w io.Writer, steps plan.Plan) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Kind", "Name", "Level", "Met", "Kris", "Deut", "Energy", "Lab"}),
	)
	for _, s := range steps {
		lab := ""
		if s.MinResearchLabLevel > 0 {
			lab = strconv.Itoa(s.MinResearchLabLevel)
		}
		energy := ""
		switch {
		case s.Cost.Energy > 0:
			energy = strconv.Itoa(s.Cost.Energy)
		case s.Cost.EnergyProduction > 0:
			energy = "+" + strconv.Itoa(s.Cost.EnergyProduction)
		}
		_ = table.Append([]string{
			strconv.Itoa(s.Order),
			kindLabel(s.Kind),
			s.Name,
			strconv.Itoa(s.Level),
			strconv.Itoa(s.Cost.Met),
			strconv.Itoa(s.Cost.Kris),
			strconv.Itoa(s.Cost.Deut),
			energy,
			lab,
		})
	}
	_ = table.Render()
}

func kindLabel(kind plan.Kind) string {
	switch kind {
	case plan.KindResearch:
		return "🧬 Research"
	case plan.KindResearchCheckpoint:
		return "🧬 Checkpoint"
	default:
		return "🏗 Building"
	}
}

// exportedStep is the document form of a step
type exportedStep struct {
	Order               int    `json:"order" yaml:"order"`
	Kind                string `json:"kind" yaml:"kind"`
	Name                string `json:"name" yaml:"name"`
	Level               int    `json:"level" yaml:"level"`
	Met                 int    `json:"met" yaml:"met"`
	Kris                int    `json:"kris" yaml:"kris"`
	Deut                int    `json:"deut" yaml:"deut"`
	Energy              int    `json:"energy,omitempty" yaml:"energy,omitempty"`
	EnergyProduction    int    `json:"energyProduction,omitempty" yaml:"energyProduction,omitempty"`
	MinResearchLabLevel int    `json:"minResearchLabLevel,omitempty" yaml:"minResearchLabLevel,omitempty"`
}

func exportSteps(steps plan.Plan) []exportedStep {
	out := make([]exportedStep, len(steps))
	for i, s := range steps {
		out[i] = exportedStep{
			Order:               s.Order,
			Kind:                s.Kind.String(),
			Name:                s.Name,
			Level:               s.Level,
			Met:                 s.Cost.Met,
			Kris:                s.Cost.Kris,
			Deut:                s.Cost.Deut,
			Energy:              s.Cost.Energy,
			EnergyProduction:    s.Cost.EnergyProduction,
			MinResearchLabLevel: s.MinResearchLabLevel,
		}
	}
	return out
}

// writePlan encodes a plan as json or yaml
func writePlan(w io.Writer, steps plan.Plan, format string) error {
	doc := exportSteps(steps)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func newPlanExportCommand() *cobra.Command {
	var (
		queueName string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the static plan of a queue as json or yaml",
		Long: `Export the static build or research order.

Examples:
  pr0game-bot plan export --format yaml
  pr0game-bot plan export --queue research --format json --output research.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := parseQueue(queueName)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return writePlan(w, staticPlan(queue), format)
		},
	}

	cmd.Flags().StringVarP(&queueName, "queue", "q", "buildings", "Queue: buildings or research")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}
