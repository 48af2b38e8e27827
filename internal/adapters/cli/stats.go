package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/application/stats"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

func newStatsCommand() *cobra.Command {
	var (
		categoryName string
		history      int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Read the player ranking and store a snapshot",
		Long: `Read the statistics page of the universe, print the ranking and store one
snapshot row per player. With --history, print stored snapshots of the
configured user instead of reading the game.

Examples:
  pr0game-bot stats
  pr0game-bot stats --category buildings
  pr0game-bot stats --category research --history 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := game.ParseStatisticsCategory(categoryName)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			repo := persistence.NewGormStatisticsRepository(db)
			ctx := cmd.Context()

			if history > 0 {
				if a.user() == "" {
					return fmt.Errorf("--history needs a username (--user or game.username)")
				}
				rows, err := repo.History(ctx, a.user(), category, history)
				if err != nil {
					return err
				}
				renderStatistics(os.Stdout, rows, "", true)
				return nil
			}

			client, err := a.gameClient(ctx, nil)
			if err != nil {
				return err
			}
			rows, err := stats.NewCollector(ctx, client, repo).Collect(ctx, category)
			if err != nil {
				return err
			}

			if len(rows) > 0 {
				color.New(color.FgCyan, color.Bold).Printf("\n🏆 %s ranking (server time %s)\n\n", category, rows[0].ServerDate)
			}
			renderStatistics(os.Stdout, rows, a.user(), false)

			if own, ok := stats.Find(rows, a.user()); ok {
				fmt.Printf("\n%s is rank %d with %d points\n", own.Name, own.Rank, own.Points)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryName, "category", "c", "total", "Ranking category: total, buildings or research")
	cmd.Flags().IntVar(&history, "history", 0, "Print the last N stored snapshots of the user instead of reading the game")

	return cmd
}

// renderStatistics prints ranking rows, highlighting the row of player
func renderStatistics(w io.Writer, rows []game.PlayerStatistics, player string, withCheckDate bool) {
	header := []string{"Rank", "Player", "Points"}
	if withCheckDate {
		header = append(header, "Server Date", "Checked At")
	}
	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	highlight := color.New(color.FgGreen, color.Bold).SprintFunc()

	for _, r := range rows {
		row := []string{strconv.Itoa(r.Rank), r.Name, strconv.Itoa(r.Points)}
		if withCheckDate {
			row = append(row, r.ServerDate, r.CheckedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if player != "" && r.Name == player {
			for i := range row {
				row[i] = highlight(row[i])
			}
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}
