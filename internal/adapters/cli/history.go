package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded queue events",
		Long: `List the most recent scheduler decisions, newest first.

Examples:
  pr0game-bot history
  pr0game-bot history --limit 50 --all
  pr0game-bot history notifications --level error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
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

			player := a.user()
			if all {
				player = ""
			}
			events, err := persistence.NewGormQueueEventRepository(db).ListRecent(cmd.Context(), player, limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No queue events recorded")
				return nil
			}
			renderHistory(os.Stdout, events)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events")
	cmd.Flags().BoolVar(&all, "all", false, "Include events of every player")

	cmd.AddCommand(newHistoryNotificationsCommand())

	return cmd
}

func newHistoryNotificationsCommand() *cobra.Command {
	var q notificationQuery

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List logged notifications of the user",
		Long: `List the notifications sent for the user, newest first, including the ones
the notifier failed to deliver.

Examples:
  pr0game-bot history notifications
  pr0game-bot history notifications --level error --since 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := q.validate(); err != nil {
				return err
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if a.user() == "" {
				return fmt.Errorf("notifications need a username (--user or game.username)")
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			repo := persistence.NewGormNotificationLogRepository(db, nil)
			entries, err := loadNotifications(cmd.Context(), repo, a.user(), q, time.Now())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No notifications logged")
				return nil
			}
			renderNotifications(os.Stdout, entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&q.limit, "limit", "n", 20, "Maximum number of notifications")
	cmd.Flags().StringVarP(&q.level, "level", "l", "", "Only this level (error, warn, info, buildingLevels, currentResources)")
	cmd.Flags().DurationVar(&q.since, "since", 0, "Only notifications newer than this, e.g. 24h (0 = all)")

	return cmd
}

// notificationLog reads logged notifications
type notificationLog interface {
	GetLogs(ctx context.Context, player string, limit int, level *string, since *time.Time) ([]persistence.NotificationLogEntry, error)
}

type notificationQuery struct {
	limit int
	level string
	since time.Duration
}

func (q notificationQuery) validate() error {
	if q.limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	if q.since < 0 {
		return fmt.Errorf("--since must not be negative")
	}
	switch q.level {
	case "", common.LevelError, common.LevelWarn, common.LevelInfo,
		common.LevelBuildingLevels, common.LevelCurrentResources:
		return nil
	default:
		return fmt.Errorf("unknown notification level %q", q.level)
	}
}

// loadNotifications applies the level and age filters of q relative to now
func loadNotifications(ctx context.Context, repo notificationLog, player string, q notificationQuery, now time.Time) ([]persistence.NotificationLogEntry, error) {
	var level *string
	if q.level != "" {
		level = &q.level
	}
	var since *time.Time
	if q.since > 0 {
		cutoff := now.Add(-q.since)
		since = &cutoff
	}

	entries, err := repo.GetLogs(ctx, player, q.limit, level, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return entries, nil
}

func renderNotifications(w io.Writer, entries []persistence.NotificationLogEntry) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Time", "Level", "Delivered", "Message"}),
	)
	for _, e := range entries {
		delivered := color.GreenString("yes")
		if !e.Delivered {
			delivered = color.RedString("no")
		}
		_ = table.Append([]string{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			levelLabel(e.Level),
			delivered,
			e.Message,
		})
	}
	_ = table.Render()
}

func levelLabel(level string) string {
	switch level {
	case common.LevelError:
		return color.RedString(level)
	case common.LevelWarn:
		return color.YellowString(level)
	default:
		return level
	}
}

func renderHistory(w io.Writer, events []common.QueueEvent) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Time", "Run", "Player", "Queue", "Event", "Step", "Wait", "Message"}),
	)
	for _, e := range events {
		step := ""
		if e.Name != "" {
			step = fmt.Sprintf("%d. %s %d", e.Order, e.Name, e.Level)
		}
		wait := ""
		if e.WaitSeconds > 0 {
			wait = strconv.Itoa(e.WaitSeconds) + "s"
		}
		_ = table.Append([]string{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.RunID,
			e.Player,
			e.Queue,
			eventLabel(e.Type),
			step,
			wait,
			e.Message,
		})
	}
	_ = table.Render()
}

func eventLabel(eventType string) string {
	switch eventType {
	case common.EventSubmitted:
		return color.GreenString(eventType)
	case common.EventFatal:
		return color.RedString(eventType)
	case common.EventWaiting, common.EventQueueBusy:
		return color.YellowString(eventType)
	default:
		return eventType
	}
}
