package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/pr0game-go/internal/adapters/journal"
	"github.com/andrescamacho/pr0game-go/internal/adapters/metrics"
	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/application/scheduler"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/pr0game-go/pkg/utils"
)

// newRunCommand creates the run command
func newRunCommand() *cobra.Command {
	var (
		maxIterations  int
		noInteractions bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the build queue scheduler",
		Long: `Run the build queue scheduler for one account until the build order is
exhausted, a fatal condition stops it, or it is interrupted.

Progress is kept in the storage directory and survives restarts. Only one
scheduler may run per account.

Examples:
  pr0game-bot run
  pr0game-bot run --user alice
  pr0game-bot run --max-iterations 5 --no-interactions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if noInteractions {
				a.cfg.Scheduler.PlayerInteractions = false
			}
			return runScheduler(cmd.Context(), a, maxIterations)
		},
	}

	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Stop after this many decisions (0 = until done)")
	cmd.Flags().BoolVar(&noInteractions, "no-interactions", false, "Skip random page visits between actions")

	return cmd
}

func runScheduler(ctx context.Context, a *app, maxIterations int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock := pidfile.ForAccount(a.cfg.Scheduler.PIDDir, a.user())
	if err := lock.Acquire(); err != nil {
		return err
	}
	a.onClose(lock.Release)

	schedulerMetrics := metrics.NewSchedulerMetricsCollector()
	clientMetrics := metrics.NewClientMetricsCollector()
	if err := a.startMetrics(ctx, schedulerMetrics, clientMetrics); err != nil {
		return err
	}

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	notifier := a.notifier(db)

	client, err := a.gameClient(ctx, clientMetrics)
	if err != nil {
		return err
	}
	if err := client.VerifySession(ctx); err != nil {
		message := fmt.Sprintf("Session check failed for %q: %v", a.user(), err)
		a.logger.Log(common.LevelError, message, nil)
		_ = notifier.Notify(ctx, common.LevelError, message)
		return err
	}

	store, err := a.progressStore(ctx, schedulerMetrics)
	if err != nil {
		return err
	}

	var decisions common.DecisionJournal
	if dir := a.cfg.Scheduler.JournalDir; dir != "" {
		w := journal.NewDecisionJournal(dir, nil)
		a.onClose(w.Close)
		decisions = w
	}

	runID := utils.GenerateRunID(a.user())
	sc := a.cfg.Scheduler
	sched := scheduler.NewScheduler(ctx, scheduler.Config{
		EnergyDeficitAllowed: sc.EnergyDeficitAllowed,
		WaitBuffer:           sc.WaitBuffer,
		RecheckInterval:      sc.ResourceRecheckInterval,
		RecheckVariance:      sc.ResourceRecheckVariance,
		InteractionDelayMin:  sc.InteractionDelayMin,
		InteractionDelayMax:  sc.InteractionDelayMax,
		PlayerInteractions:   sc.PlayerInteractions,
		MaxIterations:        maxIterations,
	}, scheduler.Dependencies{
		Live:     client,
		Progress: store,
		Notifier: notifier,
		Events:   persistence.NewGormQueueEventRepository(db),
		Journal:  decisions,
		Metrics:  schedulerMetrics,
	}, runID, a.user())

	a.logger.Log(common.LevelInfo, fmt.Sprintf("Starting scheduler run %s", runID), map[string]interface{}{
		"progress": store.Path(game.BuildingQueue),
	})
	err = sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.logger.Log(common.LevelWarn, "Scheduler interrupted", nil)
		return nil
	}
	return err
}
