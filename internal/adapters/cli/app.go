package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/pr0game-go/internal/adapters/logging"
	"github.com/andrescamacho/pr0game-go/internal/adapters/metrics"
	"github.com/andrescamacho/pr0game-go/internal/adapters/notify"
	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/adapters/pr0game"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/infrastructure/config"
	"github.com/andrescamacho/pr0game-go/internal/infrastructure/database"
)

// app holds the configuration and the collaborators built from it for one
// command invocation
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	closers []func() error
}

// loadApp loads the configuration, applies the global flags and builds the
// logger. The logger is put on the command context, where the scheduler and
// its collaborators pick it up.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if username != "" {
		cfg.Game.Username = username
	}
	if verbose {
		cfg.Logging.Level = common.LevelDebug
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Dir:    cfg.Logging.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(common.WithLogger(ctx, logger))

	a := &app{cfg: cfg, logger: logger}
	a.onClose(logger.Close)
	return a, nil
}

func (a *app) user() string {
	return a.cfg.Game.Username
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Log(common.LevelWarn, fmt.Sprintf("cleanup failed: %v", err), nil)
		}
	}
}

func (a *app) openDatabase() (*gorm.DB, error) {
	db, err := database.NewConnection(&a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.onClose(func() error { return database.Close(db) })

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func (a *app) progressStore(ctx context.Context, failures persistence.PersistenceMetrics) (*persistence.ProgressStore, error) {
	store, err := persistence.NewProgressStore(ctx, a.cfg.Scheduler.StorageDir, a.user(), failures)
	if err != nil {
		return nil, err
	}
	a.onClose(store.Close)
	return store, nil
}

func (a *app) gameClient(ctx context.Context, clientMetrics pr0game.ClientMetrics) (*pr0game.Client, error) {
	g := a.cfg.Game
	return pr0game.NewClient(ctx, pr0game.Config{
		BaseURL:           g.BaseURL,
		UniPath:           g.UniPath,
		Username:          g.Username,
		SessionCookieName: g.SessionCookieName,
		SessionCookie:     g.SessionCookie,
		ActionTimeout:     g.ActionTimeout,
		RequestsPerSecond: g.RateLimit.Requests,
		Burst:             g.RateLimit.Burst,
		MaxRetries:        g.Retry.MaxAttempts,
		BackoffBase:       g.Retry.BackoffBase,
		BreakerFailures:   g.CircuitBreaker.MaxFailures,
		BreakerTimeout:    g.CircuitBreaker.Timeout,
	}, nil, clientMetrics)
}

// notifier returns the Telegram sink when enabled, with every notification
// recorded in the notification log
func (a *app) notifier(db *gorm.DB) common.Notifier {
	var sinks []common.Notifier
	if tg := a.cfg.Notifier.Telegram; tg.Enabled {
		sinks = append(sinks, notify.NewTelegramNotifier(notify.TelegramConfig{
			BaseURL:       tg.BaseURL,
			Token:         tg.Token,
			ChatID:        tg.ChatID,
			RatePerSecond: tg.RatePerSecond,
		}))
	}
	fanout := notify.NewFanout(sinks...)
	return notify.NewRecording(fanout, persistence.NewGormNotificationLogRepository(db, nil), a.user())
}

// registerer is implemented by every metrics collector
type registerer interface {
	Register() error
}

// startMetrics registers the collectors and serves them when metrics are
// enabled. The server stops when ctx is done.
func (a *app) startMetrics(ctx context.Context, collectors ...registerer) error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()
	for _, c := range collectors {
		if err := c.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, metrics.Handler())
	srv := &http.Server{
		Addr:              net.JoinHostPort(a.cfg.Metrics.Host, strconv.Itoa(a.cfg.Metrics.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Log(common.LevelWarn, fmt.Sprintf("metrics server stopped: %v", err), nil)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	a.logger.Log(common.LevelVerbose, fmt.Sprintf("metrics served at http://%s%s", srv.Addr, a.cfg.Metrics.Path), nil)
	return nil
}
