package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/adapters/local"
	redisadapter "github.com/SscSPs/teller_payroll_app/internal/adapters/redis"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/teller_payroll_app/internal/core/services"
	"github.com/SscSPs/teller_payroll_app/internal/platform/config"
	"github.com/SscSPs/teller_payroll_app/internal/platform/logging"
	"github.com/SscSPs/teller_payroll_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/teller_payroll_app/pkg/database"
	"github.com/robfig/cron/v3"
)

const workerActor = "system:payroll_worker"

const (
	jobSyncPayroll  = "sync_payroll"
	jobCloseCapital = "close_stale_capital"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(args []string) int {
	fs := flag.NewFlagSet("payroll_worker", flag.ContinueOnError)
	once := fs.String("once", "", "run a single job ("+jobSyncPayroll+" or "+jobCloseCapital+") and exit")
	dateStr := fs.String("date", "", "business day for -once "+jobSyncPayroll+" (YYYY-MM-DD, default yesterday)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}

	// Initialize structured logger
	logger := logging.NewLogger(os.Stdout, cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		return 1
	}

	dbPool, err := database.NewPgxPool(ctx, database.PoolOptions{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: cfg.DBConnTimeout,
		Ping:           cfg.EnableDBCheck,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return 1
	}
	defer database.ClosePgxPool(dbPool, logger)

	var (
		locker portssvc.TellerLocker   = local.NewKeyedMutex()
		events portssvc.EventPublisher = local.LogPublisher{}
	)
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, database.RedisOptions{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			return 1
		}
		defer database.CloseRedisClient(client)
		locker = redisadapter.NewTellerLock(client, cfg.TellerLockTTL)
		events = redisadapter.NewEventPublisher(client, cfg.EventsChannel)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	svc := services.NewServiceContainer(cfg, repos, locker, events)
	w := &worker{svc: svc, loc: cfg.Location, logger: logger}

	if *once != "" {
		if err := w.runOnce(ctx, *once, *dateStr); err != nil {
			logger.Error("Job failed", slog.String("job", *once), slog.String("error", err.Error()))
			return 1
		}
		return 0
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(cfg.PayrollSyncSchedule, func() { w.syncYesterday(ctx) }); err != nil {
		logger.Error("Invalid payroll sync schedule", slog.String("error", err.Error()))
		return 1
	}
	if _, err := c.AddFunc(cfg.CapitalCloseSchedule, func() { w.closeStaleCapital(ctx) }); err != nil {
		logger.Error("Invalid capital close schedule", slog.String("error", err.Error()))
		return 1
	}

	c.Start()
	logger.Info("Payroll worker started",
		slog.String("sync_schedule", cfg.PayrollSyncSchedule),
		slog.String("capital_close_schedule", cfg.CapitalCloseSchedule),
		slog.String("timezone", cfg.Location.String()),
		slog.Bool("redis", cfg.RedisEnabled()))

	<-ctx.Done()
	logger.Info("Shutting down payroll worker...")
	<-c.Stop().Done()
	logger.Info("Payroll worker stopped.")
	return 0
}

type worker struct {
	svc    *portssvc.ServiceContainer
	loc    *time.Location
	logger *slog.Logger
}

func (w *worker) today() time.Time {
	now := time.Now().In(w.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.loc)
}

func (w *worker) runOnce(ctx context.Context, job, dateStr string) error {
	switch job {
	case jobSyncPayroll:
		day := w.today().AddDate(0, 0, -1)
		if dateStr != "" {
			parsed, err := time.ParseInLocation(time.DateOnly, dateStr, w.loc)
			if err != nil {
				return fmt.Errorf("invalid -date: %w", err)
			}
			day = parsed
		}
		return w.syncDay(ctx, day)
	case jobCloseCapital:
		return w.closeBefore(ctx, w.today())
	}
	return fmt.Errorf("unknown job %q", job)
}

func (w *worker) syncYesterday(ctx context.Context) {
	if err := w.syncDay(ctx, w.today().AddDate(0, 0, -1)); err != nil {
		w.logger.Error("Scheduled payroll sync failed", slog.String("error", err.Error()))
	}
}

func (w *worker) syncDay(ctx context.Context, day time.Time) error {
	ctx, logger := logging.WithJobRun(ctx, w.logger, jobSyncPayroll)
	start := time.Now()
	summary, err := w.svc.Payroll.SyncAllForDate(ctx, day, workerActor)
	if err != nil {
		return err
	}
	logger.Info("Job finished",
		slog.Int("synced", summary.Synced),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (w *worker) closeStaleCapital(ctx context.Context) {
	if err := w.closeBefore(ctx, w.today()); err != nil {
		w.logger.Error("Scheduled capital close failed", slog.String("error", err.Error()))
	}
}

func (w *worker) closeBefore(ctx context.Context, cutoff time.Time) error {
	ctx, logger := logging.WithJobRun(ctx, w.logger, jobCloseCapital)
	start := time.Now()
	closed, err := w.svc.Capital.CloseStaleCapital(ctx, cutoff, workerActor)
	logger.Info("Job finished",
		slog.Int("closed", closed),
		slog.Duration("duration", time.Since(start)))
	return err
}
