package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	collectionapp "github.com/alanminana/TheBuryProject-sub001/internal/application/collection"
	creditapp "github.com/alanminana/TheBuryProject-sub001/internal/application/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/cache"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/config"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/event"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/logger"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/notification"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/scheduler"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	jobMoraProcessing  = "mora_processing"
	jobPromiseReminder = "promise_reminders"
)

func main() {
	var opts options
	flag.BoolVar(&opts.autoMigrate, "automigrate", false, "Create or update database tables before starting")
	flag.StringVar(&opts.runJob, "run", "", "Run a single job (mora_processing, promise_reminders) once and exit")
	flag.StringVar(&opts.availabilityFor, "availability", "", "Print the credit availability of a customer ID and exit")
	flag.StringVar(&opts.moraFor, "mora", "", "Print the late fees of a credit ID as of today and exit")
	flag.StringVar(&opts.historyFor, "history", "", "Print the contact history of a collection alert ID and exit")
	flag.BoolVar(&opts.status, "status", false, "Print the status of every scheduled job and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Worker failed: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	autoMigrate     bool
	runJob          string
	availabilityFor string
	moraFor         string
	historyFor      string
	status          bool
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	logCfg := logger.ConfigForEnvironment(cfg.App.Env)
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output

	bootLog, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Telemetry providers
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		return err
	}

	log, err := logger.New(logCfg, logsProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, shutdown := range []func(context.Context) error{
			meterProvider.Shutdown, tracerProvider.Shutdown, logsProvider.Shutdown,
		} {
			if err := shutdown(shutdownCtx); err != nil {
				bootLog.Error("Telemetry shutdown failed", zap.Error(err))
			}
		}
	}()

	collectionMetrics, err := telemetry.NewCollectionMetrics(meterProvider.Meter("collection"))
	if err != nil {
		return fmt.Errorf("failed to register collection metrics: %w", err)
	}

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := tracing.RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		PoolStatsInterval:  cfg.Telemetry.DBPoolStatsInterval,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	if opts.autoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		log.Info("Database schema migrated")
	}

	// Repositories
	creditRepo := persistence.NewGormCreditRepository(db.DB)
	moraConfigRepo := persistence.NewGormMoraConfigurationRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	historyRepo := persistence.NewGormContactHistoryRepository(db.DB)
	jobRunRepo := persistence.NewGormJobRunRepository(db.DB)
	riskTierRepo := persistence.NewGormRiskTierLimitRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)
	clock := shared.SystemClock{}

	// One-shot queries
	switch {
	case opts.availabilityFor != "":
		customerID, err := uuid.Parse(opts.availabilityFor)
		if err != nil {
			return fmt.Errorf("invalid customer ID: %w", err)
		}
		svc := creditapp.NewAvailabilityService(customerRepo, riskTierRepo, creditRepo, log)
		availability, err := svc.ComputeAvailability(ctx, customerID)
		if err != nil {
			return err
		}
		return printJSON(availability)
	case opts.moraFor != "":
		creditID, err := uuid.Parse(opts.moraFor)
		if err != nil {
			return fmt.Errorf("invalid credit ID: %w", err)
		}
		svc := creditapp.NewMoraService(creditRepo, moraConfigRepo, mora.NewEngine(clock), log)
		result, err := svc.CalculateForCredit(ctx, creditID, nil)
		if err != nil {
			return err
		}
		return printJSON(result)
	case opts.historyFor != "":
		alertID, err := uuid.Parse(opts.historyFor)
		if err != nil {
			return fmt.Errorf("invalid alert ID: %w", err)
		}
		tracker := collectionapp.NewPromiseTracker(alertRepo, historyRepo, creditRepo, txManager, log)
		history, err := tracker.ContactHistory(ctx, alertID)
		if err != nil {
			return err
		}
		return printJSON(history)
	}

	// Event bus and handlers
	notifier, err := notification.NewLogNotifier(cfg.Collections.NotificationLocale, log)
	if err != nil {
		return err
	}
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(collectionapp.NewPromiseDueSoonHandler(notifier, log))
	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	// Application services
	tracker := collectionapp.NewPromiseTracker(alertRepo, historyRepo, creditRepo, txManager, log,
		collectionapp.WithEventPublisher(eventBus),
		collectionapp.WithClock(clock),
		collectionapp.WithMetrics(collectionMetrics),
	)
	moraService := collectionapp.NewMoraProcessingService(collectionapp.MoraProcessingConfig{
		CreditRepo:   creditRepo,
		ConfigRepo:   moraConfigRepo,
		AlertRepo:    alertRepo,
		CustomerRepo: customerRepo,
		Publisher:    eventBus,
		Clock:        clock,
		Metrics:      collectionMetrics,
		PageSize:     cfg.Collections.PageSize,
		Logger:       log,
	})
	promiseCfg := collection.PromiseConfig{
		ToleranceDays:    cfg.Collections.PromiseToleranceDays,
		ReminderLeadDays: cfg.Collections.ReminderLeadDays,
	}

	// Scheduler
	lock, err := cache.NewJobLockFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateLock()
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Close()
	}()

	jobScheduler := scheduler.NewJobScheduler(scheduler.Config{
		PollInterval: cfg.Scheduler.PollInterval,
		JobTimeout:   cfg.Scheduler.JobTimeout,
		LockTTL:      cfg.Scheduler.LockTTL,
	}, jobRunRepo, lock, clock, log)

	jobs := []scheduler.Job{
		{
			Name:     jobMoraProcessing,
			Schedule: cfg.Scheduler.MoraCronSchedule,
			Run: func(ctx context.Context) error {
				summary, err := moraService.Run(ctx, nil)
				if err == nil && summary.Failures > 0 {
					logger.Enrich(ctx, log).Warn("Mora processing finished with failures",
						zap.Int("failures", summary.Failures))
				}
				return err
			},
		},
		{
			Name:     jobPromiseReminder,
			Schedule: cfg.Scheduler.ReminderCronSchedule,
			Run: func(ctx context.Context) error {
				_, err := tracker.PublishReminders(ctx, promiseCfg, nil)
				return err
			},
		},
	}
	for _, job := range jobs {
		if err := jobScheduler.Register(job); err != nil {
			return err
		}
	}

	if opts.status {
		status, err := jobScheduler.GetStatus(ctx)
		if err != nil {
			return err
		}
		return printJSON(status)
	}
	if opts.runJob != "" {
		return jobScheduler.RunOnce(ctx, opts.runJob)
	}

	if !cfg.Scheduler.Enabled {
		log.Warn("Scheduler disabled, nothing to do")
		return nil
	}
	if err := jobScheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutting down worker...")
	stopScheduler(jobScheduler, log)
	log.Info("Worker exited")
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stopScheduler(s *scheduler.JobScheduler, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		log.Error("Scheduler forced to shutdown", zap.Error(err))
	}
}
