package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/logger"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunStore persists the last successful run of each job
type RunStore interface {
	LastRun(ctx context.Context, job string) (*time.Time, error)
	RecordRun(ctx context.Context, job string, at time.Time, runErr error) error
}

// Locker guards a job against concurrent runs across worker instances
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// JobFunc is the work a job performs
type JobFunc func(ctx context.Context) error

// Job is a named unit of work run on a cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      JobFunc
}

type registeredJob struct {
	Job
	schedule  cron.Schedule
	lastRunAt *time.Time
	lastError string
	running   bool
}

// Config holds the scheduler settings
type Config struct {
	PollInterval time.Duration
	JobTimeout   time.Duration
	LockTTL      time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		JobTimeout:   30 * time.Minute,
		LockTTL:      35 * time.Minute,
	}
}

// JobScheduler polls its jobs and runs those that are due.
// The last run is read from the RunStore on every tick, so restarts and
// multiple workers agree on what has already run.
type JobScheduler struct {
	config Config
	store  RunStore
	locker Locker
	clock  shared.Clock
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	jobs      map[string]*registeredJob
}

// NewJobScheduler creates a new JobScheduler. A nil locker runs jobs without locking.
func NewJobScheduler(config Config, store RunStore, locker Locker, clock shared.Clock, log *zap.Logger) *JobScheduler {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.LockTTL <= 0 {
		config.LockTTL = config.JobTimeout + 5*time.Minute
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JobScheduler{
		config: config,
		store:  store,
		locker: locker,
		clock:  clock,
		logger: log.Named("scheduler"),
		jobs:   make(map[string]*registeredJob),
	}
}

// Register adds a job. The schedule is validated up front.
func (s *JobScheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job requires a name and a run function")
	}
	schedule, err := ParseSchedule(job.Schedule)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, job.Name)
	}
	s.jobs[job.Name] = &registeredJob{Job: job, schedule: schedule}
	return nil
}

// Start starts the polling loop
func (s *JobScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Job scheduler started",
		zap.Strings("jobs", s.jobNames()),
		zap.Duration("poll_interval", s.config.PollInterval),
	)
	return nil
}

// Stop stops the loop and waits for running jobs to finish or ctx to expire
func (s *JobScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Job scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *JobScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	s.RunDue(ctx)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunDue(ctx)
		}
	}
}

// RunDue runs, one after the other, every job that is due now
func (s *JobScheduler) RunDue(ctx context.Context) {
	for _, name := range s.jobNames() {
		if ctx.Err() != nil {
			return
		}
		job := s.job(name)

		lastRun, err := s.store.LastRun(ctx, name)
		if err != nil {
			s.logger.Error("Failed to read last run", zap.String("job", name), zap.Error(err))
			continue
		}
		if !ShouldRun(job.schedule, lastRun, s.clock.Now()) {
			continue
		}
		if err := s.runJob(ctx, job); err != nil && !errors.Is(err, ErrJobLocked) {
			s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

// RunOnce runs a job immediately without the polling loop, for one-shot invocations
func (s *JobScheduler) RunOnce(ctx context.Context, name string) error {
	job := s.job(name)
	if job == nil {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.runJob(ctx, job)
}

func (s *JobScheduler) runJob(ctx context.Context, job *registeredJob) error {
	if s.locker != nil {
		key := "bury:job:" + job.Name
		token, ok, err := s.locker.TryLock(ctx, key, s.config.LockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire job lock: %w", err)
		}
		if !ok {
			s.logger.Debug("Job locked by another worker", zap.String("job", job.Name))
			return ErrJobLocked
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
				s.logger.Warn("Failed to release job lock", zap.String("job", job.Name), zap.Error(err))
			}
		}()
	}

	runID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "scheduler."+job.Name,
		telemetry.WithAttribute(telemetry.SpanAttrJob, job.Name),
		telemetry.WithAttribute("run_id", runID),
	)
	defer span.End()
	ctx, jobLogger := logger.WithJobRun(ctx, s.logger, job.Name, runID)

	startedAt := s.clock.Now()
	s.setRunning(job.Name, true)
	defer s.setRunning(job.Name, false)

	jobLogger.Info("Job started")
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	runErr := job.Run(runCtx)
	cancel()

	if runErr != nil {
		telemetry.RecordError(span, runErr)
		jobLogger.Error("Job finished with error", zap.Error(runErr), zap.Duration("duration", time.Since(startedAt)))
	} else {
		jobLogger.Info("Job finished", zap.Duration("duration", time.Since(startedAt)))
	}

	s.mu.Lock()
	if runErr == nil {
		s.jobs[job.Name].lastRunAt = &startedAt
		s.jobs[job.Name].lastError = ""
	} else {
		s.jobs[job.Name].lastError = runErr.Error()
	}
	s.mu.Unlock()

	if err := s.store.RecordRun(context.WithoutCancel(ctx), job.Name, startedAt, runErr); err != nil {
		jobLogger.Error("Failed to record job run", zap.Error(err))
		if runErr == nil {
			return fmt.Errorf("failed to record job run: %w", err)
		}
	}
	return runErr
}

// JobStatus describes a registered job
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRunAt time.Time  `json:"next_run_at"`
}

// GetStatus returns the status of every registered job, ordered by name.
// Jobs that have not run in this process report the last run from the RunStore.
func (s *JobScheduler) GetStatus(ctx context.Context) ([]JobStatus, error) {
	now := s.clock.Now()
	s.mu.Lock()
	statuses := make([]JobStatus, 0, len(s.jobs))
	schedules := make(map[string]cron.Schedule, len(s.jobs))
	for _, job := range s.jobs {
		statuses = append(statuses, JobStatus{
			Name:      job.Name,
			Schedule:  job.Schedule,
			Running:   job.running,
			LastRunAt: job.lastRunAt,
			LastError: job.lastError,
		})
		schedules[job.Name] = job.schedule
	}
	s.mu.Unlock()

	for i := range statuses {
		if statuses[i].LastRunAt == nil {
			lastRun, err := s.store.LastRun(ctx, statuses[i].Name)
			if err != nil {
				return nil, fmt.Errorf("failed to read last run of %s: %w", statuses[i].Name, err)
			}
			statuses[i].LastRunAt = lastRun
		}
		statuses[i].NextRunAt = NextRun(schedules[statuses[i].Name], statuses[i].LastRunAt, now)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

func (s *JobScheduler) job(name string) *registeredJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[name]
}

func (s *JobScheduler) jobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *JobScheduler) setRunning(name string, running bool) {
	s.mu.Lock()
	s.jobs[name].running = running
	s.mu.Unlock()
}
