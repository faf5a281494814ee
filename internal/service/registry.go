package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// cronParser accepts standard five-field expressions plus an optional
// seconds field and @-descriptors. All schedules evaluate in UTC.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCron reports whether expr parses under the scheduler grammar.
func ValidateCron(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return apperrors.ValidationField("cron_expression",
			fmt.Sprintf("invalid cron expression %q: %v", expr, err))
	}
	return nil
}

// registeredJob is the in-memory registry entry plus its live scheduler
// state. schedule is nil when the job's cron expression failed to parse:
// such jobs register but never fire until the expression is corrected.
type registeredJob struct {
	def      model.JobDefinition
	schedule cron.Schedule
	entryID  cron.EntryID
	hasEntry bool
	runMu    sync.Mutex
	running  atomic.Bool
}

// RegistryService owns the in-memory job registry and the cron scheduler
// built on top of it. Durable per-job overrides live in job_schedules;
// the registry reconciles against them on Initialize.
type RegistryService struct {
	mu          sync.RWMutex
	jobs        map[string]*registeredJob
	order       []string
	cron        *cron.Cron
	started     bool
	initialized bool
	executor    *ExecutorService
	schedules   core.JobScheduleRepository
	timeProv    data.TimeProvider
	logger      *slog.Logger
}

// RegistryServiceOptions holds the dependencies for creating a RegistryService.
type RegistryServiceOptions struct {
	Executor     *ExecutorService
	Schedules    core.JobScheduleRepository
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
}

// NewRegistryService creates a new RegistryService with the given dependencies.
func NewRegistryService(opts RegistryServiceOptions) *RegistryService {
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RegistryService{
		jobs:      make(map[string]*registeredJob),
		cron:      cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser)),
		executor:  opts.Executor,
		schedules: opts.Schedules,
		timeProv:  opts.TimeProvider,
		logger:    opts.Logger.With("component", "registry"),
	}
}

// RegisterJob adds a definition to the registry. Re-registering a name
// replaces the previous definition. An invalid cron expression does not
// reject the registration; the job is held unscheduled and a warning is
// logged so the expression can be fixed at runtime.
func (s *RegistryService) RegisterJob(def model.JobDefinition) error {
	if err := def.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	var schedule cron.Schedule
	if parsed, err := cronParser.Parse(def.CronExpression); err != nil {
		s.logger.Warn("job registered with invalid cron expression; it will not be scheduled",
			"job_name", def.Name, "cron_expression", def.CronExpression, "err", err)
	} else {
		schedule = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[def.Name]; ok {
		if existing.hasEntry {
			s.cron.Remove(existing.entryID)
		}
	} else {
		s.order = append(s.order, def.Name)
	}
	s.jobs[def.Name] = &registeredJob{def: def, schedule: schedule}

	if s.initialized || s.started {
		s.scheduleLocked(s.jobs[def.Name])
	}
	return nil
}

// Initialize reconciles the registry against the durable job_schedules
// table: each registration is upserted, and persisted overrides (enabled
// flag, cron expression, config) win over the registered defaults. Every
// enabled job with a valid expression gets its cron timer attached here;
// the timers fire once Start runs the cron loop. A second call after a
// successful first one is a no-op.
func (s *RegistryService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		s.logger.Warn("registry already initialized; ignoring repeat call")
		return nil
	}

	for _, name := range s.order {
		job := s.jobs[name]
		row, err := s.schedules.Upsert(ctx, core.UpsertScheduleParams{
			JobName:        job.def.Name,
			DisplayName:    job.def.DisplayName,
			CronExpression: job.def.CronExpression,
			Enabled:        job.def.Enabled,
			JobType:        job.def.JobType,
			Config:         job.def.Config,
		})
		if err != nil {
			return fmt.Errorf("upsert schedule for %s: %w", name, err)
		}

		job.def.Enabled = row.Enabled
		if len(row.Config) > 0 {
			job.def.Config = row.Config
		}
		if row.CronExpression != job.def.CronExpression {
			s.applyCronLocked(job, row.CronExpression)
		}
	}

	s.initialized = true
	for _, name := range s.order {
		s.scheduleLocked(s.jobs[name])
	}
	return nil
}

// applyCronLocked swaps in a persisted or updated cron expression. An
// unparsable expression leaves the job unscheduled with a warning rather
// than keeping a schedule that no longer matches the stored row.
func (s *RegistryService) applyCronLocked(job *registeredJob, expr string) {
	job.def.CronExpression = expr
	parsed, err := cronParser.Parse(expr)
	if err != nil {
		job.schedule = nil
		s.logger.Warn("persisted cron expression is invalid; job will not be scheduled",
			"job_name", job.def.Name, "cron_expression", expr, "err", err)
		return
	}
	job.schedule = parsed
}

// Start attaches every enabled, schedulable job to the cron runner and
// starts it. Disabled jobs and jobs with invalid expressions stay out.
func (s *RegistryService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, name := range s.order {
		s.scheduleLocked(s.jobs[name])
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts the cron runner and waits for in-flight runs to finish.
func (s *RegistryService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	stopCtx := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-stopCtx.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *RegistryService) scheduleLocked(job *registeredJob) {
	if job.hasEntry {
		s.cron.Remove(job.entryID)
		job.hasEntry = false
	}
	if !job.def.Enabled || job.schedule == nil {
		return
	}
	s.attachLocked(job)
}

func (s *RegistryService) attachLocked(job *registeredJob) {
	name := job.def.Name
	job.entryID = s.cron.Schedule(job.schedule, cron.FuncJob(func() {
		// Scheduler ticks run detached from any request context.
		if _, _, err := s.ExecuteJob(context.Background(), name, model.TriggeredByScheduler, nil); err != nil {
			if apperrors.IsConflict(err) {
				s.logger.Warn("skipping scheduled run; previous run still in progress", "job_name", name)
				return
			}
			s.logger.Error("scheduled run failed", "job_name", name, "err", err)
		}
	}))
	job.hasEntry = true
}

// ExecuteJob runs one registered job immediately. Overlapping invocations
// of the same job are rejected with a conflict error; the caller (or the
// next tick) retries.
func (s *RegistryService) ExecuteJob(
	ctx context.Context,
	jobName string,
	triggeredBy model.TriggeredBy,
	triggeredByUser *string,
) (*model.JobExecution, model.JobResult, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobName]
	s.mu.RUnlock()
	if !ok {
		return nil, model.JobResult{}, apperrors.NotFoundf("unknown job %q", jobName)
	}

	if !job.runMu.TryLock() {
		return nil, model.JobResult{}, apperrors.Conflictf("job %q is already running", jobName)
	}
	job.running.Store(true)
	defer func() {
		job.running.Store(false)
		job.runMu.Unlock()
	}()

	var nextRunAt *time.Time
	if job.schedule != nil && job.def.Enabled {
		next := job.schedule.Next(s.timeProv.Now().UTC())
		nextRunAt = &next
	}

	execution, result, err := s.executor.Execute(ctx, ExecuteParams{
		Definition:      job.def,
		TriggeredBy:     triggeredBy,
		TriggeredByUser: triggeredByUser,
		NextRunAt:       nextRunAt,
	})
	return execution, result, err
}

// EnableJob persists enabled=true and attaches the job to the scheduler.
func (s *RegistryService) EnableJob(ctx context.Context, jobName string) error {
	return s.setEnabled(ctx, jobName, true)
}

// DisableJob persists enabled=false and detaches the job from the scheduler.
// An in-flight run is allowed to finish.
func (s *RegistryService) DisableJob(ctx context.Context, jobName string) error {
	return s.setEnabled(ctx, jobName, false)
}

// StartJob attaches one job's cron timer without touching the persisted
// enabled flag. Starting a job that is already attached, or one with an
// invalid cron expression, is a no-op.
func (s *RegistryService) StartJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobName]
	if !ok {
		return apperrors.NotFoundf("unknown job %q", jobName)
	}
	if job.hasEntry || job.schedule == nil {
		return nil
	}
	s.attachLocked(job)
	return nil
}

// StopJob detaches one job's cron timer without touching the persisted
// enabled flag. The job reverts to its stored state on the next restart.
// Stopping an already detached job is a no-op; an in-flight run finishes.
func (s *RegistryService) StopJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobName]
	if !ok {
		return apperrors.NotFoundf("unknown job %q", jobName)
	}
	if job.hasEntry {
		s.cron.Remove(job.entryID)
		job.hasEntry = false
	}
	return nil
}

func (s *RegistryService) setEnabled(ctx context.Context, jobName string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobName]
	if !ok {
		return apperrors.NotFoundf("unknown job %q", jobName)
	}
	if err := s.schedules.SetEnabled(ctx, jobName, enabled); err != nil {
		return err
	}

	job.def.Enabled = enabled
	if s.initialized || s.started {
		s.scheduleLocked(job)
	}
	return nil
}

// UpdateCron validates the new expression, persists it, and reschedules the
// job. Validation happens before any state changes so a bad expression never
// displaces a working schedule.
func (s *RegistryService) UpdateCron(ctx context.Context, jobName, expr string) error {
	if err := ValidateCron(expr); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobName]
	if !ok {
		return apperrors.NotFoundf("unknown job %q", jobName)
	}
	if err := s.schedules.SetCronExpression(ctx, jobName, expr); err != nil {
		return err
	}

	s.applyCronLocked(job, expr)
	if s.initialized || s.started {
		s.scheduleLocked(job)
	}
	return nil
}

// GetJob returns one job's live view, or NotFound.
func (s *RegistryService) GetJob(ctx context.Context, jobName string) (*model.JobInfo, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobName]
	var info *model.JobInfo
	if ok {
		info = snapshotJobLocked(job)
	}
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFoundf("unknown job %q", jobName)
	}
	s.attachScheduleRow(ctx, info)
	return info, nil
}

// GetJobs returns the live view of every registered job in registration
// order, annotated with persisted schedule rows where present.
func (s *RegistryService) GetJobs(ctx context.Context) []*model.JobInfo {
	s.mu.RLock()
	infos := make([]*model.JobInfo, 0, len(s.order))
	for _, name := range s.order {
		infos = append(infos, snapshotJobLocked(s.jobs[name]))
	}
	s.mu.RUnlock()

	for _, info := range infos {
		s.attachScheduleRow(ctx, info)
	}
	return infos
}

// snapshotJobLocked copies the definition fields while the registry lock is
// held. Mutators rewrite job.def under the write lock, so reads outside the
// lock must work on the copy.
func snapshotJobLocked(job *registeredJob) *model.JobInfo {
	return &model.JobInfo{
		Name:           job.def.Name,
		DisplayName:    job.def.DisplayName,
		Description:    job.def.Description,
		CronExpression: job.def.CronExpression,
		Enabled:        job.def.Enabled,
		JobType:        job.def.JobType,
		Config:         job.def.Config,
		IsRunning:      job.hasEntry,
		IsExecuting:    job.running.Load(),
	}
}

func (s *RegistryService) attachScheduleRow(ctx context.Context, info *model.JobInfo) {
	if schedule, err := s.schedules.GetByName(ctx, info.Name); err == nil {
		info.Schedule = schedule
	}
}
