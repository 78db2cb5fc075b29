package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a maintenance task run every Interval. Run gets a context that is
// cancelled when the job is removed or the scheduler stops.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	jobs   map[string]*scheduledJob // job name -> job
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

type scheduledJob struct {
	job     Job
	ticker  *time.Ticker
	cancel  context.CancelFunc
	lastRun time.Time
	lastErr error
}

type JobStatus struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*scheduledJob),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules every job, each running once right away.
func (s *Scheduler) Start(jobs ...Job) {
	for _, job := range jobs {
		s.AddJob(job)
	}

	zap.S().Infow("scheduler started", "jobs", len(jobs))
}

// Stop cancels all jobs. It does not wait for a running job to return.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sj := range s.jobs {
		sj.ticker.Stop()
		sj.cancel()
	}

	s.jobs = make(map[string]*scheduledJob)
	zap.S().Info("scheduler stopped")
}

// AddJob starts job, replacing any job with the same name.
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[job.Name]; ok {
		existing.ticker.Stop()
		existing.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)

	sj := &scheduledJob{
		job:    job,
		ticker: time.NewTicker(job.Interval),
		cancel: jobCancel,
	}

	s.jobs[job.Name] = sj

	go func() {
		s.execute(jobCtx, sj)
		s.run(jobCtx, sj)
	}()
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sj, ok := s.jobs[name]; ok {
		sj.ticker.Stop()
		sj.cancel()
		delete(s.jobs, name)
	}
}

func (s *Scheduler) run(ctx context.Context, sj *scheduledJob) {
	defer sj.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sj.ticker.C:
			s.execute(ctx, sj)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, sj *scheduledJob) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := sj.job.Run(ctx)

	s.mu.Lock()
	sj.lastRun = start
	sj.lastErr = err
	s.mu.Unlock()

	if err != nil {
		zap.S().Warnw("scheduled job failed", "job", sj.job.Name, "error", err)
		return
	}

	zap.S().Debugw("scheduled job finished", "job", sj.job.Name, "took", time.Since(start))
}

func (s *Scheduler) Status() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(s.jobs))

	for _, sj := range s.jobs {
		status := JobStatus{
			Name:     sj.job.Name,
			Interval: sj.job.Interval.String(),
			LastRun:  sj.lastRun,
		}
		if sj.lastErr != nil {
			status.LastError = sj.lastErr.Error()
		}
		statuses = append(statuses, status)
	}

	return statuses
}

var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler.
func Initialize(jobs ...Job) {
	globalScheduler = NewScheduler()
	globalScheduler.Start(jobs...)
}

func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

// Jobs reports the global scheduler's jobs, or nil when it is not running.
func Jobs() []JobStatus {
	if globalScheduler == nil {
		return nil
	}
	return globalScheduler.Status()
}
