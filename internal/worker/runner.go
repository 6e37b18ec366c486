// Package worker contains the background pipeline that issues survey
// reports: it scores the survey, asks the narrator for commentary, persists
// the result and emails the client. The api package only sees the Enqueuer
// interface.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off a survey
// once it has been marked pending. The concrete implementation is *Runner.
type Enqueuer interface {
	Enqueue(ctx context.Context, surveyID uuid.UUID) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 3.
	Workers int

	// PollInterval is how often the fallback poller checks ListPendingSurveys
	// for jobs the in-process channel missed (e.g. after a restart).
	// Default: 30s.
	PollInterval time.Duration

	// JobTimeout is the per-job context deadline. Default: 5 minutes. It
	// must exceed the narrator's p99 latency.
	JobTimeout time.Duration

	// MaxRetries is the number of attempts before the survey is marked
	// failed. Default: 3.
	MaxRetries int

	// BaseBackoff is the wait after the first failed attempt; it doubles on
	// each retry. Default: 2s.
	BaseBackoff time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   5 * time.Minute,
		MaxRetries:   3,
		BaseBackoff:  2 * time.Second,
	}
}

// Runner manages a pool of worker goroutines. Jobs arrive on an in-process
// channel when a survey is issued and from a database poller that recovers
// pending surveys after a restart.
type Runner struct {
	job    jobRunner
	store  SurveyStore
	q      db.Querier
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup

	// inFlight holds surveys that are queued or running. A survey is claimed
	// before it enters the queue and released when runWithRetry returns.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// jobRunner is satisfied by *Job.
type jobRunner interface {
	Run(ctx context.Context, surveyID uuid.UUID) error
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(
	job jobRunner,
	st SurveyStore,
	q db.Querier,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRunnerConfig().Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultRunnerConfig().PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultRunnerConfig().JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRunnerConfig().MaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = DefaultRunnerConfig().BaseBackoff
	}

	return &Runner{
		job:      job,
		store:    st,
		q:        q,
		cfg:      cfg,
		logger:   logger,
		queue:    make(chan uuid.UUID, cfg.Workers*2),
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

// Enqueue pushes a survey onto the in-process channel without blocking. A
// survey already queued or running is not queued twice. A full queue returns
// an error; the poller picks the survey up later.
func (r *Runner) Enqueue(_ context.Context, surveyID uuid.UUID) error {
	queued, err := r.offer(surveyID)
	if err != nil {
		return err
	}
	if queued {
		r.logger.Info("worker: enqueued survey", "survey_id", surveyID)
	} else {
		r.logger.Debug("worker: survey already in flight", "survey_id", surveyID)
	}
	return nil
}

var errQueueFull = errors.New("worker: queue is full, survey will be picked up by poller")

// offer claims the survey and pushes it onto the queue. It reports false when
// the survey was already claimed.
func (r *Runner) offer(surveyID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inFlight[surveyID]; ok {
		return false, nil
	}
	select {
	case r.queue <- surveyID:
		r.inFlight[surveyID] = struct{}{}
		return true, nil
	default:
		return false, errQueueFull
	}
}

func (r *Runner) release(surveyID uuid.UUID) {
	r.mu.Lock()
	delete(r.inFlight, surveyID)
	r.mu.Unlock()
}

// Start launches the worker pool and the fallback poller. It blocks until ctx
// is cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	// Launch worker goroutines.
	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	// Launch fallback poller.
	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Info("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker: goroutine stopping")
			return
		case surveyID := <-r.queue:
			r.runWithRetry(ctx, surveyID, log)
			r.release(surveyID)
		}
	}
}

// poll queries the database on PollInterval for pending surveys that were not
// delivered via the channel.
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	surveys, err := r.q.ListPendingSurveys(ctx)
	if err != nil {
		r.logger.Error("worker: poll failed", "error", err)
		return
	}
	for _, s := range surveys {
		queued, err := r.offer(s.ID)
		if err != nil {
			return // full; next cycle
		}
		if queued {
			r.logger.Debug("worker: poller enqueued survey", "survey_id", s.ID)
		}
	}
}

// runWithRetry executes the job up to MaxRetries times, then marks the survey
// failed so the poller stops picking it up.
func (r *Runner) runWithRetry(ctx context.Context, surveyID uuid.UUID, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, surveyID)
		cancel()

		if lastErr == nil {
			log.Info("worker: job completed", "survey_id", surveyID, "attempt", attempt)
			return
		}

		log.Warn("worker: job attempt failed",
			"survey_id", surveyID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			backoff := r.backoff(attempt)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	log.Error("worker: job permanently failed", "survey_id", surveyID, "error", lastErr)
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	_, err := r.store.MarkSurveyFailed(failCtx, surveyID, lastErr.Error())
	switch {
	case errors.Is(err, store.ErrSurveyNotPending):
		log.Info("worker: survey no longer pending, not marking failed", "survey_id", surveyID)
	case err != nil:
		log.Error("worker: failed to mark survey as failed", "survey_id", surveyID, "error", err)
	}
}

// backoff doubles from BaseBackoff: 2s, 4s, 8s with the default.
func (r *Runner) backoff(attempt int) time.Duration {
	return r.cfg.BaseBackoff << (attempt - 1)
}
