// Package service is the application layer: it enforces access rules,
// runs the quality and quiz engines over stored entities, and dispatches
// background jobs. It implements the dependencies the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/linguist/internal/adapters/cache"
	"github.com/okian/linguist/internal/adapters/mq/queue"
	"github.com/okian/linguist/internal/adapters/mq/worker"
	"github.com/okian/linguist/internal/adapters/notify"
	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/dedupe"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// Entity kinds in the document store.
const (
	KindFreelancer = "Freelancer"
	KindReport     = "QualityReport"
	KindQuiz       = "Quiz"
	KindQuestion   = "Question"
	KindAttempt    = "QuizAttempt"
	KindAssignment = "QuizAssignment"
	KindSettings   = "QualitySettings"
)

const (
	defaultQueueSize       = 1024
	defaultDedupeSize      = 50000
	defaultMaxRankingLimit = 100
)

// Service implements the API dependencies for the recruitment back end.
type Service struct {
	mu sync.RWMutex

	store repository.DocumentStore
	hub   *repository.Hub

	freelancers *repository.Collection[model.Freelancer]
	reports     *repository.Collection[model.QualityReport]
	quizzes     *repository.Collection[model.Quiz]
	questions   *repository.Collection[model.Question]
	attempts    *repository.Collection[model.QuizAttempt]
	assignments *repository.Collection[model.QuizAssignment]

	settings     cache.SettingsStore
	wrapSettings func(cache.SettingsStore) cache.SettingsStore
	defaults     quality.Settings

	notifier  notify.Notifier
	reviewers []string

	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount     int
	queueSize       int
	dedupeSize      int
	maxRankingLimit int

	now   func() time.Time
	newID func() string

	started      bool
	unsubscribe  []func()
	cancelWorker context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Storage is ready immediately; background jobs
// run once Start is called.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		maxRankingLimit: defaultMaxRankingLimit,
		defaults:        quality.DefaultSettings(),
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger.Named("notify"))
	}

	s.hub = repository.NewHub()
	s.freelancers = repository.NewCollection[model.Freelancer](KindFreelancer, s.store, s.hub)
	s.reports = repository.NewCollection[model.QualityReport](KindReport, s.store, s.hub)
	s.quizzes = repository.NewCollection[model.Quiz](KindQuiz, s.store, s.hub)
	s.questions = repository.NewCollection[model.Question](KindQuestion, s.store, s.hub)
	s.attempts = repository.NewCollection[model.QuizAttempt](KindAttempt, s.store, s.hub)
	s.assignments = repository.NewCollection[model.QuizAssignment](KindAssignment, s.store, s.hub)

	var settings cache.SettingsStore = cache.NewStoreSettings(
		repository.NewCollection[model.QualitySettings](KindSettings, s.store, s.hub),
		s.defaults,
	)
	if s.wrapSettings != nil {
		settings = s.wrapSettings(settings)
	}
	s.settings = settings

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the worker pool and subscribes to report changes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting service...")

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.HandlerFunc(s.HandleJob),
		worker.WithLogger(s.logger.Named("worker-pool")))

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelWorker = cancel
	s.pool.Start(workerCtx)

	s.unsubscribe = append(s.unsubscribe, s.reports.Subscribe(s.onReportChange))

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains background jobs and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping service...")

	for _, u := range s.unsubscribe {
		u()
	}
	s.unsubscribe = nil

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancelWorker()
	s.queue = nil

	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "store close", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"dedupeLen":   s.deduper.Size(),
	}
	if !s.started {
		return stats
	}

	stats["queueLength"] = s.queue.Len(ctx)
	ps := s.pool.Stats()
	stats["jobsProcessed"] = ps.Processed
	stats["jobsFailed"] = ps.Failed

	if fs, err := s.freelancers.List(ctx, repository.OldestFirst); err == nil {
		stats["totalFreelancers"] = len(fs)
		metrics.UpdateTotalFreelancers(len(fs))
	}
	return stats
}

// enqueue pushes a job unless an identical one is already waiting.
func (s *Service) enqueue(ctx context.Context, j model.Job) error {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return ErrNotStarted
	}
	if s.deduper.SeenAndRecord(ctx, j.ID) {
		metrics.RecordDuplicate()
		return nil
	}
	if err := q.Enqueue(ctx, j); err != nil {
		s.deduper.Unrecord(ctx, j.ID)
		return err
	}
	return nil
}

// enqueueBestEffort logs instead of failing the caller.
func (s *Service) enqueueBestEffort(ctx context.Context, j model.Job) {
	if err := s.enqueue(ctx, j); err != nil && !errors.Is(err, ErrNotStarted) {
		s.logger.Warn(ctx, "job not enqueued",
			logger.String("kind", string(j.Kind)),
			logger.String("job_id", j.ID),
			logger.Error(err),
		)
	}
}

func (s *Service) currentSettings(ctx context.Context) quality.Settings {
	qs, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn(ctx, "settings unavailable, using defaults", logger.Error(err))
		return s.defaults
	}
	return qs
}

func forbidden(what string) error {
	return fmt.Errorf("%s: %w", what, ErrForbidden)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
