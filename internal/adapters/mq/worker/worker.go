// Package worker runs asynchronous jobs (rescoring, notifications) off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

const (
	defaultJobTimeout   = 30 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Handler executes one job.
type Handler interface {
	Handle(ctx context.Context, j model.Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, j model.Job) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, j model.Job) error { return f(ctx, j) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Job
}

// Stats summarises pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool runs a fixed number of workers reading the same queue.
type Pool struct {
	size       int
	queue      Queue
	handler    Handler
	jobTimeout time.Duration
	logger     logger.Logger

	processed atomic.Int64
	failed    atomic.Int64

	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewPool creates a worker pool. workerCount < 1 means runtime.NumCPU().
func NewPool(workerCount int, q Queue, h Handler, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		size:       workerCount,
		queue:      q,
		handler:    h,
		jobTimeout: defaultJobTimeout,
		shutdown:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	jobs := p.queue.Dequeue(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, "worker-"+strconv.Itoa(i), jobs)
	}
}

func (p *Pool) run(ctx context.Context, name string, jobs <-chan model.Job) {
	defer p.wg.Done()
	log := p.logger.Named(name)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			p.process(ctx, log, j)
		}
	}
}

func (p *Pool) process(ctx context.Context, log logger.Logger, j model.Job) {
	jctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			metrics.RecordWorkerError(string(j.Kind))
			log.Error(ctx, "job panicked", logger.String("job_id", j.ID), logger.Any("panic", r))
		}
	}()

	if err := p.handler.Handle(jctx, j); err != nil {
		p.failed.Add(1)
		metrics.RecordWorkerError(string(j.Kind))
		log.Error(ctx, "job failed",
			logger.String("job_id", j.ID),
			logger.String("kind", string(j.Kind)),
			logger.Error(err),
		)
		return
	}
	p.processed.Add(1)
}

// Stats returns counters since start.
func (p *Pool) Stats() Stats {
	return Stats{Workers: p.size, Processed: p.processed.Load(), Failed: p.failed.Load()}
}

// Shutdown closes the queue when it supports it, lets workers drain and
// waits for them or for ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		p.once.Do(func() { close(p.shutdown) })
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
}
