package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of background work executed off the request path.
type Job struct {
	Name    string
	Run     func(ctx context.Context) error
	Retries int
}

// Queue fans jobs out to a fixed pool of workers. Failed jobs are retried
// with a small backoff up to the job's retry limit.
type Queue struct {
	jobs    chan Job
	workers int
	logger  *zap.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewQueue constructs a queue with the given worker count and buffer size.
func NewQueue(workers, buffer int, logger *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		jobs:    make(chan Job, buffer),
		workers: workers,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Enqueue submits a job without blocking. It reports false when the queue
// buffer is full or the queue has been stopped.
func (q *Queue) Enqueue(job Job) bool {
	if job.Run == nil {
		return false
	}

	select {
	case <-q.ctx.Done():
		return false
	case q.jobs <- job:
		return true
	default:
		q.logger.Warn("job queue full, dropping job", zap.String("job", job.Name))
		return false
	}
}

// Stop drains in-flight jobs and waits for workers to exit.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.cancel()
		close(q.jobs)
		q.wg.Wait()
	})
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for job := range q.jobs {
		q.execute(job)
	}
}

func (q *Queue) execute(job Job) {
	attempts := job.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err := job.Run(q.ctx)
		if err == nil {
			return
		}

		q.logger.Warn("job attempt failed",
			zap.String("job", job.Name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < attempts {
			select {
			case <-q.ctx.Done():
				return
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	q.logger.Error("job exhausted retries", zap.String("job", job.Name))
}
