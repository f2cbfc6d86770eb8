package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
	"github.com/AlellaGreenTech/Invoice-app/internal/source"
)

// Job asks the queue to run one batch against a source.
type Job struct {
	Batch       *entity.Batch
	Source      source.Source
	SubmittedAt time.Time
}

// Queue fans batches out to a small worker pool. Files inside a batch stay
// sequential; only whole batches run concurrently.
type Queue struct {
	orch    *Orchestrator
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and is held across the channel send so Shutdown
	// cannot close the channel under a backpressured Enqueue.
	mu     sync.Mutex
	closed bool

	flightMu sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithBatchTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(orch *Orchestrator, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		orch:     orch,
		logger:   logger,
		workers:  2,
		timeout:  30 * time.Minute,
		ch:       make(chan Job, 64),
		inFlight: make(map[uuid.UUID]struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("batch.worker.started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.orch.Run(ctx, job.Batch, job.Source)
					cancel()

					q.flightMu.Lock()
					delete(q.inFlight, job.Batch.ID)
					q.flightMu.Unlock()

					if err != nil {
						q.logger.Error("batch.worker.run_failed", "worker_id", workerID, "batch_id", job.Batch.ID, "error", err)
					} else {
						q.logger.Info("batch.worker.run_done", "worker_id", workerID, "batch_id", job.Batch.ID)
					}
				}

				q.logger.Info("batch.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue submits a batch for processing. A batch already queued or running
// is rejected so one batch never runs twice concurrently.
func (q *Queue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return common.NewAppError("QUEUE_CLOSED", "queue is shutting down", common.ErrInternal)
	}

	q.flightMu.Lock()
	if _, dup := q.inFlight[job.Batch.ID]; dup {
		q.flightMu.Unlock()
		return common.NewAppError("BATCH_IN_FLIGHT", "batch "+job.Batch.ID.String()+" is already queued", common.ErrInvalidInput)
	}
	q.inFlight[job.Batch.ID] = struct{}{}
	q.flightMu.Unlock()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}

	select {
	case q.ch <- job:
		q.logger.Info("batch.queued", "batch_id", job.Batch.ID)
	default:
		q.logger.Warn("batch.queue_full", "batch_id", job.Batch.ID)
		q.ch <- job
	}
	return nil
}

func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("batch.queue.shutdown_interrupted")
	case <-done:
		q.logger.Info("batch.queue.drained")
	}
}
