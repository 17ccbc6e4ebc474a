package cache

import (
	"context"
	"log/slog"
	"sync"
)

// RefresherConfig holds configuration for the background refresher
type RefresherConfig struct {
	// WorkerCount determines how many concurrent workers run refreshes
	WorkerCount int

	// QueueSize determines the buffer size for the refresh queue
	QueueSize int
}

// DefaultRefresherConfig returns a RefresherConfig with reasonable defaults
func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// refreshJob re-fills one expired cache key.
type refreshJob struct {
	key  string
	fill func(ctx context.Context) error
}

// Refresher runs background cache refreshes on a bounded worker pool.
//
// Jobs are fire-and-forget: the scheduling caller never waits, and a
// failed refresh only logs; the key stays absent and the next read
// degrades to a synchronous miss. The bounded queue keeps eviction
// churn from spawning unbounded goroutines; when it is full the
// refresh is dropped, which again just means a synchronous miss later.
type Refresher struct {
	jobs       chan refreshJob
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RefresherConfig
	logger     *slog.Logger
	prom       *PromMetrics

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewRefresher creates a new Refresher. If logger is nil, the default
// logger is used.
func NewRefresher(config RefresherConfig, logger *slog.Logger) *Refresher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRefresherConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRefresherConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Refresher{
		jobs:       make(chan refreshJob, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "cache_refresher")),
	}
}

// SetPromMetrics attaches Prometheus counters. Must be called before
// Start.
func (r *Refresher) SetPromMetrics(m *PromMetrics) {
	r.prom = m
}

// Start launches the worker pool.
func (r *Refresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop shuts the pool down. Queued jobs that have not started are
// discarded; in-flight refreshes finish first.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.cancelFunc()
	r.wg.Wait()
}

// Schedule queues a refresh for key. It never blocks: when the queue is
// full or the refresher is stopped the job is dropped and false is
// returned.
func (r *Refresher) Schedule(key string, fill func(ctx context.Context) error) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}

	select {
	case r.jobs <- refreshJob{key: key, fill: fill}:
		r.logger.Debug("refresh scheduled",
			"key", key,
			"queue_len", len(r.jobs),
			"queue_cap", cap(r.jobs))
		return true
	default:
		r.logger.Warn("refresh dropped, queue is full", "key", key)
		r.prom.recordRefreshDropped()
		return false
	}
}

// worker consumes refresh jobs until the refresher stops.
func (r *Refresher) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting refresh worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping refresh worker", "worker_id", id)
			return

		case job := <-r.jobs:
			r.runJob(job, id)
		}
	}
}

// runJob executes one refresh. Errors are logged and swallowed: a
// failed refresh leaves the key absent rather than corrupting state.
func (r *Refresher) runJob(job refreshJob, workerID int) {
	// Detached from any caller; shutdown between jobs is handled by the
	// worker loop, not by cancelling a refresh midway.
	ctx := context.Background()

	if err := job.fill(ctx); err != nil {
		r.logger.Error("background refresh failed",
			"key", job.key,
			"worker_id", workerID,
			"error", err)
		r.prom.recordRefreshFailure()
		return
	}

	r.logger.Debug("background refresh completed",
		"key", job.key,
		"worker_id", workerID)
	r.prom.recordRefresh()
}
