// Package worker provides an asynchronous worker pool that records chat
// exchange outcomes in the usage store and publishes them as events.
//
// The pool keeps persistence off the HTTP hot path: a slow database or broker
// never delays the widget's answer.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/chatgate/pkg/eventstream"
	"github.com/papercomputeco/chatgate/pkg/logger"
	"github.com/papercomputeco/chatgate/pkg/usage"
)

var (
	defaultNumWorkers   uint = 2
	defaultJobQueueSize uint = 256
	defaultJobTimeout        = 10 * time.Second
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Record usage.Record
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Store persists usage records. Required.
	Store usage.Store

	// Publisher is the optional event publisher. Nil disables events.
	Publisher eventstream.Publisher

	// Source is stamped on every published event.
	Source eventstream.EventSource

	// NumWorkers is the number of background workers in the pool (defaults to 2).
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Pool processes usage jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	once   sync.Once
	logger *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("worker pool requires a usage store")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: log,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			"record_id", job.Record.ID,
			"outcome", job.Record.Outcome,
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"record_id", job.Record.ID,
			"outcome", job.Record.Outcome,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
// Close is idempotent; Enqueue must not be called after Close.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
		p.wg.Wait()
	})
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("usage worker stopped", "worker_id", id)
}

// processJob stores the record and publishes its event. Failures are logged
// and never retried.
func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()

	rec := job.Record
	if err := p.config.Store.Put(ctx, &rec); err != nil {
		p.logger.Error("usage record storage failed",
			"record_id", rec.ID,
			"error", err,
		)
	} else {
		p.logger.Debug("usage record stored",
			"record_id", rec.ID,
			"outcome", rec.Outcome,
		)
	}

	if p.config.Publisher == nil {
		return
	}

	event := eventstream.NewExchangeEvent(p.config.Source, rec)
	if err := p.config.Publisher.PublishExchange(ctx, event); err != nil {
		p.logger.Warn("exchange event publish failed",
			"record_id", rec.ID,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
