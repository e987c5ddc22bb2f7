// Package saver is the asynchronous persistence pipeline: finished-match
// snapshots are queued on a bounded channel and written to the match
// store by a background loop with retries. Save completion never gates
// ledger mutation; the ledger stays the live source of truth regardless
// of save latency.
package saver

import (
	"context"
	"sync"
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/pkg/logger"
	"github.com/okian/scrum/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	defaultQueueCapacity = 16
	defaultRetries       = 3
	defaultRetryDelay    = 500 * time.Millisecond
)

// Result reports the outcome of one save to the caller. Err is non-nil
// only after all retries were exhausted; persistence failure is the one
// failure category the core surfaces rather than swallows.
type Result struct {
	MatchID string
	Err     error
}

// Pipeline drains queued snapshots into a repository.MatchStore.
type Pipeline struct {
	store repository.MatchStore

	queue      chan repository.Snapshot
	capacity   int
	retries    int
	retryDelay time.Duration
	onResult   func(Result)

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	logger logger.Logger
}

// New creates a pipeline with configuration options. Call Start to begin
// draining.
func New(store repository.MatchStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		capacity:   defaultQueueCapacity,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		done:       make(chan struct{}),
		logger:     logger.Get().Named("saver"),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan repository.Snapshot, p.capacity)
	metrics.UpdateSaveQueueCapacity(p.capacity)
	metrics.UpdateSaveQueueSize(0)
	return p
}

// Start launches the background drain loop until ctx is canceled or the
// pipeline is closed.
func (p *Pipeline) Start(ctx context.Context) {
	go p.run(ctx)
}

// Enqueue accepts a snapshot for saving. It never blocks: false means
// the queue is full or closed and the snapshot was not accepted.
func (p *Pipeline) Enqueue(ctx context.Context, snap repository.Snapshot) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	select {
	case p.queue <- snap:
		metrics.UpdateSaveQueueSize(len(p.queue))
		return true
	default:
		p.logger.Warn(ctx, "save queue full; snapshot refused")
		return false
	}
}

// Close stops accepting snapshots and waits for queued saves to drain.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-p.queue:
			if !ok {
				return
			}
			metrics.UpdateSaveQueueSize(len(p.queue))
			p.save(ctx, snap)
		}
	}
}

// save writes one snapshot, retrying with a fixed delay. The terminal
// outcome is reported through the result callback.
func (p *Pipeline) save(ctx context.Context, snap repository.Snapshot) {
	var lastErr error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			metrics.RecordSaveRetry()
			select {
			case <-ctx.Done():
				p.report(Result{Err: ctx.Err()})
				return
			case <-time.After(p.retryDelay):
			}
		}

		metrics.RecordSaveAttempt()
		start := time.Now()
		id, err := p.store.SaveFinishedMatch(ctx, snap)
		metrics.RecordSaveLatency(float64(time.Since(start).Milliseconds()))

		if err == nil {
			metrics.RecordSaveSuccess()
			p.logger.Info(ctx, "match saved",
				logger.String("match_id", id),
				logger.Int("attempt", attempt+1))
			p.report(Result{MatchID: id})
			return
		}

		lastErr = err
		p.logger.Warn(ctx, "save attempt failed",
			logger.Int("attempt", attempt+1),
			logger.Error(err))
	}

	metrics.RecordSaveFailure()
	p.logger.Error(ctx, "match save failed after retries", logger.Error(lastErr))
	p.report(Result{Err: lastErr})
}

func (p *Pipeline) report(r Result) {
	if p.onResult != nil {
		p.onResult(r)
	}
}
