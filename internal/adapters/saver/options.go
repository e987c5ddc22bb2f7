package saver

import (
	"time"

	"github.com/okian/scrum/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithCapacity sets the maximum number of queued snapshots.
func WithCapacity(capacity int) Option {
	return func(p *Pipeline) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithRetries sets how many times a failed save is retried.
func WithRetries(retries int) Option {
	return func(p *Pipeline) {
		if retries >= 0 {
			p.retries = retries
		}
	}
}

// WithRetryDelay sets the delay between save retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(p *Pipeline) {
		if delay > 0 {
			p.retryDelay = delay
		}
	}
}

// WithResultCallback sets the callback receiving terminal save outcomes.
func WithResultCallback(fn func(Result)) Option {
	return func(p *Pipeline) {
		p.onResult = fn
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}
