package session

import (
	"time"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithHalfLength sets the regulation half length in seconds.
func WithHalfLength(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.halfLength = seconds
		}
	}
}

// WithSinBinDuration sets the yellow-card exclusion window in seconds.
func WithSinBinDuration(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.sinBinSeconds = seconds
		}
	}
}

// WithInjuryIncrement sets the seconds added per injury-time accrual.
func WithInjuryIncrement(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.injuryStep = seconds
		}
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(log logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRoster sets the roster collaborator used to load team players at
// match start.
func WithRoster(roster repository.Roster) Option {
	return func(s *Session) {
		s.roster = roster
	}
}

// WithSaver sets the persistence pipeline that receives the snapshot at
// match end.
func WithSaver(saver Saver) Option {
	return func(s *Session) {
		s.saver = saver
	}
}

// WithAttention sets the advisory attention callback (e.g. a haptic
// pulse). Purely cosmetic.
func WithAttention(fn func(Pulse)) Option {
	return func(s *Session) {
		s.attention = fn
	}
}

// WithTimeSource sets the wall-clock source; tests use a fake.
func WithTimeSource(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
