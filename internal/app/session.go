// Package session provides the in-memory match session: the reducer-style
// API a scoring UI calls. All derived views are recomputed from the event
// ledger on read; the ledger is the single source of truth.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/lifecycle"
	"github.com/okian/scrum/internal/domain/score"
	"github.com/okian/scrum/internal/domain/sinbin"
	"github.com/okian/scrum/internal/domain/squad"
	"github.com/okian/scrum/pkg/logger"
	"github.com/okian/scrum/pkg/metrics"
)

// Default session configuration constants.
const (
	defaultHalfLengthSeconds = 40 * 60
	defaultSinBinSeconds     = 10 * 60
	defaultInjuryStepSeconds = 60
)

// Pulse is the advisory attention signal emitted when a score is
// recorded: long for pending, short for confirmed. Cosmetic only.
type Pulse string

// Pulse kinds.
const (
	PulseShort Pulse = "short"
	PulseLong  Pulse = "long"
)

// Saver hands finished-match snapshots to the persistence pipeline.
// Enqueue must not block ledger mutation; it reports acceptance only.
type Saver interface {
	Enqueue(ctx context.Context, snap repository.Snapshot) bool
}

// Session owns one match: the ledger, the clock, and the working rosters.
// It is explicitly passed by the caller; there is no ambient singleton.
// Invalid operations are silent no-ops, never errors: a live-scoring
// operator is never blocked by a dialog.
type Session struct {
	home repository.Team
	away repository.Team

	ledger  *event.Ledger
	clock   *lifecycle.Clock
	players map[event.Side][]squad.Player

	// Configuration
	halfLength    int
	sinBinSeconds int
	injuryStep    int

	// Collaborators
	roster    repository.Roster
	saver     Saver
	attention func(Pulse)

	// Time source; timestamps are forced strictly monotonic so the
	// ledger ordering key never carries ties.
	now       func() time.Time
	lastStamp time.Time

	logger logger.Logger
}

// New constructs a session for a home/away pairing with default
// configuration.
func New(home, away repository.Team, opts ...Option) *Session {
	s := &Session{
		home:          home,
		away:          away,
		ledger:        event.NewLedger(),
		players:       make(map[event.Side][]squad.Player),
		halfLength:    defaultHalfLengthSeconds,
		sinBinSeconds: defaultSinBinSeconds,
		injuryStep:    defaultInjuryStepSeconds,
		now:           time.Now,
		logger:        logger.Get().Named("session"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.clock = lifecycle.NewClock(s.halfLength, s.injuryStep)
	return s
}

// SetPlayers replaces the working roster for a side before kickoff.
func (s *Session) SetPlayers(side event.Side, players []squad.Player) {
	s.players[side] = players
}

// Start begins the match: rosters are loaded from the roster collaborator
// when configured, the match-start marker is recorded, and the clock runs.
func (s *Session) Start(ctx context.Context) bool {
	if !s.clock.Start() {
		return false
	}

	if s.roster != nil {
		s.loadRoster(ctx, event.Home, s.home.ID)
		s.loadRoster(ctx, event.Away, s.away.ID)
	}

	e := s.newEvent(event.TypeSystem)
	e.System = &event.System{Marker: event.MatchStart}
	s.record(ctx, e)

	s.logger.Info(ctx, "match started",
		logger.String("home", s.home.Name),
		logger.String("away", s.away.Name))
	return true
}

func (s *Session) loadRoster(ctx context.Context, side event.Side, teamID string) {
	if len(s.players[side]) > 0 {
		return
	}
	players, err := s.roster.ListPlayers(ctx, teamID)
	if err != nil {
		s.logger.Warn(ctx, "roster lookup failed",
			logger.String("team", teamID), logger.Error(err))
		return
	}
	s.players[side] = players
}

// ToggleTimer flips between running and paused. Pure clock gate; nothing
// is written to the ledger.
func (s *Session) ToggleTimer() bool {
	return s.clock.Toggle()
}

// Tick advances the clock one second. Ticks outside the running state are
// gated no-ops.
func (s *Session) Tick() bool {
	if !s.clock.Tick() {
		return false
	}
	metrics.UpdateActiveSinBins(len(s.SinBins()))
	return true
}

// AddInjuryTime accrues one injury-time increment.
func (s *Session) AddInjuryTime() bool {
	return s.clock.AddInjuryTime()
}

// NextHalf closes the current half with a half-time marker and parks the
// clock in the break.
func (s *Session) NextHalf(ctx context.Context) bool {
	closing := s.clock.Half()
	e := s.newEvent(event.TypeSystem)
	if !s.clock.NextHalf() {
		return false
	}
	e.Half = closing
	e.System = &event.System{Marker: event.HalfTime}
	s.record(ctx, e)
	return true
}

// End completes the match, records the match-end marker, and hands the
// final snapshot to the save pipeline when one is configured. The second
// return is false when the match could not be ended from its current
// state. A completed session refuses all further mutation.
func (s *Session) End(ctx context.Context) (repository.Snapshot, bool) {
	e := s.newEvent(event.TypeSystem)
	if !s.clock.End() {
		return repository.Snapshot{}, false
	}
	e.System = &event.System{Marker: event.MatchEnd}
	s.ledger.Append(e)
	metrics.RecordEventRecorded(string(event.TypeSystem))
	metrics.RecordMatchCompleted()

	snap := s.Snapshot()
	if s.saver != nil && !s.saver.Enqueue(ctx, snap) {
		s.logger.Warn(ctx, "save pipeline refused snapshot; ledger kept in memory")
	}

	board := score.Reduce(s.ledger.Events())
	s.logger.Info(ctx, "match ended",
		logger.Int("home_score", board.Home),
		logger.Int("away_score", board.Away),
		logger.Int("events", s.ledger.Len()))
	return snap, true
}

// AddScore records a scoring play. Returns the new event id, or "" when
// the submission was refused (unknown kind, ineligible conversion, or the
// match is not in play). Pending scores contribute nothing until resolved.
func (s *Session) AddScore(ctx context.Context, side event.Side, kind event.Kind, playerID string, pending bool) string {
	if !s.inPlay() || !kind.Valid() {
		return ""
	}

	if kind == event.Conversion && !score.ConversionEligible(s.ledger.Events(), side) {
		metrics.RecordConversionRejected()
		s.logger.Debug(ctx, "conversion refused: no eligible try",
			logger.String("side", string(side)))
		return ""
	}

	e := s.newEvent(event.TypeScore)
	e.Score = &event.Score{
		Side:     side,
		Kind:     kind,
		Points:   kind.Points(),
		PlayerID: playerID,
		Pending:  pending,
	}
	s.record(ctx, e)

	if s.attention != nil {
		if pending {
			s.attention(PulseLong)
		} else {
			s.attention(PulseShort)
		}
	}
	return e.ID
}

// ResolvePending settles a score event awaiting confirmation. Approval
// applies its points; rejection removes it from the ledger entirely.
// Resolving an unknown or already-settled id is a no-op.
func (s *Session) ResolvePending(ctx context.Context, eventID string, approved bool) bool {
	if s.completed() {
		return false
	}
	e := s.ledger.Find(eventID)
	if e == nil || e.Type != event.TypeScore || !e.Score.Pending {
		return false
	}

	if approved {
		e.Score.Pending = false
		metrics.RecordPendingResolution("approved")
	} else {
		s.ledger.Remove(eventID)
		metrics.RecordPendingResolution("rejected")
	}
	s.logger.Debug(ctx, "pending score resolved",
		logger.String("event_id", eventID), logger.Bool("approved", approved))
	return true
}

// AddCard issues a card. Yellow cards open a sin-bin window ending at
// elapsed + the configured duration; red cards exclude for the match.
// Returns the new event id, or "" when refused.
func (s *Session) AddCard(ctx context.Context, side event.Side, playerID string, severity event.Severity) string {
	if !s.inPlay() || playerID == "" {
		return ""
	}

	card := &event.Card{Side: side, PlayerID: playerID, Severity: severity}
	if severity == event.Yellow {
		card.ReturnTime = s.clock.Elapsed() + s.sinBinSeconds
	}

	e := s.newEvent(event.TypeCard)
	e.Card = card
	s.record(ctx, e)
	metrics.UpdateActiveSinBins(len(s.SinBins()))
	return e.ID
}

// ReturnFromSinBin marks a sin-binned player as returned before their
// window elapsed and records the return in the ledger. Scores are
// unaffected.
func (s *Session) ReturnFromSinBin(ctx context.Context, cardID string) bool {
	if s.completed() {
		return false
	}
	c := s.ledger.Find(cardID)
	if c == nil || c.Type != event.TypeCard || c.Card.Severity != event.Yellow || c.Card.Returned {
		return false
	}

	c.Card.Returned = true
	e := s.newEvent(event.TypeCardReturn)
	e.CardReturn = &event.CardReturn{CardID: cardID, Side: c.Card.Side, PlayerID: c.Card.PlayerID}
	s.record(ctx, e)
	metrics.UpdateActiveSinBins(len(s.SinBins()))
	return true
}

// AddSubstitution swaps offID for onID. A newPlayer not yet on the roster
// is registered at substitution time. Returns the new event id, or ""
// when refused.
func (s *Session) AddSubstitution(ctx context.Context, side event.Side, offID, onID string, newPlayer *squad.Player) string {
	if !s.inPlay() || onID == "" {
		return ""
	}

	sub := &event.Substitution{Side: side, OffID: offID, OnID: onID}
	if newPlayer != nil && !s.knownPlayer(side, onID) {
		p := *newPlayer
		p.ID = onID
		s.players[side] = append(s.players[side], p)
		sub.OnName = p.Name
		sub.OnNumber = p.Number
	}

	e := s.newEvent(event.TypeSubstitution)
	e.Substitution = sub
	s.record(ctx, e)
	return e.ID
}

func (s *Session) knownPlayer(side event.Side, id string) bool {
	for _, p := range s.players[side] {
		if p.ID == id {
			return true
		}
	}
	return false
}

// inPlay reports whether the ledger accepts new play events: the match
// has started and has not completed.
func (s *Session) inPlay() bool {
	switch s.clock.State() {
	case lifecycle.Running, lifecycle.Paused, lifecycle.HalfBreak:
		return true
	default:
		return false
	}
}

func (s *Session) completed() bool {
	return s.clock.State() == lifecycle.Completed
}

// newEvent builds the common header with a strictly monotonic timestamp.
func (s *Session) newEvent(t event.Type) event.Event {
	stamp := s.now()
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = stamp
	return event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: stamp,
		Half:      s.clock.Half(),
		Elapsed:   s.clock.Elapsed(),
	}
}

func (s *Session) record(ctx context.Context, e event.Event) {
	s.ledger.Append(e)
	metrics.RecordEventRecorded(string(e.Type))
	s.logger.Debug(ctx, "event recorded",
		logger.String("event_id", e.ID),
		logger.String("type", string(e.Type)),
		logger.Int("elapsed", e.Elapsed))
}

// Board returns the current derived scoreboard.
func (s *Session) Board() score.Board {
	return score.Reduce(s.ledger.Events())
}

// Squad returns the derived squad status for a side at the current clock.
func (s *Session) Squad(side event.Side) squad.Status {
	return squad.Resolve(side, s.players[side], s.ledger.Events(), s.clock.Elapsed())
}

// SquadAt returns the squad status for a side at an arbitrary elapsed
// time; the historical-correction views use this.
func (s *Session) SquadAt(side event.Side, elapsed int) squad.Status {
	return squad.Resolve(side, s.players[side], s.ledger.Events(), elapsed)
}

// SinBins returns the currently active temporary exclusions.
func (s *Session) SinBins() []sinbin.Exclusion {
	return sinbin.Active(s.ledger.Events(), s.clock.Elapsed())
}

// State returns the lifecycle state.
func (s *Session) State() lifecycle.State {
	return s.clock.State()
}

// Elapsed returns elapsed seconds in the current half.
func (s *Session) Elapsed() int {
	return s.clock.Elapsed()
}

// Half returns the current half number.
func (s *Session) Half() int {
	return s.clock.Half()
}

// Injury returns accrued injury-time seconds for the current half.
func (s *Session) Injury() int {
	return s.clock.Injury()
}

// ClockDisplay renders the clock and any overtime overage.
func (s *Session) ClockDisplay() (main, overtime string) {
	return s.clock.Display()
}

// Events returns a copy of the chronological ledger.
func (s *Session) Events() []event.Event {
	return s.ledger.Events()
}
