package simulate

import (
	"context"
	"fmt"
	"math/rand"

	session "github.com/okian/scrum/internal/app"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/squad"
	"github.com/okian/scrum/pkg/logger"
)

// Play distribution cases. Tries dominate; red cards and undos are rare.
const (
	caseTry          = 0
	caseConvertedTry = 1
	casePenalty      = 2
	caseDropGoal     = 3
	casePendingTry   = 4
	caseYellowCard   = 5
	caseSubstitution = 6
	caseInjuryTime   = 7
	caseRedCard      = 8
	caseUndo         = 9
	playCases        = 10
	squadSize        = 23
	startingFifteen  = 15
)

// buildRoster generates a full match-day squad for one side. Player ids
// are deterministic so repeated runs with the same seed reference the
// same players.
func buildRoster(prefix string) []squad.Player {
	players := make([]squad.Player, 0, squadSize)
	for i := 1; i <= squadSize; i++ {
		players = append(players, squad.Player{
			ID:      fmt.Sprintf("%s-%02d", prefix, i),
			Number:  i,
			Name:    fmt.Sprintf("%s Player %d", prefix, i),
			Starter: i <= startingFifteen,
		})
	}
	return players
}

// generator produces random plays against a running session.
type generator struct {
	rng     *rand.Rand
	rosters map[event.Side][]squad.Player
	benched map[event.Side]int // next bench index to bring on
	log     logger.Logger
	verbose bool
}

func newGenerator(seed int64, rosters map[event.Side][]squad.Player, log logger.Logger, verbose bool) *generator {
	return &generator{
		rng:     rand.New(rand.NewSource(seed)),
		rosters: rosters,
		benched: map[event.Side]int{event.Home: startingFifteen, event.Away: startingFifteen},
		log:     log,
		verbose: verbose,
	}
}

// side picks a random side.
func (g *generator) side() event.Side {
	if g.rng.Intn(2) == 0 {
		return event.Home
	}
	return event.Away
}

// player picks a random starter id for a side.
func (g *generator) player(side event.Side) string {
	return g.rosters[side][g.rng.Intn(startingFifteen)].ID
}

// play executes one random play against the session and records what
// happened in stats. Refused plays are counted, never retried: the
// session's no-op semantics are part of what the simulation exercises.
func (g *generator) play(ctx context.Context, s *session.Session, stats *Stats) {
	stats.PlaysAttempted++
	side := g.side()

	switch g.rng.Intn(playCases) {
	case caseTry:
		g.score(ctx, s, stats, side, event.Try, false)

	case caseConvertedTry:
		if g.score(ctx, s, stats, side, event.Try, false) {
			g.score(ctx, s, stats, side, event.Conversion, false)
		}

	case casePenalty:
		g.score(ctx, s, stats, side, event.Penalty, false)

	case caseDropGoal:
		g.score(ctx, s, stats, side, event.DropGoal, false)

	case casePendingTry:
		id := s.AddScore(ctx, side, event.Try, g.player(side), true)
		if id == "" {
			stats.PlaysRefused++
			return
		}
		stats.ScoresRecorded++
		// The referee review lands a few plays later in a real match;
		// resolving immediately keeps the ledger equivalent.
		approved := g.rng.Intn(3) > 0
		if s.ResolvePending(ctx, id, approved) {
			stats.PendingResolved++
		}
		outcome := "rejected"
		if approved {
			outcome = "approved"
		}
		g.trace("pending try", side, outcome)

	case caseYellowCard:
		if s.AddCard(ctx, side, g.player(side), event.Yellow) == "" {
			stats.PlaysRefused++
			return
		}
		stats.CardsIssued++
		g.trace("yellow card", side, "")

	case caseRedCard:
		// Red cards are rare; only one in three of this case fires.
		if g.rng.Intn(3) != 0 {
			stats.PlaysRefused++
			return
		}
		if s.AddCard(ctx, side, g.player(side), event.Red) == "" {
			stats.PlaysRefused++
			return
		}
		stats.CardsIssued++
		g.trace("red card", side, "")

	case caseSubstitution:
		bench := g.rosters[side]
		next := g.benched[side]
		if next >= len(bench) {
			stats.PlaysRefused++
			return
		}
		off := g.player(side)
		if s.AddSubstitution(ctx, side, off, bench[next].ID, nil) == "" {
			stats.PlaysRefused++
			return
		}
		g.benched[side] = next + 1
		stats.Substitutions++
		g.trace("substitution", side, bench[next].ID)

	case caseInjuryTime:
		if !s.AddInjuryTime() {
			stats.PlaysRefused++
		}

	case caseUndo:
		if !s.Undo(ctx) {
			stats.PlaysRefused++
			return
		}
		stats.Undos++
		g.trace("undo", side, "")
	}
}

// score submits one score and updates stats. Reports acceptance.
func (g *generator) score(ctx context.Context, s *session.Session, stats *Stats, side event.Side, kind event.Kind, pending bool) bool {
	if s.AddScore(ctx, side, kind, g.player(side), pending) == "" {
		stats.PlaysRefused++
		return false
	}
	stats.ScoresRecorded++
	g.trace(string(kind), side, "")
	return true
}

func (g *generator) trace(play string, side event.Side, detail string) {
	if !g.verbose {
		return
	}
	g.log.Debug(context.Background(), "play",
		logger.String("play", play),
		logger.String("side", string(side)),
		logger.String("detail", detail))
}
