package session

import (
	"sort"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/score"
)

// Snapshot builds the persistence shape for the current ledger: teams,
// configuration, final scores, the full chronological log, participating
// player ids, and the per-player stat deltas the store applies once per
// finished match.
func (s *Session) Snapshot() repository.Snapshot {
	events := s.ledger.Events()
	board := score.Reduce(events)

	participants := s.participantIDs(events)
	return repository.Snapshot{
		HomeTeam:            s.home,
		AwayTeam:            s.away,
		HalfDurationMinutes: s.halfLength / 60,
		SinBinSeconds:       s.sinBinSeconds,
		HomeScore:           board.Home,
		AwayScore:           board.Away,
		CompletedAt:         s.now(),
		Log:                 events,
		PlayerIDs:           participants,
		Stats:               statDeltas(events, participants),
	}
}

// participantIDs is the union of rostered starters, everyone brought on
// by a substitution, and every player referenced by a score or card.
func (s *Session) participantIDs(events []event.Event) []string {
	seen := make(map[string]bool)
	for _, side := range []event.Side{event.Home, event.Away} {
		for _, p := range s.players[side] {
			if p.Starter {
				seen[p.ID] = true
			}
		}
	}
	for _, e := range events {
		switch e.Type {
		case event.TypeScore:
			if e.Score.PlayerID != "" {
				seen[e.Score.PlayerID] = true
			}
		case event.TypeCard:
			seen[e.Card.PlayerID] = true
		case event.TypeSubstitution:
			seen[e.Substitution.OnID] = true
			if e.Substitution.OffID != "" {
				seen[e.Substitution.OffID] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// statDeltas derives the once-per-match cumulative increments from the
// final log. Pending scores count for nothing.
func statDeltas(events []event.Event, participants []string) []repository.PlayerStats {
	deltas := make(map[string]*repository.PlayerStats, len(participants))
	for _, id := range participants {
		deltas[id] = &repository.PlayerStats{PlayerID: id, Games: 1}
	}

	for _, e := range events {
		switch e.Type {
		case event.TypeScore:
			sc := e.Score
			if sc.Pending || sc.PlayerID == "" {
				continue
			}
			d, ok := deltas[sc.PlayerID]
			if !ok {
				continue
			}
			d.Points += sc.Points
			if sc.Kind.IsTry() {
				d.Tries++
			}
		case event.TypeCard:
			d, ok := deltas[e.Card.PlayerID]
			if !ok {
				continue
			}
			if e.Card.Severity == event.Yellow {
				d.YellowCards++
			} else {
				d.RedCards++
			}
		}
	}

	out := make([]repository.PlayerStats, 0, len(participants))
	for _, id := range participants {
		out = append(out, *deltas[id])
	}
	return out
}
