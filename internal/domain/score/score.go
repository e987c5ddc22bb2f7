// Package score folds the match ledger into the live scoreboard. All
// functions are pure; callers recompute on read rather than patching
// totals incrementally, so corrections anywhere in the ledger are safe.
package score

import "github.com/okian/scrum/internal/domain/event"

// Board is the derived scoreboard: running totals plus which side holds
// conversion eligibility. LastTryTeam is nil when no conversion is open.
type Board struct {
	Home        int
	Away        int
	LastTryTeam *event.Side
}

// Score returns the total for the given side.
func (b Board) Score(side event.Side) int {
	if side == event.Home {
		return b.Home
	}
	return b.Away
}

// Reduce folds the ledger chronologically into a Board.
//
// Non-pending score events add their point value to the owning side.
// An approved try or penalty try hands its side conversion eligibility;
// recording a conversion consumes it. Penalties and drop goals leave
// eligibility untouched. Pending events contribute nothing.
func Reduce(events []event.Event) Board {
	var b Board
	for i := range events {
		e := events[i]
		if e.Type != event.TypeScore || e.Score.Pending {
			continue
		}
		s := e.Score
		if s.Side == event.Home {
			b.Home += s.Points
		} else {
			b.Away += s.Points
		}
		switch {
		case s.Kind.IsTry():
			side := s.Side
			b.LastTryTeam = &side
		case s.Kind == event.Conversion:
			b.LastTryTeam = nil
		}
	}
	return b
}

// ConversionEligible reports whether the side may record a conversion:
// the most recent approved try or penalty try must belong to it and no
// conversion may have consumed that try already.
func ConversionEligible(events []event.Event, side event.Side) bool {
	b := Reduce(events)
	return b.LastTryTeam != nil && *b.LastTryTeam == side
}
