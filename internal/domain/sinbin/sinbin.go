// Package sinbin derives the active temporary exclusions from card events
// and the current match clock.
package sinbin

import "github.com/okian/scrum/internal/domain/event"

// warningThreshold is the remaining-seconds mark at which the UI should
// flag an exclusion as about to expire.
const warningThreshold = 60

// Exclusion is one active sin-bin window.
type Exclusion struct {
	CardID    string
	Side      event.Side
	PlayerID  string
	Remaining int
	Warning   bool
}

// Active returns the currently running exclusions, in ledger order. A card
// counts iff it is yellow, not returned, carries a return time, and the
// clock has not reached it yet.
func Active(events []event.Event, elapsed int) []Exclusion {
	var out []Exclusion
	for i := range events {
		e := events[i]
		if e.Type != event.TypeCard {
			continue
		}
		c := e.Card
		if c.Severity != event.Yellow || c.Returned || c.ReturnTime == 0 || elapsed >= c.ReturnTime {
			continue
		}
		remaining := c.ReturnTime - elapsed
		out = append(out, Exclusion{
			CardID:    e.ID,
			Side:      c.Side,
			PlayerID:  c.PlayerID,
			Remaining: remaining,
			Warning:   remaining <= warningThreshold,
		})
	}
	return out
}
