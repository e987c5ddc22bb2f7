// Package squad resolves who is on the pitch and who is on the bench for
// a side at a given elapsed time, by replaying roster, substitution and
// card information from the ledger.
package squad

import (
	"sort"

	"github.com/okian/scrum/internal/domain/event"
)

// Player is the roster entry the resolver works with. The registry itself
// is owned by the roster collaborator; events reference players by id only.
type Player struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Starter  bool   `json:"starter"`
}

// Status is the derived squad view for one side. A sin-binned or sent-off
// player appears in neither list while their exclusion is active.
type Status struct {
	OnPitch []Player
	OnBench []Player
}

// Resolve computes the squad status for side at the given elapsed time.
//
// The on-field set starts from the roster's starters and replays the
// side's substitutions in chronological order. An incoming player unknown
// to the roster is registered from the substitution payload. Red cards
// exclude permanently; yellow cards exclude until their return time or an
// explicit early return. Both lists are sorted by shirt number.
//
// The computation is pure: it may be re-run for any elapsed time, which
// the correction views rely on.
func Resolve(side event.Side, roster []Player, events []event.Event, elapsed int) Status {
	known := make(map[string]Player, len(roster))
	onField := make(map[string]bool)
	for _, p := range roster {
		known[p.ID] = p
		if p.Starter {
			onField[p.ID] = true
		}
	}

	for _, e := range events {
		if e.Type != event.TypeSubstitution || e.Substitution.Side != side {
			continue
		}
		sub := e.Substitution
		delete(onField, sub.OffID)
		if _, ok := known[sub.OnID]; !ok {
			known[sub.OnID] = Player{ID: sub.OnID, Number: sub.OnNumber, Name: sub.OnName}
		}
		onField[sub.OnID] = true
	}

	excluded := make(map[string]bool)
	for _, e := range events {
		if e.Type != event.TypeCard || e.Card.Side != side {
			continue
		}
		c := e.Card
		switch {
		case c.Severity == event.Red:
			excluded[c.PlayerID] = true
		case c.Severity == event.Yellow && !c.Returned && c.ReturnTime > 0 && elapsed < c.ReturnTime:
			excluded[c.PlayerID] = true
		}
	}

	var st Status
	for id := range onField {
		if !excluded[id] {
			st.OnPitch = append(st.OnPitch, known[id])
		}
	}
	for id, p := range known {
		if !onField[id] {
			st.OnBench = append(st.OnBench, p)
		}
	}
	byNumber(st.OnPitch)
	byNumber(st.OnBench)
	return st
}

func byNumber(players []Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].Number != players[j].Number {
			return players[i].Number < players[j].Number
		}
		return players[i].ID < players[j].ID
	})
}
