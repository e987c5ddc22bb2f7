// Package event defines the match event union and the ledger that holds
// one match's chronological record. Every derived view (score, squad,
// sin-bin) is computed from this ledger; nothing else is ground truth.
package event

import "time"

// Side identifies which team an event belongs to.
type Side string

// Team sides.
const (
	Home Side = "home"
	Away Side = "away"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Kind enumerates the scoring plays. The set is closed: points come from
// the fixed table below and there is no constructor path for other kinds.
type Kind string

// Scoring kinds.
const (
	Try        Kind = "try"
	Conversion Kind = "conversion"
	Penalty    Kind = "penalty"
	DropGoal   Kind = "drop_goal"
	PenaltyTry Kind = "penalty_try"
)

// points maps each scoring kind to its fixed value.
var points = map[Kind]int{
	Try:        5,
	Conversion: 2,
	Penalty:    3,
	DropGoal:   3,
	PenaltyTry: 7,
}

// Points returns the point value for the kind, or 0 for an unknown kind.
func (k Kind) Points() int {
	return points[k]
}

// Valid reports whether k is one of the closed scoring kinds.
func (k Kind) Valid() bool {
	_, ok := points[k]
	return ok
}

// IsTry reports whether k is a try or penalty try, the kinds that open
// conversion eligibility.
func (k Kind) IsTry() bool {
	return k == Try || k == PenaltyTry
}

// Severity distinguishes card types.
type Severity string

// Card severities.
const (
	Yellow Severity = "yellow"
	Red    Severity = "red"
)

// Marker enumerates system events that bracket the match.
type Marker string

// System markers.
const (
	MatchStart Marker = "match_start"
	HalfTime   Marker = "half_time"
	MatchEnd   Marker = "match_end"
)

// Type discriminates the event union.
type Type string

// Event types.
const (
	TypeScore        Type = "score"
	TypeCard         Type = "card"
	TypeSubstitution Type = "substitution"
	TypeCardReturn   Type = "card_return"
	TypeSystem       Type = "system"
)

// Score is the payload of a scoring event. Pending events are awaiting
// video-referee confirmation and contribute nothing until resolved.
type Score struct {
	Side     Side   `json:"side"`
	Kind     Kind   `json:"kind"`
	Points   int    `json:"points"`
	PlayerID string `json:"player_id,omitempty"`
	Pending  bool   `json:"pending,omitempty"`
}

// Card is the payload of a card event. ReturnTime is elapsed seconds and
// is only set for yellow cards.
type Card struct {
	Side       Side     `json:"side"`
	PlayerID   string   `json:"player_id"`
	Severity   Severity `json:"severity"`
	ReturnTime int      `json:"return_time,omitempty"`
	Returned   bool     `json:"returned,omitempty"`
}

// Substitution swaps OffID for OnID. When the incoming player was not
// previously on the roster, OnName and OnNumber carry enough to register
// them at substitution time.
type Substitution struct {
	Side     Side   `json:"side"`
	OffID    string `json:"off_id"`
	OnID     string `json:"on_id"`
	OnName   string `json:"on_name,omitempty"`
	OnNumber int    `json:"on_number,omitempty"`
}

// CardReturn records a sin-binned player manually marked as returned
// before their window elapsed.
type CardReturn struct {
	CardID   string `json:"card_id"`
	Side     Side   `json:"side"`
	PlayerID string `json:"player_id"`
}

// System marks a lifecycle boundary in the ledger.
type System struct {
	Marker Marker `json:"marker"`
}

// Event is one entry in the match ledger: a common header plus exactly one
// populated payload, discriminated by Type. CreatedAt is the sole ordering
// key for the ledger and for undo tie-breaking.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Half      int       `json:"half"`
	Elapsed   int       `json:"elapsed"`

	Score        *Score        `json:"score,omitempty"`
	Card         *Card         `json:"card,omitempty"`
	Substitution *Substitution `json:"substitution,omitempty"`
	CardReturn   *CardReturn   `json:"card_return,omitempty"`
	System       *System       `json:"system,omitempty"`
}

// Mutable reports whether the event participates in quick-undo: scores,
// cards and substitutions are candidates, system markers and card returns
// are not.
func (e Event) Mutable() bool {
	switch e.Type {
	case TypeScore, TypeCard, TypeSubstitution:
		return true
	default:
		return false
	}
}

// TeamSide returns the side the event belongs to, or "" for system events.
func (e Event) TeamSide() Side {
	switch e.Type {
	case TypeScore:
		return e.Score.Side
	case TypeCard:
		return e.Card.Side
	case TypeSubstitution:
		return e.Substitution.Side
	case TypeCardReturn:
		return e.CardReturn.Side
	default:
		return ""
	}
}
