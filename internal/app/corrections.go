package session

import (
	"context"

	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/pkg/logger"
	"github.com/okian/scrum/pkg/metrics"
)

// Undo removes the single most-recently-created event across all mutable
// kinds (scores, cards, substitutions), comparing creation timestamps with
// insertion order as the tie-break. Undo on an empty or marker-only
// ledger is a no-op. All derived views recompute from the remaining
// ledger, so no incremental score patching happens here.
func (s *Session) Undo(ctx context.Context) bool {
	if s.completed() {
		return false
	}
	id := s.ledger.Latest(func(e event.Event) bool { return e.Mutable() })
	if id == "" {
		return false
	}

	s.removeWithDependents(id)
	metrics.RecordUndo()
	s.logger.Debug(ctx, "undo applied", logger.String("event_id", id))
	return true
}

// RemoveScoreEvent deletes a historical score event. The scoreboard and
// eligibility chain re-derive from the remaining ledger.
func (s *Session) RemoveScoreEvent(ctx context.Context, id string) bool {
	return s.removeTyped(ctx, id, event.TypeScore, "remove_score")
}

// RemoveCard deletes a historical card event along with any return event
// referencing it.
func (s *Session) RemoveCard(ctx context.Context, id string) bool {
	return s.removeTyped(ctx, id, event.TypeCard, "remove_card")
}

// RemoveSubstitution deletes a historical substitution event.
func (s *Session) RemoveSubstitution(ctx context.Context, id string) bool {
	return s.removeTyped(ctx, id, event.TypeSubstitution, "remove_substitution")
}

func (s *Session) removeTyped(ctx context.Context, id string, t event.Type, kind string) bool {
	if s.completed() {
		return false
	}
	e := s.ledger.Find(id)
	if e == nil || e.Type != t {
		return false
	}

	s.removeWithDependents(id)
	metrics.RecordCorrection(kind)
	s.logger.Debug(ctx, "correction applied",
		logger.String("kind", kind), logger.String("event_id", id))
	return true
}

// removeWithDependents removes the event and, for cards, any card-return
// events that reference it: a return without its card means nothing to
// any derived view.
func (s *Session) removeWithDependents(id string) {
	e := s.ledger.Find(id)
	if e == nil {
		return
	}
	if e.Type == event.TypeCard {
		for _, ret := range s.ledger.Filter(func(ev event.Event) bool {
			return ev.Type == event.TypeCardReturn && ev.CardReturn.CardID == id
		}) {
			s.ledger.Remove(ret.ID)
		}
	}
	s.ledger.Remove(id)
	metrics.RecordEventRemoved()
}

// ReassignScorePlayer changes the player attributed to a historical score
// event. An empty playerID reassigns to "unknown player". Reassigning a
// nonexistent or non-score event is a no-op.
func (s *Session) ReassignScorePlayer(ctx context.Context, id, playerID string) bool {
	if s.completed() {
		return false
	}
	e := s.ledger.Find(id)
	if e == nil || e.Type != event.TypeScore {
		return false
	}

	e.Score.PlayerID = playerID
	metrics.RecordCorrection("reassign_player")
	s.logger.Debug(ctx, "score reassigned",
		logger.String("event_id", id), logger.String("player_id", playerID))
	return true
}
