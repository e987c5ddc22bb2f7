package simulate

import (
	"context"
	"fmt"

	"github.com/okian/scrum/internal/adapters/repository"
	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/score"
)

// verifyMatch checks the finished match from three angles: the board must
// equal the sum of confirmed points in the log, every conversion must sit
// on an eligible try, and the persisted record must round-trip intact.
func verifyMatch(ctx context.Context, config *Config, store repository.MatchStore, matchID string, snap repository.Snapshot) error {
	if err := verifyScoreConsistency(snap); err != nil {
		return err
	}
	if err := verifyConversionChain(snap.Log); err != nil {
		return err
	}
	if err := verifySinBinWindows(config, snap.Log); err != nil {
		return err
	}
	return verifyRoundTrip(ctx, store, matchID, snap)
}

// verifyScoreConsistency recomputes both totals from the raw log and
// compares them with the snapshot's board.
func verifyScoreConsistency(snap repository.Snapshot) error {
	var home, away int
	for _, e := range snap.Log {
		if e.Type != event.TypeScore || e.Score.Pending {
			continue
		}
		switch e.Score.Side {
		case event.Home:
			home += e.Score.Points
		case event.Away:
			away += e.Score.Points
		}
	}

	if home != snap.HomeScore || away != snap.AwayScore {
		return fmt.Errorf("board (%d-%d) does not match log totals (%d-%d)",
			snap.HomeScore, snap.AwayScore, home, away)
	}
	return nil
}

// verifyConversionChain replays the log and checks that every conversion
// was recorded while its side held an unconsumed try.
func verifyConversionChain(log []event.Event) error {
	for i, e := range log {
		if e.Type != event.TypeScore || e.Score.Kind != event.Conversion {
			continue
		}
		board := score.Reduce(log[:i])
		if board.LastTryTeam == nil || *board.LastTryTeam != e.Score.Side {
			return fmt.Errorf("conversion %s recorded without an eligible try", e.ID)
		}
	}
	return nil
}

// verifySinBinWindows checks that every yellow card carries a return time
// exactly one exclusion window after its elapsed stamp.
func verifySinBinWindows(config *Config, log []event.Event) error {
	for _, e := range log {
		if e.Type != event.TypeCard || e.Card.Severity != event.Yellow {
			continue
		}
		want := e.Elapsed + config.SinBinSeconds
		if e.Card.ReturnTime != want {
			return fmt.Errorf("card %s has return time %d, want %d",
				e.ID, e.Card.ReturnTime, want)
		}
	}
	return nil
}

// verifyRoundTrip reloads the persisted match and compares it with the
// snapshot that was saved.
func verifyRoundTrip(ctx context.Context, store repository.MatchStore, matchID string, snap repository.Snapshot) error {
	loaded, err := store.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("reload match %s: %w", matchID, err)
	}

	if loaded.HomeScore != snap.HomeScore || loaded.AwayScore != snap.AwayScore {
		return fmt.Errorf("persisted board (%d-%d) does not match saved (%d-%d)",
			loaded.HomeScore, loaded.AwayScore, snap.HomeScore, snap.AwayScore)
	}
	if len(loaded.Log) != len(snap.Log) {
		return fmt.Errorf("persisted log has %d events, saved %d", len(loaded.Log), len(snap.Log))
	}
	for i := range loaded.Log {
		if loaded.Log[i].ID != snap.Log[i].ID {
			return fmt.Errorf("persisted log diverges at position %d", i)
		}
	}
	if len(loaded.Stats) != len(snap.Stats) {
		return fmt.Errorf("persisted stats have %d rows, saved %d", len(loaded.Stats), len(snap.Stats))
	}
	return nil
}
