// Package repository defines the roster lookup and match persistence
// contracts the scoring core depends on, plus the SQLite and in-memory
// implementations.
package repository

import (
	"context"
	"time"

	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/squad"
)

// Team identifies one side of a match in the persisted record.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PlayerStats is the per-player cumulative delta produced by one finished
// match. The store applies it exactly once per saved match.
type PlayerStats struct {
	PlayerID    string `json:"player_id"`
	Games       int    `json:"games"`
	Tries       int    `json:"tries"`
	Points      int    `json:"points"`
	YellowCards int    `json:"yellow_cards"`
	RedCards    int    `json:"red_cards"`
}

// Snapshot is the persistence shape of one finished (or explicitly saved)
// match: configuration, final scores, the full chronological log, and the
// stat deltas derived from it. It must round-trip losslessly.
type Snapshot struct {
	MatchID             string        `json:"match_id,omitempty"`
	HomeTeam            Team          `json:"home_team"`
	AwayTeam            Team          `json:"away_team"`
	HalfDurationMinutes int           `json:"half_duration_minutes"`
	SinBinSeconds       int           `json:"sin_bin_seconds"`
	HomeScore           int           `json:"home_score"`
	AwayScore           int           `json:"away_score"`
	CompletedAt         time.Time     `json:"completed_at"`
	Log                 []event.Event `json:"log"`
	PlayerIDs           []string      `json:"player_ids"`
	Stats               []PlayerStats `json:"stats"`
}

// MatchSummary is the listing row for saved matches.
type MatchSummary struct {
	ID          string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	CompletedAt time.Time
}

// Roster provides read access to the player registry. Events reference
// players by id only; the registry is owned here, not by the ledger.
type Roster interface {
	// ListPlayers returns the roster for a team.
	ListPlayers(ctx context.Context, teamID string) ([]squad.Player, error)

	// ResolvePlayer returns the player with the given id.
	// The boolean is false when the player is unknown.
	ResolvePlayer(ctx context.Context, id string) (squad.Player, bool, error)
}

// MatchStore persists finished matches. Saving is the one failure the
// core surfaces to callers instead of swallowing.
type MatchStore interface {
	// SaveFinishedMatch persists the snapshot and applies its stat
	// deltas. When snap.MatchID names an existing match the record is
	// replaced and the deltas are NOT re-applied. Returns the match id.
	SaveFinishedMatch(ctx context.Context, snap Snapshot) (string, error)

	// GetMatch reloads a saved snapshot.
	// Returns ErrNotFound for an unknown id.
	GetMatch(ctx context.Context, id string) (Snapshot, error)

	// ListMatches returns summaries of saved matches, newest first.
	ListMatches(ctx context.Context) ([]MatchSummary, error)

	// PlayerStats returns the accumulated stats for a player.
	// Returns ErrNotFound when nothing has been recorded for them.
	PlayerStats(ctx context.Context, playerID string) (PlayerStats, error)
}
