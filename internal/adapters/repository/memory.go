package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/scrum/internal/domain/squad"
)

// MemoryStore is a map-backed Roster and MatchStore. It backs tests, the
// simulator, and runs without a configured database file.
type MemoryStore struct {
	mu sync.RWMutex

	players map[string]squad.Player // player id -> player
	teams   map[string][]string     // team id -> player ids
	matches map[string]Snapshot     // match id -> snapshot
	order   []string                // match ids, insertion order
	stats   map[string]PlayerStats  // player id -> accumulated stats
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]squad.Player),
		teams:   make(map[string][]string),
		matches: make(map[string]Snapshot),
		stats:   make(map[string]PlayerStats),
	}
}

// AddPlayer registers a player on a team's roster.
func (s *MemoryStore) AddPlayer(teamID string, p squad.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; !ok {
		s.teams[teamID] = append(s.teams[teamID], p.ID)
	}
	s.players[p.ID] = p
}

// ListPlayers returns the roster for a team, sorted by shirt number.
func (s *MemoryStore) ListPlayers(ctx context.Context, teamID string) ([]squad.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.teams[teamID]
	out := make([]squad.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.players[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ResolvePlayer returns the player with the given id.
func (s *MemoryStore) ResolvePlayer(ctx context.Context, id string) (squad.Player, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok, nil
}

// SaveFinishedMatch stores the snapshot and applies stat deltas once.
func (s *MemoryStore) SaveFinishedMatch(ctx context.Context, snap Snapshot) (string, error) {
	if len(snap.Log) == 0 {
		return "", ErrEmptySnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := snap.MatchID
	existing := false
	if id == "" {
		id = uuid.NewString()
	} else {
		_, existing = s.matches[id]
	}
	snap.MatchID = id

	if !existing {
		s.order = append(s.order, id)
		for _, d := range snap.Stats {
			cur := s.stats[d.PlayerID]
			cur.PlayerID = d.PlayerID
			cur.Games += d.Games
			cur.Tries += d.Tries
			cur.Points += d.Points
			cur.YellowCards += d.YellowCards
			cur.RedCards += d.RedCards
			s.stats[d.PlayerID] = cur
		}
	}
	s.matches[id] = snap
	return id, nil
}

// GetMatch reloads a saved snapshot.
func (s *MemoryStore) GetMatch(ctx context.Context, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.matches[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// ListMatches returns summaries, newest first.
func (s *MemoryStore) ListMatches(ctx context.Context) ([]MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MatchSummary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		snap := s.matches[s.order[i]]
		out = append(out, MatchSummary{
			ID:          snap.MatchID,
			HomeTeam:    snap.HomeTeam.Name,
			AwayTeam:    snap.AwayTeam.Name,
			HomeScore:   snap.HomeScore,
			AwayScore:   snap.AwayScore,
			CompletedAt: snap.CompletedAt,
		})
	}
	return out, nil
}

// PlayerStats returns the accumulated stats for a player.
func (s *MemoryStore) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[playerID]
	if !ok {
		return PlayerStats{}, ErrNotFound
	}
	return st, nil
}
