package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/okian/scrum/internal/domain/event"
	"github.com/okian/scrum/internal/domain/squad"
	"github.com/okian/scrum/pkg/logger"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore persists rosters and match history in a local SQLite file.
// It implements both Roster and MatchStore.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(ctx context.Context, path string, log logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.Get().Named("repository")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single local operator; one connection avoids table-lock races
	// with the in-memory database.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info(ctx, "match store ready", logger.String("path", path))
	return &SQLiteStore{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertTeam creates or updates a team row.
func (s *SQLiteStore) UpsertTeam(ctx context.Context, t Team) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, color) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		t.ID, t.Name, t.Color)
	if err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

// UpsertPlayer creates or updates a roster entry.
func (s *SQLiteStore) UpsertPlayer(ctx context.Context, teamID string, p squad.Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, team_id, number, name, position, is_starter)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   team_id = excluded.team_id, number = excluded.number,
		   name = excluded.name, position = excluded.position,
		   is_starter = excluded.is_starter`,
		p.ID, teamID, p.Number, p.Name, p.Position, boolToInt(p.Starter))
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

// ListPlayers returns the roster for a team, sorted by shirt number.
func (s *SQLiteStore) ListPlayers(ctx context.Context, teamID string) ([]squad.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, name, position, is_starter
		 FROM players WHERE team_id = ? ORDER BY number`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []squad.Player
	for rows.Next() {
		var p squad.Player
		var starter int
		if err := rows.Scan(&p.ID, &p.Number, &p.Name, &p.Position, &starter); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Starter = starter != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// ResolvePlayer returns the player with the given id.
func (s *SQLiteStore) ResolvePlayer(ctx context.Context, id string) (squad.Player, bool, error) {
	var p squad.Player
	var starter int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, number, name, position, is_starter FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.Number, &p.Name, &p.Position, &starter)
	if err == sql.ErrNoRows {
		return squad.Player{}, false, nil
	}
	if err != nil {
		return squad.Player{}, false, fmt.Errorf("resolve player: %w", err)
	}
	p.Starter = starter != 0
	return p, true, nil
}

// SaveFinishedMatch persists the snapshot in one transaction. Stat deltas
// are applied only the first time a match id is saved; re-saving replaces
// the record without double-counting.
func (s *SQLiteStore) SaveFinishedMatch(ctx context.Context, snap Snapshot) (string, error) {
	if len(snap.Log) == 0 {
		return "", ErrEmptySnapshot
	}

	id := snap.MatchID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var statsApplied int
	err = tx.QueryRowContext(ctx,
		`SELECT stats_applied FROM matches WHERE id = ?`, id).Scan(&statsApplied)
	existing := err == nil
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("check existing match: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, home_team_id, home_team_name, home_team_color,
		   away_team_id, away_team_name, away_team_color,
		   half_duration_minutes, sin_bin_seconds, home_score, away_score,
		   completed_at, stats_applied)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT (id) DO UPDATE SET
		   home_score = excluded.home_score, away_score = excluded.away_score,
		   completed_at = excluded.completed_at`,
		id, snap.HomeTeam.ID, snap.HomeTeam.Name, snap.HomeTeam.Color,
		snap.AwayTeam.ID, snap.AwayTeam.Name, snap.AwayTeam.Color,
		snap.HalfDurationMinutes, snap.SinBinSeconds, snap.HomeScore, snap.AwayScore,
		snap.CompletedAt)
	if err != nil {
		return "", fmt.Errorf("save match: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_log WHERE match_id = ?`, id); err != nil {
		return "", fmt.Errorf("clear match log: %w", err)
	}
	for seq, e := range snap.Log {
		payload, err := json.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_log (match_id, seq, payload) VALUES (?, ?, ?)`,
			id, seq, string(payload)); err != nil {
			return "", fmt.Errorf("save event %s: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_players WHERE match_id = ?`, id); err != nil {
		return "", fmt.Errorf("clear match players: %w", err)
	}
	for _, pid := range snap.PlayerIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, player_id) VALUES (?, ?)`,
			id, pid); err != nil {
			return "", fmt.Errorf("save match player: %w", err)
		}
	}

	// The per-match deltas are stored with the record so the snapshot
	// reloads losslessly; the cumulative player_stats rows are applied
	// separately, once per match id.
	if _, err := tx.ExecContext(ctx, `DELETE FROM match_stats WHERE match_id = ?`, id); err != nil {
		return "", fmt.Errorf("clear match stats: %w", err)
	}
	for _, d := range snap.Stats {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_stats (match_id, player_id, games, tries, points, yellow_cards, red_cards)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, d.PlayerID, d.Games, d.Tries, d.Points, d.YellowCards, d.RedCards); err != nil {
			return "", fmt.Errorf("save match stats: %w", err)
		}
	}

	if !existing {
		for _, d := range snap.Stats {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO player_stats (player_id, games, tries, points, yellow_cards, red_cards)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (player_id) DO UPDATE SET
				   games = games + excluded.games,
				   tries = tries + excluded.tries,
				   points = points + excluded.points,
				   yellow_cards = yellow_cards + excluded.yellow_cards,
				   red_cards = red_cards + excluded.red_cards`,
				d.PlayerID, d.Games, d.Tries, d.Points, d.YellowCards, d.RedCards); err != nil {
				return "", fmt.Errorf("apply stats: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}

	s.log.Debug(ctx, "match saved",
		logger.String("match_id", id),
		logger.Int("events", len(snap.Log)),
		logger.Bool("replaced", existing))
	return id, nil
}

// GetMatch reloads a saved snapshot: record, log, participants, and the
// per-match stat deltas.
func (s *SQLiteStore) GetMatch(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, home_team_id, home_team_name, home_team_color,
		   away_team_id, away_team_name, away_team_color,
		   half_duration_minutes, sin_bin_seconds, home_score, away_score, completed_at
		 FROM matches WHERE id = ?`, id).
		Scan(&snap.MatchID, &snap.HomeTeam.ID, &snap.HomeTeam.Name, &snap.HomeTeam.Color,
			&snap.AwayTeam.ID, &snap.AwayTeam.Name, &snap.AwayTeam.Color,
			&snap.HalfDurationMinutes, &snap.SinBinSeconds,
			&snap.HomeScore, &snap.AwayScore, &snap.CompletedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load match: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM match_log WHERE match_id = ? ORDER BY seq`, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load match log: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return Snapshot{}, fmt.Errorf("scan log entry: %w", err)
		}
		var e event.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return Snapshot{}, fmt.Errorf("decode log entry: %w", err)
		}
		snap.Log = append(snap.Log, e)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate log: %w", err)
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT player_id FROM match_players WHERE match_id = ? ORDER BY player_id`, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load match players: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var pid string
		if err := prows.Scan(&pid); err != nil {
			return Snapshot{}, fmt.Errorf("scan match player: %w", err)
		}
		snap.PlayerIDs = append(snap.PlayerIDs, pid)
	}
	if err := prows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate match players: %w", err)
	}

	srows, err := s.db.QueryContext(ctx,
		`SELECT player_id, games, tries, points, yellow_cards, red_cards
		 FROM match_stats WHERE match_id = ? ORDER BY player_id`, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load match stats: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var st PlayerStats
		if err := srows.Scan(&st.PlayerID, &st.Games, &st.Tries, &st.Points,
			&st.YellowCards, &st.RedCards); err != nil {
			return Snapshot{}, fmt.Errorf("scan match stats: %w", err)
		}
		snap.Stats = append(snap.Stats, st)
	}
	return snap, srows.Err()
}

// ListMatches returns summaries of saved matches, newest first.
func (s *SQLiteStore) ListMatches(ctx context.Context) ([]MatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, home_team_name, away_team_name, home_score, away_score, completed_at
		 FROM matches ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore, &m.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan match summary: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// PlayerStats returns the accumulated stats for a player.
func (s *SQLiteStore) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, games, tries, points, yellow_cards, red_cards
		 FROM player_stats WHERE player_id = ?`, playerID).
		Scan(&st.PlayerID, &st.Games, &st.Tries, &st.Points, &st.YellowCards, &st.RedCards)
	if err == sql.ErrNoRows {
		return PlayerStats{}, ErrNotFound
	}
	if err != nil {
		return PlayerStats{}, fmt.Errorf("load player stats: %w", err)
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
