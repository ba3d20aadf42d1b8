package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	is_guest     INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS registered_players (
	player_id     TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
	game_id      TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	display_name TEXT NOT NULL,
	score        INTEGER NOT NULL,
	level        INTEGER NOT NULL,
	lines        INTEGER NOT NULL,
	achieved_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_rank ON scores (score DESC, achieved_at ASC, game_id ASC);
CREATE INDEX IF NOT EXISTS scores_player ON scores (player_id, score DESC);
CREATE TABLE IF NOT EXISTS summaries (
	game_id     TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	player_id   TEXT NOT NULL,
	score       INTEGER NOT NULL,
	level       INTEGER NOT NULL,
	lines       INTEGER NOT NULL,
	pieces      INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS summaries_player ON summaries (player_id);
`

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, display_name, is_guest, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name, is_guest = excluded.is_guest`,
		string(player.ID), player.DisplayName, player.IsGuest, toUnix(player.CreatedAt))
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var (
		player    model.Player
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, is_guest, created_at FROM players WHERE id = ?`, string(id),
	).Scan(&player.ID, &player.DisplayName, &player.IsGuest, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	player.CreatedAt = fromUnix(createdAt)
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, string(id))
	return err
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registered_players (player_id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		string(rp.PlayerID), rp.Username, rp.PasswordHash, toUnix(rp.CreatedAt), toUnix(rp.UpdatedAt))
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.queryRegistered(ctx, `WHERE player_id = ?`, string(playerID))
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.queryRegistered(ctx, `WHERE username = ?`, username)
}

func (s *Storage) queryRegistered(ctx context.Context, where string, arg any) (*model.RegisteredPlayer, error) {
	var (
		rp                   model.RegisteredPlayer
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, username, password_hash, created_at, updated_at FROM registered_players `+where, arg,
	).Scan(&rp.PlayerID, &rp.Username, &rp.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	rp.CreatedAt = fromUnix(createdAt)
	rp.UpdatedAt = fromUnix(updatedAt)
	return &rp, nil
}

// Leaderboard operations

const scoreColumns = `game_id, session_id, player_id, display_name, score, level, lines, achieved_at`

func (s *Storage) SaveScore(ctx context.Context, entry *model.ScoreEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (`+scoreColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			score = excluded.score,
			level = excluded.level,
			lines = excluded.lines,
			display_name = excluded.display_name,
			achieved_at = excluded.achieved_at`,
		string(entry.GameID), string(entry.SessionID), string(entry.PlayerID), entry.DisplayName,
		entry.Score, entry.Level, entry.Lines, toUnix(entry.AchievedAt))
	return err
}

func (s *Storage) TopScores(ctx context.Context, limit int) ([]*model.ScoreEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scoreColumns+` FROM scores ORDER BY score DESC, achieved_at ASC, game_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanScores(rows)
}

func (s *Storage) PlayerBest(ctx context.Context, playerID model.PlayerID) (*model.ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE player_id = ?
		ORDER BY score DESC, achieved_at ASC, game_id ASC LIMIT 1`, string(playerID))
	if err != nil {
		return nil, err
	}
	entries, err := scanScores(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, model.ErrNoScores
	}
	return entries[0], nil
}

func scanScores(rows *sql.Rows) ([]*model.ScoreEntry, error) {
	defer func() { _ = rows.Close() }()

	entries := []*model.ScoreEntry{}
	for rows.Next() {
		var (
			entry      model.ScoreEntry
			achievedAt int64
		)
		if err := rows.Scan(&entry.GameID, &entry.SessionID, &entry.PlayerID, &entry.DisplayName,
			&entry.Score, &entry.Level, &entry.Lines, &achievedAt); err != nil {
			return nil, err
		}
		entry.AchievedAt = fromUnix(achievedAt)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Game summary operations

const summaryColumns = `game_id, session_id, player_id, score, level, lines, pieces, started_at, finished_at`

func (s *Storage) SaveSummary(ctx context.Context, summary *model.GameSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (`+summaryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			score = excluded.score,
			level = excluded.level,
			lines = excluded.lines,
			pieces = excluded.pieces,
			finished_at = excluded.finished_at`,
		string(summary.GameID), string(summary.SessionID), string(summary.PlayerID),
		summary.Score, summary.Level, summary.Lines, summary.Pieces,
		toUnix(summary.StartedAt), toUnix(summary.FinishedAt))
	return err
}

func (s *Storage) GetSummary(ctx context.Context, id model.GameID) (*model.GameSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE game_id = ?`, string(id))
	if err != nil {
		return nil, err
	}
	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, model.ErrSummaryNotFound
	}
	return summaries[0], nil
}

func (s *Storage) RecentSummaries(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE player_id = ? ORDER BY rowid DESC LIMIT ?`,
		string(playerID), limit)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]*model.GameSummary, error) {
	defer func() { _ = rows.Close() }()

	summaries := []*model.GameSummary{}
	for rows.Next() {
		var (
			summary               model.GameSummary
			startedAt, finishedAt int64
		)
		if err := rows.Scan(&summary.GameID, &summary.SessionID, &summary.PlayerID,
			&summary.Score, &summary.Level, &summary.Lines, &summary.Pieces,
			&startedAt, &finishedAt); err != nil {
			return nil, err
		}
		summary.StartedAt = fromUnix(startedAt)
		summary.FinishedAt = fromUnix(finishedAt)
		summaries = append(summaries, &summary)
	}
	return summaries, rows.Err()
}
