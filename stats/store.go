// Package stats keeps the history of training episodes: a SQLite table of
// finished games and a plot of the score curve.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// EpisodeRecord is one finished game of a training session.
type EpisodeRecord struct {
	ID        int64
	SessionID string
	Game      int
	Score     int
	Record    int
	MeanScore float64
	Frames    int
	Epsilon   int
	CreatedAt time.Time
}

// Store persists episode records in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at dbPath, creating its directory.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("stats: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("stats: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			game INTEGER NOT NULL,
			score INTEGER NOT NULL,
			record INTEGER NOT NULL,
			mean_score REAL NOT NULL,
			frames INTEGER NOT NULL,
			epsilon INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_session ON episodes(session_id, game);
		CREATE INDEX IF NOT EXISTS idx_episodes_score ON episodes(score DESC);
	`)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode inserts rec and returns its row id.
func (s *Store) SaveEpisode(ctx context.Context, rec EpisodeRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (session_id, game, score, record, mean_score, frames, epsilon, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Game, rec.Score, rec.Record, rec.MeanScore, rec.Frames, rec.Epsilon, createdAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("stats: cannot save episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("stats: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopEpisodes returns the best-scoring episodes, optionally restricted to a
// session. Ties are ordered by game number.
func (s *Store) TopEpisodes(ctx context.Context, sessionID string, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, session_id, game, score, record, mean_score, frames, epsilon, created_at
		FROM episodes`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY score DESC, game ASC LIMIT ?`
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

// SessionEpisodes returns every episode of a session in play order.
func (s *Store) SessionEpisodes(ctx context.Context, sessionID string) ([]EpisodeRecord, error) {
	return s.query(ctx,
		`SELECT id, session_id, game, score, record, mean_score, frames, epsilon, created_at
		 FROM episodes WHERE session_id = ? ORDER BY game ASC`,
		sessionID,
	)
}

// BestScore returns the highest score ever stored, 0 when empty.
func (s *Store) BestScore(ctx context.Context) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(score) FROM episodes`).Scan(&best); err != nil {
		return 0, fmt.Errorf("stats: cannot query best score: %w", err)
	}
	return int(best.Int64), nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]EpisodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		var rec EpisodeRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Game, &rec.Score, &rec.Record,
			&rec.MeanScore, &rec.Frames, &rec.Epsilon, &createdAt); err != nil {
			return nil, fmt.Errorf("stats: cannot scan row: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: row iteration error: %w", err)
	}
	return out, nil
}
