package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"movie-quiz-service/internal/domain"
)

// HistoryStore is a file-backed round log for single-node deployments.
type HistoryStore struct {
	db    *sql.DB
	limit int
}

func NewHistoryStore(path string, limit int) (*HistoryStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz-history.db"
	}
	limit = domain.HistoryLimit(limit)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &HistoryStore{db: db, limit: limit}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS round_history (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			movie_title TEXT NOT NULL,
			mode TEXT NOT NULL,
			guessed INTEGER NOT NULL DEFAULT 0,
			time_spent_ms INTEGER NOT NULL DEFAULT 0,
			hints_used INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			played_at_unix_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_round_history_session ON round_history(session_id, played_at_unix_ms DESC);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record inserts round and trims the session log in one transaction.
func (s *HistoryStore) Record(ctx context.Context, round domain.RoundRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO round_history
		   (id, session_id, movie_id, movie_title, mode, guessed, time_spent_ms, hints_used, score, played_at_unix_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.SessionID, round.MovieID, round.MovieTitle, string(round.Mode),
		boolToInt(round.Guessed), round.TimeSpent.Milliseconds(), round.HintsUsed, round.Score,
		round.PlayedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM round_history
		 WHERE session_id = ? AND id NOT IN (
		   SELECT id FROM round_history WHERE session_id = ?
		   ORDER BY played_at_unix_ms DESC LIMIT ?)`,
		round.SessionID, round.SessionID, s.limit,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return tx.Commit()
}

func (s *HistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, movie_id, movie_title, mode, guessed, time_spent_ms, hints_used, score, played_at_unix_ms
		 FROM round_history WHERE session_id = ?
		 ORDER BY played_at_unix_ms DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	rounds := make([]domain.RoundRecord, 0, limit)
	for rows.Next() {
		var (
			round    domain.RoundRecord
			mode     string
			guessed  int
			spentMS  int64
			playedMS int64
		)
		if err := rows.Scan(&round.ID, &round.SessionID, &round.MovieID, &round.MovieTitle, &mode,
			&guessed, &spentMS, &round.HintsUsed, &round.Score, &playedMS); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		round.Mode = domain.Mode(mode)
		round.Guessed = guessed != 0
		round.TimeSpent = time.Duration(spentMS) * time.Millisecond
		round.PlayedAt = time.UnixMilli(playedMS).UTC()
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
