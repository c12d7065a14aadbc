package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"movie-quiz-service/internal/domain"
)

// HistoryStore persists completed rounds in the round_history table.
type HistoryStore struct {
	pool  *pgxpool.Pool
	limit int
}

func NewHistoryStore(pool *pgxpool.Pool, limit int) *HistoryStore {
	limit = domain.HistoryLimit(limit)
	return &HistoryStore{pool: pool, limit: limit}
}

// Record inserts round and prunes the session's log down to the newest entries.
func (h *HistoryStore) Record(ctx context.Context, round domain.RoundRecord) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO round_history
		   (id, session_id, movie_id, movie_title, mode, guessed, time_spent_ms, hints_used, score, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		round.ID, round.SessionID, round.MovieID, round.MovieTitle, string(round.Mode),
		round.Guessed, round.TimeSpent.Milliseconds(), round.HintsUsed, round.Score, round.PlayedAt)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM round_history
		 WHERE session_id = $1 AND id NOT IN (
		   SELECT id FROM round_history WHERE session_id = $1
		   ORDER BY played_at DESC LIMIT $2)`,
		round.SessionID, h.limit)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return tx.Commit(ctx)
}

func (h *HistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	rows, err := h.pool.Query(ctx,
		`SELECT id, session_id, movie_id, movie_title, mode, guessed, time_spent_ms, hints_used, score, played_at
		 FROM round_history WHERE session_id = $1
		 ORDER BY played_at DESC LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	rounds := make([]domain.RoundRecord, 0, limit)
	for rows.Next() {
		var (
			round   domain.RoundRecord
			mode    string
			spentMS int64
		)
		if err := rows.Scan(&round.ID, &round.SessionID, &round.MovieID, &round.MovieTitle, &mode,
			&round.Guessed, &spentMS, &round.HintsUsed, &round.Score, &round.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		round.Mode = domain.Mode(mode)
		round.TimeSpent = time.Duration(spentMS) * time.Millisecond
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return rounds, nil
}
