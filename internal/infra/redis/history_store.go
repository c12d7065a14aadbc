package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"movie-quiz-service/internal/domain"
)

// HistoryStore keeps each session's rounds in a capped Redis list:
// LPUSH quiz:history:{sessionID} {json}; LTRIM 0 limit-1
type HistoryStore struct {
	client *redis.Client
	limit  int
}

func NewHistoryStore(client *redis.Client, limit int) *HistoryStore {
	limit = domain.HistoryLimit(limit)
	return &HistoryStore{client: client, limit: limit}
}

func (h *HistoryStore) Record(ctx context.Context, round domain.RoundRecord) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	key := h.key(round.SessionID)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(h.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}

func (h *HistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	raw, err := h.client.LRange(ctx, h.key(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	rounds := make([]domain.RoundRecord, 0, len(raw))
	for _, item := range raw {
		var round domain.RoundRecord
		if err := json.Unmarshal([]byte(item), &round); err != nil {
			return nil, fmt.Errorf("unmarshal round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

func (h *HistoryStore) key(sessionID string) string {
	return "quiz:history:" + sessionID
}
