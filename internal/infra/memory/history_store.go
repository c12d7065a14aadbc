package memory

import (
	"context"
	"sync"

	"movie-quiz-service/internal/domain"
)

// HistoryStore keeps the most recent rounds per session in memory.
type HistoryStore struct {
	mu     sync.RWMutex
	limit  int
	rounds map[string][]domain.RoundRecord
}

func NewHistoryStore(limit int) *HistoryStore {
	limit = domain.HistoryLimit(limit)
	return &HistoryStore{limit: limit, rounds: make(map[string][]domain.RoundRecord)}
}

func (h *HistoryStore) Record(_ context.Context, round domain.RoundRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append([]domain.RoundRecord{round}, h.rounds[round.SessionID]...)
	if len(list) > h.limit {
		list = list[:h.limit]
	}
	h.rounds[round.SessionID] = list
	return nil
}

func (h *HistoryStore) Recent(_ context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := h.rounds[sessionID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]domain.RoundRecord{}, list...), nil
}
