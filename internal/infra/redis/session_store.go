package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Session state itself stays in process; the bootstrap generation token
//     and the snapshot fan-out both rely on in-memory locks.
//   - Redis is used to mark session liveness so other instances (and ops
//     tooling) can see which players are active.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		// best-effort liveness refresh
		_ = s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Err()
		return session
	}
	session := app.NewSession(sessionID)
	s.sessions[sessionID] = session
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, sessionID)
		_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
