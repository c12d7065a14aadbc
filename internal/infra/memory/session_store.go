package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"movie-quiz-service/internal/app"
)

// SessionStore keeps sessions in process. A session nobody watches is
// dropped by Sweep once it has gone untouched for longer than idleTTL.
type SessionStore struct {
	idleTTL time.Duration
	clock   func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	session  *app.Session
	lastSeen time.Time
}

// NewSessionStore returns a store; a non-positive idleTTL disables sweeping.
func NewSessionStore(idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		idleTTL: idleTTL,
		clock:   time.Now,
		entries: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &sessionEntry{session: app.NewSession(sessionID)}
		s.entries[sessionID] = entry
	}
	entry.lastSeen = s.clock()
	return entry.session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.clock()
	return entry.session, true
}

func (s *SessionStore) DeleteIfEmpty(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[sessionID]; ok && entry.session.IsEmpty() {
		delete(s.entries, sessionID)
	}
}

// Sweep drops idle, unwatched sessions and returns how many it removed.
// Their in-flight work becomes stale through the reset.
func (s *SessionStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock().Add(-s.idleTTL)
	removed := 0
	for id, entry := range s.entries {
		if entry.lastSeen.After(cutoff) {
			continue
		}
		if entry.session.ResetIfIdle() {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("dropped %d idle sessions", n)
			}
		}
	}
}
