package app

import (
	"context"
	"errors"
	"log"
	"time"

	"movie-quiz-service/internal/domain"
)

const (
	defaultImageTimeout = 90 * time.Second
	fallbackGenre       = "Drama"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	DeleteIfEmpty(sessionID string)
}

// HistoryRecorder keeps a capped, most-recent-first log of completed rounds.
type HistoryRecorder interface {
	Record(ctx context.Context, round domain.RoundRecord) error
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error)
}

// QuizService contains the quiz use cases. images and history may be nil.
type QuizService struct {
	sessions     SessionRepository
	bootstrap    *Bootstrapper
	images       ImageGenerator
	history      HistoryRecorder
	imageTimeout time.Duration
}

func NewQuizService(store SessionRepository, bootstrap *Bootstrapper, images ImageGenerator, history HistoryRecorder) *QuizService {
	return &QuizService{
		sessions:     store,
		bootstrap:    bootstrap,
		images:       images,
		history:      history,
		imageTimeout: defaultImageTimeout,
	}
}

// SetImageTimeout bounds each background image request.
func (s *QuizService) SetImageTimeout(d time.Duration) {
	if d > 0 {
		s.imageTimeout = d
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// Start resets the player's session and bootstraps a new round. If the session
// is reset again while the bootstrap is in flight, the result is dropped and
// ErrStaleGeneration is returned.
func (s *QuizService) Start(ctx context.Context, sessionID string, mode domain.Mode) (domain.SessionState, error) {
	session := s.sessions.GetOrCreate(sessionID)
	gen := session.Reset()

	bundle, err := s.bootstrap.Build(ctx, mode, func(msg string) {
		session.SetLoadingMessage(gen, msg)
	})
	if err != nil {
		if session.Generation() != gen {
			return session.Snapshot(), domain.ErrStaleGeneration
		}
		session.Fail(gen, err)
		return session.Snapshot(), err
	}

	if s.images == nil {
		bundle.ImageEnabled = false
	}
	state, err := session.Begin(gen, bundle)
	if err != nil {
		return state, err
	}
	if bundle.ImageEnabled {
		s.generateImage(session, gen, bundle.Movie)
	}
	return state, nil
}

// generateImage runs detached from the phase transitions; the result only
// lands if the session still has the same generation.
func (s *QuizService) generateImage(session *Session, gen uint64, movie domain.Movie) {
	genre := fallbackGenre
	if len(movie.Genres) > 0 {
		genre = movie.Genres[0]
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.imageTimeout)
		defer cancel()

		ref, err := s.images.GenerateImage(ctx, movie.Title, genre)
		if err != nil {
			if session.Generation() == gen {
				log.Printf("image generation failed for %s: %v", movie.ID, err)
			}
			return
		}
		session.SetImage(gen, ref)
	}()
}

// Reset returns the session to the loading phase and invalidates in-flight work.
func (s *QuizService) Reset(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	session.Reset()
	return session.Snapshot(), nil
}

// State returns the current snapshot of a session.
func (s *QuizService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.Snapshot(), nil
}

func (s *QuizService) SkipImage(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.SkipImage()
}

// NextKeyword reveals another keyword, or moves on to the description once
// every allowed keyword has been shown.
func (s *QuizService) NextKeyword(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, revealed, err := session.NextKeyword()
	if err != nil || revealed {
		return state, err
	}
	return session.SkipToDescription()
}

func (s *QuizService) SkipToDescription(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.SkipToDescription()
}

func (s *QuizService) RevealTitle(ctx context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, err := session.RevealTitle()
	if err == nil {
		s.recordRound(ctx, session)
	}
	return state, err
}

func (s *QuizService) NextQuote(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, _, err := session.NextQuote()
	return state, err
}

// SubmitGuess checks a title guess in quotes mode.
func (s *QuizService) SubmitGuess(ctx context.Context, sessionID, guess string) (domain.GuessResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.GuessResult{}, err
	}
	result, err := session.SubmitGuess(guess)
	if err == nil {
		s.recordRound(ctx, session)
	}
	return result, err
}

func (s *QuizService) GiveUp(ctx context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, err := session.GiveUp()
	if err == nil {
		s.recordRound(ctx, session)
	}
	return state, err
}

func (s *QuizService) SubmitTriviaAnswer(_ context.Context, sessionID, answer string) (domain.TriviaResult, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.TriviaResult{}, err
	}
	return session.SubmitTriviaAnswer(answer)
}

func (s *QuizService) NextTrivia(ctx context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	state, err := session.NextTrivia()
	if err == nil {
		s.recordRound(ctx, session)
	}
	return state, err
}

// Subscribe returns a channel that receives session snapshots.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionState, func(), error) {
	session := s.sessions.GetOrCreate(sessionID)
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave drops the session once nobody is watching it. The reset makes any
// in-flight bootstrap or image result stale.
func (s *QuizService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	if session.ResetIfIdle() {
		s.sessions.DeleteIfEmpty(sessionID)
	}
}

// History lists the most recent completed rounds for a session.
func (s *QuizService) History(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	if s.history == nil {
		return []domain.RoundRecord{}, nil
	}
	return s.history.Recent(ctx, sessionID, domain.HistoryLimit(limit))
}

func (s *QuizService) lookup(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) recordRound(ctx context.Context, session *Session) {
	round, ok := session.TakeCompletedRound()
	if !ok || s.history == nil {
		return
	}
	if err := s.history.Record(ctx, round); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("record round %s: %v", round.ID, err)
	}
}
