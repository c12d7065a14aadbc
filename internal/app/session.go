package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"movie-quiz-service/internal/domain"
	"movie-quiz-service/internal/match"
	"movie-quiz-service/internal/scoring"
)

// Session is the mutable state of one player's quiz round. All transitions
// take the session lock, so each one is atomic to callers.
type Session struct {
	id  string
	now func() time.Time

	mu          sync.RWMutex
	generation  uint64
	subscribers map[chan domain.SessionState]struct{}

	mode               domain.Mode
	phase              domain.Phase
	movie              *domain.Movie
	image              string
	keywordLimit       int
	revealedKeywords   []string
	quotes             []domain.Quote
	currentQuoteIndex  int
	trivia             []domain.TriviaItem
	currentTriviaIndex int
	triviaSelected     string
	hintsUsed          int
	userGuess          string
	isCorrectGuess     *bool
	score              int
	loadingMessage     string
	lastError          string
	startTime          time.Time
	endTime            time.Time
	roundTaken         bool
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		now:         now,
		phase:       domain.PhaseLoading,
		subscribers: make(map[chan domain.SessionState]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Generation returns the current reset counter.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Reset reinitializes every field and returns the new generation. Results
// produced for an older generation are rejected afterwards.
func (s *Session) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetLocked()
}

// ResetIfIdle resets the session only when nobody is subscribed, and reports
// whether it did.
func (s *Session) ResetIfIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subscribers) > 0 {
		return false
	}
	s.resetLocked()
	return true
}

func (s *Session) resetLocked() uint64 {
	s.generation++
	s.mode = ""
	s.phase = domain.PhaseLoading
	s.movie = nil
	s.image = ""
	s.keywordLimit = 0
	s.revealedKeywords = nil
	s.quotes = nil
	s.currentQuoteIndex = 0
	s.trivia = nil
	s.currentTriviaIndex = 0
	s.triviaSelected = ""
	s.hintsUsed = 0
	s.userGuess = ""
	s.isCorrectGuess = nil
	s.score = 0
	s.loadingMessage = ""
	s.lastError = ""
	s.startTime = time.Time{}
	s.endTime = time.Time{}
	s.roundTaken = false

	s.broadcastLocked()
	return s.generation
}

// Begin leaves the loading phase with a bootstrapped bundle.
func (s *Session) Begin(gen uint64, bundle Bundle) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return s.snapshotLocked(), domain.ErrStaleGeneration
	}
	if s.phase != domain.PhaseLoading {
		return s.snapshotLocked(), domain.ErrInvalidPhase
	}

	var next domain.Phase
	switch bundle.Mode {
	case domain.ModeKeywords:
		next = domain.PhaseKeywords
		if bundle.ImageEnabled {
			next = domain.PhaseImage
		}
	case domain.ModeQuotes:
		next = domain.PhaseQuotes
	case domain.ModeTrivia:
		next = domain.PhaseTrivia
	default:
		return s.snapshotLocked(), domain.ErrUnknownMode
	}

	movie := bundle.Movie
	movie.Keywords = append([]string(nil), bundle.Movie.Keywords...)
	s.movie = &movie
	s.mode = bundle.Mode
	s.quotes = append([]domain.Quote(nil), bundle.Quotes...)
	s.trivia = append([]domain.TriviaItem(nil), bundle.Trivia...)
	s.keywordLimit = len(movie.Keywords)
	if bundle.MaxKeywords > 0 && bundle.MaxKeywords < s.keywordLimit {
		s.keywordLimit = bundle.MaxKeywords
	}
	s.loadingMessage = ""
	s.lastError = ""
	s.startTime = s.now()
	s.phase = next

	return s.broadcastLocked(), nil
}

// SetImage stores a generated image if the session has not been reset since
// the request was issued.
func (s *Session) SetImage(gen uint64, ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.movie == nil {
		return false
	}
	s.image = ref
	s.broadcastLocked()
	return true
}

// SetLoadingMessage publishes bootstrap progress.
func (s *Session) SetLoadingMessage(gen uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.phase != domain.PhaseLoading {
		return false
	}
	s.loadingMessage = msg
	s.broadcastLocked()
	return true
}

// Fail records a bootstrap failure; the session stays in the loading phase.
func (s *Session) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.phase != domain.PhaseLoading {
		return false
	}
	s.loadingMessage = ""
	s.lastError = err.Error()
	s.broadcastLocked()
	return true
}

// SkipImage moves from the image phase to the keyword hints.
func (s *Session) SkipImage() (domain.SessionState, error) {
	return s.move(domain.PhaseImage, domain.PhaseKeywords)
}

// SkipToDescription leaves the keyword hints for the description.
func (s *Session) SkipToDescription() (domain.SessionState, error) {
	return s.move(domain.PhaseKeywords, domain.PhaseDescription)
}

// RevealTitle ends a keywords round.
func (s *Session) RevealTitle() (domain.SessionState, error) {
	return s.move(domain.PhaseDescription, domain.PhaseTitle)
}

func (s *Session) move(from, to domain.Phase) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil {
		return s.snapshotLocked(), nil
	}
	if s.phase != from {
		return s.snapshotLocked(), domain.ErrInvalidPhase
	}
	s.setPhaseLocked(to)
	return s.broadcastLocked(), nil
}

// NextKeyword reveals the next keyword and counts it as a hint. It reports
// false without changing anything once the keyword limit is reached.
func (s *Session) NextKeyword() (domain.SessionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil {
		return s.snapshotLocked(), false, nil
	}
	if s.phase != domain.PhaseKeywords {
		return s.snapshotLocked(), false, domain.ErrInvalidPhase
	}
	next := len(s.revealedKeywords)
	if next >= s.keywordLimit {
		return s.snapshotLocked(), false, nil
	}
	s.revealedKeywords = append(s.revealedKeywords, s.movie.Keywords[next])
	s.hintsUsed++
	return s.broadcastLocked(), true, nil
}

// NextQuote reveals the next quote and counts it as a hint.
func (s *Session) NextQuote() (domain.SessionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil || len(s.quotes) == 0 {
		return s.snapshotLocked(), false, nil
	}
	if s.phase != domain.PhaseQuotes {
		return s.snapshotLocked(), false, domain.ErrInvalidPhase
	}
	if s.currentQuoteIndex >= len(s.quotes)-1 {
		return s.snapshotLocked(), false, nil
	}
	s.currentQuoteIndex++
	s.hintsUsed++
	return s.broadcastLocked(), true, nil
}

// SubmitGuess evaluates a title guess and ends the quotes round.
func (s *Session) SubmitGuess(guess string) (domain.GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil {
		return domain.GuessResult{}, nil
	}
	if s.phase != domain.PhaseQuotes {
		return domain.GuessResult{}, domain.ErrInvalidPhase
	}
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return domain.GuessResult{}, domain.ErrEmptyGuess
	}

	correct := match.IsMatch(guess, s.movie.Title)
	timed := !s.startTime.IsZero()
	var elapsed time.Duration
	if timed {
		elapsed = s.now().Sub(s.startTime)
	}

	s.userGuess = guess
	s.isCorrectGuess = &correct
	s.score = scoring.GuessScore(correct, elapsed, timed, s.hintsUsed)
	s.setPhaseLocked(domain.PhaseTitle)
	s.broadcastLocked()

	return domain.GuessResult{
		Guess:   guess,
		Correct: correct,
		Score:   s.score,
		Title:   s.movie.Title,
	}, nil
}

// GiveUp reveals the title without scoring.
func (s *Session) GiveUp() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil {
		return s.snapshotLocked(), nil
	}
	if s.phase != domain.PhaseQuotes && s.phase != domain.PhaseTrivia {
		return s.snapshotLocked(), domain.ErrInvalidPhase
	}
	s.setPhaseLocked(domain.PhaseTitle)
	return s.broadcastLocked(), nil
}

// SubmitTriviaAnswer scores the current trivia question. Each question can be
// answered once.
func (s *Session) SubmitTriviaAnswer(answer string) (domain.TriviaResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil || len(s.trivia) == 0 {
		return domain.TriviaResult{}, nil
	}
	if s.phase != domain.PhaseTrivia {
		return domain.TriviaResult{}, domain.ErrInvalidPhase
	}
	if s.triviaSelected != "" {
		return domain.TriviaResult{}, domain.ErrAlreadyAnswered
	}
	if answer == "" {
		return domain.TriviaResult{}, domain.ErrEmptyGuess
	}

	item := s.trivia[s.currentTriviaIndex]
	if !containsOption(item.Options, answer) {
		return domain.TriviaResult{}, domain.ErrOptionNotFound
	}

	awarded := scoring.TriviaScore(answer, item.CorrectAnswer)
	correct := awarded > 0
	s.score += awarded
	s.triviaSelected = answer
	s.userGuess = answer
	s.isCorrectGuess = &correct
	s.broadcastLocked()

	return domain.TriviaResult{
		QuestionID:    item.ID,
		Selected:      answer,
		CorrectAnswer: item.CorrectAnswer,
		Correct:       correct,
		Awarded:       awarded,
		TotalScore:    s.score,
	}, nil
}

// NextTrivia advances to the next question, or to the title after the last one.
func (s *Session) NextTrivia() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.movie == nil || len(s.trivia) == 0 {
		return s.snapshotLocked(), nil
	}
	if s.phase != domain.PhaseTrivia {
		return s.snapshotLocked(), domain.ErrInvalidPhase
	}
	if s.currentTriviaIndex < len(s.trivia)-1 {
		s.currentTriviaIndex++
		s.triviaSelected = ""
	} else {
		s.setPhaseLocked(domain.PhaseTitle)
	}
	return s.broadcastLocked(), nil
}

// Snapshot returns the client view of the session.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// TakeCompletedRound returns the finished round once; later calls report false
// until the session is reset and completed again.
func (s *Session) TakeCompletedRound() (domain.RoundRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseTitle || s.movie == nil || s.roundTaken {
		return domain.RoundRecord{}, false
	}
	s.roundTaken = true

	guessed := s.isCorrectGuess != nil && *s.isCorrectGuess
	if s.mode == domain.ModeTrivia {
		guessed = s.score > 0
	}
	return domain.RoundRecord{
		ID:         uuid.NewString(),
		SessionID:  s.id,
		MovieID:    s.movie.ID,
		MovieTitle: s.movie.Title,
		Mode:       s.mode,
		Guessed:    guessed,
		TimeSpent:  s.endTime.Sub(s.startTime),
		HintsUsed:  s.hintsUsed,
		Score:      s.score,
		PlayedAt:   s.endTime,
	}, true
}

// IsEmpty reports whether nobody is subscribed to the session.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) == 0
}

func (s *Session) setPhaseLocked(phase domain.Phase) {
	s.phase = phase
	if phase == domain.PhaseTitle {
		s.endTime = s.now()
	}
}

func (s *Session) subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	// The channel is fresh, so this send never blocks.
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionState {
	state := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// Slow subscriber: drop its oldest snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (s *Session) snapshotLocked() domain.SessionState {
	state := domain.SessionState{
		SessionID:          s.id,
		Mode:               s.mode,
		Phase:              s.phase,
		Image:              s.image,
		KeywordLimit:       s.keywordLimit,
		RevealedKeywords:   append([]string{}, s.revealedKeywords...),
		RevealedQuotes:     []domain.Quote{},
		QuoteCount:         len(s.quotes),
		CurrentQuoteIndex:  s.currentQuoteIndex,
		TriviaCount:        len(s.trivia),
		CurrentTriviaIndex: s.currentTriviaIndex,
		HintsUsed:          s.hintsUsed,
		UserGuess:          s.userGuess,
		Score:              s.score,
		LoadingMessage:     s.loadingMessage,
		Error:              s.lastError,
	}
	if s.isCorrectGuess != nil {
		correct := *s.isCorrectGuess
		state.IsCorrectGuess = &correct
	}
	if !s.startTime.IsZero() {
		started := s.startTime
		state.StartedAt = &started
	}
	if !s.endTime.IsZero() {
		ended := s.endTime
		state.EndedAt = &ended
	}
	if len(s.quotes) > 0 {
		state.RevealedQuotes = append(state.RevealedQuotes, s.quotes[:s.currentQuoteIndex+1]...)
	}
	if len(s.trivia) > 0 {
		item := s.trivia[s.currentTriviaIndex]
		view := &domain.TriviaView{
			ID:       item.ID,
			Question: item.Question,
			Options:  append([]string(nil), item.Options...),
			Selected: s.triviaSelected,
		}
		if s.triviaSelected != "" {
			view.CorrectAnswer = item.CorrectAnswer
		}
		state.Trivia = view
	}

	if s.movie != nil {
		switch s.phase {
		case domain.PhaseDescription:
			state.Description = s.movie.Description
		case domain.PhaseTitle:
			state.MovieID = s.movie.ID
			state.Title = s.movie.Title
			state.Year = s.movie.Year
			state.Description = s.movie.Description
			state.Genres = append([]string(nil), s.movie.Genres...)
			state.PosterURL = s.movie.PosterURL
		}
	}
	return state
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
