package domain

import (
	"fmt"
	"time"
)

// Mode is the quiz variant chosen at session start.
type Mode string

const (
	ModeKeywords Mode = "keywords"
	ModeQuotes   Mode = "quotes"
	ModeTrivia   Mode = "trivia"
)

// ParseMode validates a client supplied mode.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(raw); m {
	case ModeKeywords, ModeQuotes, ModeTrivia:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// Phase is a stage of the session state machine.
type Phase string

const (
	PhaseLoading     Phase = "loading"
	PhaseImage       Phase = "image"
	PhaseKeywords    Phase = "keywords"
	PhaseQuotes      Phase = "quotes"
	PhaseTrivia      Phase = "trivia"
	PhaseDescription Phase = "description"
	PhaseTitle       Phase = "title"
)

// Movie is immutable once fetched. Keyword order is presentation order.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	Runtime     int      `json:"runtime"`
	PosterURL   string   `json:"posterUrl"`
	IMDbID      string   `json:"imdbId"`
}

// Quote is a line spoken in the movie.
type Quote struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Character string `json:"character"`
}

// TriviaFact is a raw fact from the catalog, spoilers already removed.
type TriviaFact struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// GeneratedQuestion is the AI generated multiple-choice form of a fact.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// TriviaItem is a question presented in trivia mode. Options are shuffled once at creation.
type TriviaItem struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// TriviaView hides the answer until the question has been answered.
type TriviaView struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      string   `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// SessionState is the client-facing snapshot of a quiz session.
type SessionState struct {
	SessionID          string      `json:"sessionId"`
	Mode               Mode        `json:"mode,omitempty"`
	Phase              Phase       `json:"phase"`
	MovieID            string      `json:"movieId,omitempty"`
	Title              string      `json:"title,omitempty"`
	Year               int         `json:"year,omitempty"`
	Description        string      `json:"description,omitempty"`
	Genres             []string    `json:"genres,omitempty"`
	PosterURL          string      `json:"posterUrl,omitempty"`
	Image              string      `json:"image,omitempty"`
	KeywordLimit       int         `json:"keywordLimit"`
	RevealedKeywords   []string    `json:"revealedKeywords"`
	RevealedQuotes     []Quote     `json:"revealedQuotes"`
	QuoteCount         int         `json:"quoteCount"`
	CurrentQuoteIndex  int         `json:"currentQuoteIndex"`
	Trivia             *TriviaView `json:"trivia,omitempty"`
	TriviaCount        int         `json:"triviaCount"`
	CurrentTriviaIndex int         `json:"currentTriviaIndex"`
	HintsUsed          int         `json:"hintsUsed"`
	UserGuess          string      `json:"userGuess,omitempty"`
	IsCorrectGuess     *bool       `json:"isCorrectGuess,omitempty"`
	Score              int         `json:"score"`
	LoadingMessage     string      `json:"loadingMessage,omitempty"`
	Error              string      `json:"error,omitempty"`
	StartedAt          *time.Time  `json:"startedAt,omitempty"`
	EndedAt            *time.Time  `json:"endedAt,omitempty"`
}

// GuessResult summarizes a title guess.
type GuessResult struct {
	Guess   string `json:"guess"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
	Title   string `json:"title"`
}

// TriviaResult summarizes a trivia answer.
type TriviaResult struct {
	QuestionID    string `json:"questionId"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Awarded       int    `json:"awarded"`
	TotalScore    int    `json:"totalScore"`
}

// RoundRecord is a completed round written to the history log.
type RoundRecord struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"sessionId"`
	MovieID    string        `json:"movieId"`
	MovieTitle string        `json:"movieTitle"`
	Mode       Mode          `json:"mode"`
	Guessed    bool          `json:"guessed"`
	TimeSpent  time.Duration `json:"timeSpent"`
	HintsUsed  int           `json:"hintsUsed"`
	Score      int           `json:"score"`
	PlayedAt   time.Time     `json:"playedAt"`
}

// MaxHistoryEntries caps the per-session history log.
const MaxHistoryEntries = 50

// HistoryLimit maps a configured log size onto 1..MaxHistoryEntries.
func HistoryLimit(limit int) int {
	if limit <= 0 || limit > MaxHistoryEntries {
		return MaxHistoryEntries
	}
	return limit
}
