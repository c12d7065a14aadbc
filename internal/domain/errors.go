package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no quiz session exists for an id.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrMovieNotFound indicates the catalog could not resolve a movie.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrUnknownMode is returned for a mode outside keywords/quotes/trivia.
	ErrUnknownMode = errors.New("unknown quiz mode")
	// ErrNoQuotes is returned when no movie with quotes was found within the retry budget.
	ErrNoQuotes = errors.New("no quotes available")
	// ErrNoTrivia is returned when no trivia question could be generated.
	ErrNoTrivia = errors.New("no trivia available")
	// ErrEmptyGuess rejects blank guesses before evaluation.
	ErrEmptyGuess = errors.New("guess is empty")
	// ErrInvalidPhase is returned when an action is not allowed in the current phase.
	ErrInvalidPhase = errors.New("action not allowed in current phase")
	// ErrOptionNotFound indicates a trivia answer that is not one of the offered options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrAlreadyAnswered is returned when the current trivia question was already answered.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrStaleGeneration means the session was reset while a result was in flight.
	ErrStaleGeneration = errors.New("session generation changed")
)
