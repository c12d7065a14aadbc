package app

import (
	"context"
	"fmt"
	"log"

	"movie-quiz-service/internal/domain"
)

const (
	defaultQuoteAttempts = 3
	defaultTriviaLimit   = 5
	// MaxSanitizedKeywords caps the keyword list after the sanitizer pass.
	MaxSanitizedKeywords = 15
)

// CatalogProvider serves movie metadata and mode specific content.
type CatalogProvider interface {
	RandomMovie(ctx context.Context) (domain.Movie, error)
	Keywords(ctx context.Context, movieID string) ([]string, error)
	Quotes(ctx context.Context, movieID string) ([]domain.Quote, error)
	Trivia(ctx context.Context, movieID string) ([]domain.TriviaFact, error)
}

// KeywordSanitizer removes duplicate, generic or title revealing keywords.
type KeywordSanitizer interface {
	SanitizeKeywords(ctx context.Context, keywords []string, movieTitle string) ([]string, error)
}

// TriviaQuestionGenerator turns a trivia fact into a multiple-choice question.
type TriviaQuestionGenerator interface {
	GenerateQuestion(ctx context.Context, fact, movieTitle string) (domain.GeneratedQuestion, error)
}

// ImageGenerator produces an illustration for a movie.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, movieTitle, genre string) (string, error)
}

// BootstrapConfig holds the per-round content settings.
type BootstrapConfig struct {
	MaxKeywords      int
	EnableImages     bool
	SanitizeKeywords bool
	QuoteAttempts    int
	TriviaLimit      int
}

// Bundle is everything a session needs to leave the loading phase.
type Bundle struct {
	Mode         domain.Mode
	Movie        domain.Movie
	Quotes       []domain.Quote
	Trivia       []domain.TriviaItem
	MaxKeywords  int
	ImageEnabled bool
}

// Bootstrapper assembles a Bundle from the catalog and AI collaborators.
// Sanitizer and question generator may be nil.
type Bootstrapper struct {
	catalog   CatalogProvider
	sanitizer KeywordSanitizer
	questions TriviaQuestionGenerator
	cfg       BootstrapConfig
}

func NewBootstrapper(catalog CatalogProvider, sanitizer KeywordSanitizer, questions TriviaQuestionGenerator, cfg BootstrapConfig) *Bootstrapper {
	if cfg.QuoteAttempts <= 0 {
		cfg.QuoteAttempts = defaultQuoteAttempts
	}
	if cfg.TriviaLimit <= 0 {
		cfg.TriviaLimit = defaultTriviaLimit
	}
	return &Bootstrapper{catalog: catalog, sanitizer: sanitizer, questions: questions, cfg: cfg}
}

// Build fetches a movie and the content for mode. The movie fetch always
// precedes content fetches. progress receives loading messages in order and
// may be nil.
func (b *Bootstrapper) Build(ctx context.Context, mode domain.Mode, progress func(string)) (Bundle, error) {
	if progress == nil {
		progress = func(string) {}
	}
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return Bundle{}, err
	}

	progress("Finding a movie...")
	movie, err := b.catalog.RandomMovie(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("fetch movie: %w", err)
	}

	bundle := Bundle{Mode: mode, MaxKeywords: b.cfg.MaxKeywords}
	switch mode {
	case domain.ModeKeywords:
		movie.Keywords = b.loadKeywords(ctx, movie, progress)
		bundle.ImageEnabled = b.cfg.EnableImages
	case domain.ModeQuotes:
		outcome, err := b.findQuotedMovie(ctx, movie, progress)
		if err != nil {
			return Bundle{}, err
		}
		if !outcome.found {
			return Bundle{}, fmt.Errorf("%w after %d movies", domain.ErrNoQuotes, outcome.attempts)
		}
		movie = outcome.movie
		bundle.Quotes = outcome.quotes
	case domain.ModeTrivia:
		items, err := b.buildTrivia(ctx, movie, progress)
		if err != nil {
			return Bundle{}, err
		}
		bundle.Trivia = items
	}

	bundle.Movie = movie
	return bundle, nil
}

func (b *Bootstrapper) loadKeywords(ctx context.Context, movie domain.Movie, progress func(string)) []string {
	progress("Collecting keywords...")
	keywords, err := b.catalog.Keywords(ctx, movie.ID)
	if err != nil {
		log.Printf("keywords for %s unavailable, using movie record: %v", movie.ID, err)
		keywords = movie.Keywords
	}
	if b.sanitizer == nil || !b.cfg.SanitizeKeywords || len(keywords) == 0 {
		return keywords
	}

	progress("Polishing keywords...")
	cleaned, err := b.sanitizer.SanitizeKeywords(ctx, keywords, movie.Title)
	if err != nil || len(cleaned) == 0 {
		if err != nil {
			log.Printf("keyword sanitizer failed for %s: %v", movie.ID, err)
		}
		return truncate(keywords, MaxSanitizedKeywords)
	}
	return truncate(cleaned, MaxSanitizedKeywords)
}

// quoteOutcome is the tagged result of the quote retry loop.
type quoteOutcome struct {
	found    bool
	movie    domain.Movie
	quotes   []domain.Quote
	attempts int
}

// findQuotedMovie tries up to QuoteAttempts movies, starting with first, and
// stops at the first one that has quotes.
func (b *Bootstrapper) findQuotedMovie(ctx context.Context, first domain.Movie, progress func(string)) (quoteOutcome, error) {
	movie := first
	for attempt := 1; attempt <= b.cfg.QuoteAttempts; attempt++ {
		if attempt > 1 {
			progress(fmt.Sprintf("No quotes found, trying another movie (%d of %d)...", attempt, b.cfg.QuoteAttempts))
			next, err := b.catalog.RandomMovie(ctx)
			if err != nil {
				return quoteOutcome{attempts: attempt}, fmt.Errorf("fetch movie: %w", err)
			}
			movie = next
		}

		progress("Fetching quotes...")
		quotes, err := b.catalog.Quotes(ctx, movie.ID)
		if err != nil {
			log.Printf("quotes for %s unavailable: %v", movie.ID, err)
			continue
		}
		if len(quotes) > 0 {
			return quoteOutcome{found: true, movie: movie, quotes: quotes, attempts: attempt}, nil
		}
	}
	return quoteOutcome{attempts: b.cfg.QuoteAttempts}, nil
}

// buildTrivia generates questions one fact at a time, in input order, so that
// progress messages follow the facts. Failed items are skipped.
func (b *Bootstrapper) buildTrivia(ctx context.Context, movie domain.Movie, progress func(string)) ([]domain.TriviaItem, error) {
	if b.questions == nil {
		return nil, fmt.Errorf("%w: no question generator configured", domain.ErrNoTrivia)
	}

	progress("Fetching trivia...")
	facts, err := b.catalog.Trivia(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch trivia: %w", err)
	}
	facts = truncate(facts, b.cfg.TriviaLimit)
	if len(facts) == 0 {
		return nil, domain.ErrNoTrivia
	}

	items := make([]domain.TriviaItem, 0, len(facts))
	for i, fact := range facts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress(fmt.Sprintf("Generating question %d of %d...", i+1, len(facts)))
		q, err := b.questions.GenerateQuestion(ctx, fact.Text, movie.Title)
		if err != nil {
			log.Printf("trivia question %s skipped: %v", fact.ID, err)
			continue
		}
		if q.Question == "" || !containsOption(q.Options, q.CorrectAnswer) {
			log.Printf("trivia question %s skipped: malformed question", fact.ID)
			continue
		}
		items = append(items, domain.TriviaItem{
			ID:            fact.ID,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Options:       append([]string(nil), q.Options...),
		})
	}
	if len(items) == 0 {
		return nil, domain.ErrNoTrivia
	}
	return items, nil
}

func truncate[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
