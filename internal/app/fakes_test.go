package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"movie-quiz-service/internal/domain"
)

type fakeCatalog struct {
	mu         sync.Mutex
	movies     []domain.Movie
	next       int
	movieErr   error
	keywords   map[string][]string
	keywordErr error
	quotes     map[string][]domain.Quote
	trivia     map[string][]domain.TriviaFact
	movieCalls int
	gate       chan struct{}
}

func (c *fakeCatalog) RandomMovie(ctx context.Context) (domain.Movie, error) {
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return domain.Movie{}, ctx.Err()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movieCalls++
	if c.movieErr != nil {
		return domain.Movie{}, c.movieErr
	}
	if c.next >= len(c.movies) {
		return domain.Movie{}, domain.ErrMovieNotFound
	}
	m := c.movies[c.next]
	c.next++
	return m, nil
}

func (c *fakeCatalog) Keywords(_ context.Context, movieID string) ([]string, error) {
	if c.keywordErr != nil {
		return nil, c.keywordErr
	}
	return c.keywords[movieID], nil
}

func (c *fakeCatalog) Quotes(_ context.Context, movieID string) ([]domain.Quote, error) {
	return c.quotes[movieID], nil
}

func (c *fakeCatalog) Trivia(_ context.Context, movieID string) ([]domain.TriviaFact, error) {
	return c.trivia[movieID], nil
}

func (c *fakeCatalog) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.movieCalls
}

type fakeSanitizer struct {
	out   []string
	err   error
	calls int
}

func (s *fakeSanitizer) SanitizeKeywords(_ context.Context, keywords []string, _ string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type fakeQuestions struct {
	fail  map[string]bool
	order []string
}

func (q *fakeQuestions) GenerateQuestion(_ context.Context, fact, _ string) (domain.GeneratedQuestion, error) {
	q.order = append(q.order, fact)
	if q.fail[fact] {
		return domain.GeneratedQuestion{}, errors.New("model returned garbage")
	}
	return domain.GeneratedQuestion{
		Question:      "Q: " + fact,
		CorrectAnswer: "right",
		Options:       []string{"wrong-a", "right", "wrong-b", "wrong-c"},
	}, nil
}

type fakeImages struct {
	ref     string
	err     error
	release chan struct{}
}

func (f *fakeImages) GenerateImage(ctx context.Context, _, _ string) (string, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 11, 22, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sampleMovie(id, title string, keywords ...string) domain.Movie {
	return domain.Movie{
		ID:          id,
		Title:       title,
		Year:        1999,
		Description: "A hacker learns the truth about reality.",
		Keywords:    keywords,
		Genres:      []string{"Science Fiction"},
		IMDbID:      id,
	}
}

func sampleTrivia(n int) []domain.TriviaItem {
	items := make([]domain.TriviaItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.TriviaItem{
			ID:            string(rune('a' + i)),
			Question:      "Which one?",
			CorrectAnswer: "right",
			Options:       []string{"wrong", "right", "other"},
		})
	}
	return items
}
