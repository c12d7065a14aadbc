package memory

import (
	"context"
	"sort"

	"movie-quiz-service/internal/domain"
)

// StaticCatalog serves movie content from maps (useful for tests/demos).
type StaticCatalog struct {
	movies map[string]domain.Movie
	quotes map[string][]domain.Quote
	trivia map[string][]domain.TriviaFact
}

func NewStaticCatalog(movies []domain.Movie, quotes map[string][]domain.Quote, trivia map[string][]domain.TriviaFact) *StaticCatalog {
	byID := make(map[string]domain.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	return &StaticCatalog{movies: byID, quotes: quotes, trivia: trivia}
}

// IDs returns the movie ids in a stable order.
func (c *StaticCatalog) IDs() []string {
	ids := make([]string, 0, len(c.movies))
	for id := range c.movies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *StaticCatalog) LoadMovie(_ context.Context, movieID string) (domain.Movie, error) {
	if movie, ok := c.movies[movieID]; ok {
		return movie, nil
	}
	return domain.Movie{}, domain.ErrMovieNotFound
}

func (c *StaticCatalog) Keywords(_ context.Context, movieID string) ([]string, error) {
	movie, ok := c.movies[movieID]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	return append([]string(nil), movie.Keywords...), nil
}

func (c *StaticCatalog) Quotes(_ context.Context, movieID string) ([]domain.Quote, error) {
	return append([]domain.Quote(nil), c.quotes[movieID]...), nil
}

func (c *StaticCatalog) Trivia(_ context.Context, movieID string) ([]domain.TriviaFact, error) {
	return append([]domain.TriviaFact(nil), c.trivia[movieID]...), nil
}
