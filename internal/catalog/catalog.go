package catalog

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"movie-quiz-service/internal/domain"
)

// MovieSource resolves a movie record, usually through a cache.
type MovieSource interface {
	LoadMovie(ctx context.Context, movieID string) (domain.Movie, error)
}

// ContentSource serves the mode specific content for a movie.
type ContentSource interface {
	Keywords(ctx context.Context, movieID string) ([]string, error)
	Quotes(ctx context.Context, movieID string) ([]domain.Quote, error)
	Trivia(ctx context.Context, movieID string) ([]domain.TriviaFact, error)
}

var ErrEmptyPool = errors.New("movie pool is empty")

// Catalog picks random movies from a fixed pool of ids. Consecutive picks
// never repeat the same id when the pool has more than one entry.
type Catalog struct {
	movies  MovieSource
	content ContentSource
	pool    []string

	mu   sync.Mutex
	rnd  *rand.Rand
	last string
}

// New builds a Catalog. An empty pool falls back to PopularMovieIDs.
func New(movies MovieSource, content ContentSource, pool []string) *Catalog {
	if len(pool) == 0 {
		pool = PopularMovieIDs
	}
	return &Catalog{
		movies:  movies,
		content: content,
		pool:    append([]string(nil), pool...),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) RandomMovie(ctx context.Context) (domain.Movie, error) {
	id, err := c.pick()
	if err != nil {
		return domain.Movie{}, err
	}
	return c.movies.LoadMovie(ctx, id)
}

func (c *Catalog) Keywords(ctx context.Context, movieID string) ([]string, error) {
	return c.content.Keywords(ctx, movieID)
}

func (c *Catalog) Quotes(ctx context.Context, movieID string) ([]domain.Quote, error) {
	return c.content.Quotes(ctx, movieID)
}

func (c *Catalog) Trivia(ctx context.Context, movieID string) ([]domain.TriviaFact, error) {
	return c.content.Trivia(ctx, movieID)
}

func (c *Catalog) pick() (string, error) {
	if len(c.pool) == 0 {
		return "", ErrEmptyPool
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.pool[c.rnd.Intn(len(c.pool))]
	if id == c.last && len(c.pool) > 1 {
		id = c.pool[(indexOf(c.pool, id)+1+c.rnd.Intn(len(c.pool)-1))%len(c.pool)]
	}
	c.last = id
	return id, nil
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
