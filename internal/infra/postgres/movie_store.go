package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"movie-quiz-service/internal/domain"
)

// MovieLoader is the upstream used when a movie is not stored yet.
type MovieLoader interface {
	LoadMovie(ctx context.Context, movieID string) (domain.Movie, error)
}

// MovieStore keeps movie JSONB in Postgres and reads through to an upstream
// loader on a miss, storing what it fetched.
type MovieStore struct {
	pool     *pgxpool.Pool
	upstream MovieLoader
}

// NewMovieStore builds a store; upstream may be nil for a read-only store.
func NewMovieStore(pool *pgxpool.Pool, upstream MovieLoader) *MovieStore {
	return &MovieStore{pool: pool, upstream: upstream}
}

func (s *MovieStore) LoadMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM movies WHERE id=$1`, movieID).Scan(&raw)
	switch {
	case err == nil:
		var movie domain.Movie
		if err := json.Unmarshal(raw, &movie); err != nil {
			return domain.Movie{}, fmt.Errorf("unmarshal movie: %w", err)
		}
		return movie, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Movie{}, fmt.Errorf("load movie: %w", err)
	case s.upstream == nil:
		return domain.Movie{}, domain.ErrMovieNotFound
	}

	movie, err := s.upstream.LoadMovie(ctx, movieID)
	if err != nil {
		return domain.Movie{}, err
	}
	if err := s.Save(ctx, movie); err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

// Save upserts movie keyed by its id.
func (s *MovieStore) Save(ctx context.Context, movie domain.Movie) error {
	data, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("marshal movie: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO movies (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		movie.ID, data)
	if err != nil {
		return fmt.Errorf("save movie: %w", err)
	}
	return nil
}
