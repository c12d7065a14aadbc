package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"movie-quiz-service/internal/domain"
)

// MovieLoader fetches a movie record from the catalog API or another backing store.
type MovieLoader interface {
	LoadMovie(ctx context.Context, movieID string) (domain.Movie, error)
}

// MovieRepository caches movie records as JSON in Redis and falls back to a
// loader on cache miss. Records are stored as: SET movie:{movieID} {json}
type MovieRepository struct {
	client *redis.Client
	loader MovieLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewMovieRepository(client *redis.Client, loader MovieLoader, ttl time.Duration) *MovieRepository {
	return &MovieRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *MovieRepository) LoadMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	if movie, ok := r.cached(ctx, movieID); ok {
		return movie, nil
	}

	result, err, _ := r.sf.Do(movieID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if movie, ok := r.cached(ctx, movieID); ok {
			return movie, nil
		}

		movie, err := r.loader.LoadMovie(ctx, movieID)
		if err != nil {
			return domain.Movie{}, err
		}

		data, err := json.Marshal(movie)
		if err != nil {
			return domain.Movie{}, fmt.Errorf("marshal movie: %w", err)
		}
		// A cache write failure only costs a future reload.
		_ = r.client.Set(ctx, r.key(movieID), data, r.ttlWithJitter()).Err()
		return movie, nil
	})
	if err != nil {
		return domain.Movie{}, err
	}
	return result.(domain.Movie), nil
}

func (r *MovieRepository) cached(ctx context.Context, movieID string) (domain.Movie, bool) {
	raw, err := r.client.Get(ctx, r.key(movieID)).Bytes()
	if err != nil {
		return domain.Movie{}, false
	}
	var movie domain.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		return domain.Movie{}, false
	}
	return movie, true
}

// Clear drops every cached movie record. Other keys in the database are left alone.
func (r *MovieRepository) Clear(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan movie keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *MovieRepository) key(movieID string) string {
	return "movie:" + movieID
}

func (r *MovieRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
