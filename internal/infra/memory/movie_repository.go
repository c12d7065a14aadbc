package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"movie-quiz-service/internal/domain"
)

// MovieLoader fetches a movie record from the catalog API or another backing store.
type MovieLoader interface {
	LoadMovie(ctx context.Context, movieID string) (domain.Movie, error)
}

// MovieRepository caches movies with TTL to avoid repeated catalog calls.
type MovieRepository struct {
	loader MovieLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedMovie
}

type cachedMovie struct {
	movie     domain.Movie
	expiresAt time.Time
}

// NewMovieRepository wraps loader. A non-positive ttl keeps entries until Clear.
func NewMovieRepository(loader MovieLoader, ttl time.Duration) *MovieRepository {
	return &MovieRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedMovie),
	}
}

func (r *MovieRepository) LoadMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	if movie, ok := r.cached(movieID); ok {
		return movie, nil
	}

	result, err, _ := r.sf.Do(movieID, func() (interface{}, error) {
		if movie, ok := r.cached(movieID); ok {
			return movie, nil
		}

		movie, err := r.loader.LoadMovie(ctx, movieID)
		if err != nil {
			return domain.Movie{}, err
		}

		entry := cachedMovie{movie: movie}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			entry.expiresAt = r.clock().Add(ttl)
		}
		r.mu.Lock()
		r.cache[movieID] = entry
		r.mu.Unlock()
		return movie, nil
	})
	if err != nil {
		return domain.Movie{}, err
	}
	return result.(domain.Movie), nil
}

// Clear drops every cached movie.
func (r *MovieRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	r.cache = make(map[string]cachedMovie)
	r.mu.Unlock()
	return nil
}

func (r *MovieRepository) cached(movieID string) (domain.Movie, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[movieID]
	if !ok {
		return domain.Movie{}, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(r.clock()) {
		return domain.Movie{}, false
	}
	return entry.movie, true
}

func (r *MovieRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
