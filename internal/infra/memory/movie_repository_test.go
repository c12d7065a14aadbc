package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie-quiz-service/internal/domain"
)

func TestMovieRepositoryCaches(t *testing.T) {
	loader := &countingLoader{MovieLoader: sampleCatalog()}
	repo := NewMovieRepository(loader, time.Minute)

	if _, err := repo.LoadMovie(context.Background(), "tt0133093"); err != nil {
		t.Fatalf("load movie: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	movie, err := repo.LoadMovie(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("load movie 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if movie.Title != "The Matrix" {
		t.Fatalf("unexpected movie %+v", movie)
	}
}

func TestMovieRepositoryExpires(t *testing.T) {
	loader := &countingLoader{MovieLoader: sampleCatalog()}
	repo := NewMovieRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.LoadMovie(context.Background(), "tt0133093")
	now = now.Add(2 * time.Minute)
	_, _ = repo.LoadMovie(context.Background(), "tt0133093")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestMovieRepositoryWithoutTTLKeepsUntilCleared(t *testing.T) {
	loader := &countingLoader{MovieLoader: sampleCatalog()}
	repo := NewMovieRepository(loader, 0)

	_, _ = repo.LoadMovie(context.Background(), "tt0133093")
	_, _ = repo.LoadMovie(context.Background(), "tt0133093")
	if loader.calls != 1 {
		t.Fatalf("expected single load, got calls=%d", loader.calls)
	}

	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, _ = repo.LoadMovie(context.Background(), "tt0133093")
	if loader.calls != 2 {
		t.Fatalf("expected reload after clear, loader calls %d", loader.calls)
	}
}

func TestMovieRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{MovieLoader: sampleCatalog()}
	repo := NewMovieRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.LoadMovie(context.Background(), "missing"); !errors.Is(err, domain.ErrMovieNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected failures not to be cached, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	MovieLoader
	calls int
}

func (l *countingLoader) LoadMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	l.calls++
	return l.MovieLoader.LoadMovie(ctx, movieID)
}

func sampleCatalog() *StaticCatalog {
	return NewStaticCatalog(
		[]domain.Movie{{ID: "tt0133093", Title: "The Matrix", Year: 1999, Keywords: []string{"hacker", "simulation"}}},
		map[string][]domain.Quote{"tt0133093": {{ID: "q1", Text: "There is no spoon."}}},
		nil,
	)
}
