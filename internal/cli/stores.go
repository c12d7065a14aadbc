package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"movie-quiz-service/internal/app"
	"movie-quiz-service/internal/config"
	"movie-quiz-service/internal/infra/memory"
	"movie-quiz-service/internal/infra/postgres"
	redisstore "movie-quiz-service/internal/infra/redis"
	"movie-quiz-service/internal/infra/sqlite"
)

// backends holds the optional shared connections named in the config.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// openHistory picks the round log: postgres, then sqlite, then redis, then
// memory. The returned closer is never nil.
func openHistory(cfg config.Config, b *backends) (app.HistoryRecorder, func(), error) {
	limit := cfg.Quiz.HistoryLimit
	switch {
	case b.pool != nil:
		log.Printf("round history: postgres")
		return postgres.NewHistoryStore(b.pool, limit), func() {}, nil
	case cfg.SQLite.Path != "":
		store, err := sqlite.NewHistoryStore(cfg.SQLite.Path, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite history: %w", err)
		}
		log.Printf("round history: sqlite %s", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil
	case b.redis != nil:
		log.Printf("round history: redis")
		return redisstore.NewHistoryStore(b.redis, limit), func() {}, nil
	default:
		log.Printf("round history: memory")
		return memory.NewHistoryStore(limit), func() {}, nil
	}
}

// openSessions returns the session store. The in-process store is swept for
// idle sessions until ctx is done.
func openSessions(ctx context.Context, cfg config.Config, b *backends) app.SessionRepository {
	if b.redis != nil {
		return redisstore.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}
	store := memory.NewSessionStore(config.TTLDuration(cfg.Quiz.SessionIdleTTL, 30*time.Minute))
	go store.Run(ctx, time.Minute)
	return store
}
