package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"movie-quiz-service/internal/domain"
)

func TestHistoryStoreKeepsNewestFirstAndCaps(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHistoryStore(newClient(mr), 3)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		round := domain.RoundRecord{
			ID:         fmt.Sprintf("r%d", i),
			SessionID:  "p1",
			MovieID:    "tt0133093",
			MovieTitle: "The Matrix",
			Mode:       domain.ModeQuotes,
			Guessed:    i%2 == 0,
			TimeSpent:  time.Duration(i) * time.Second,
			Score:      i * 100,
			PlayedAt:   time.Date(2024, 11, 22, 12, i, 0, 0, time.UTC),
		}
		if err := store.Record(ctx, round); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	items, err := mr.List("quiz:history:p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected list trimmed to 3, got %d", len(items))
	}

	rounds, err := store.Recent(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 2 || rounds[0].ID != "r5" || rounds[1].ID != "r4" {
		t.Fatalf("expected r5, r4; got %+v", rounds)
	}
	if rounds[1].TimeSpent != 4*time.Second || !rounds[1].Guessed {
		t.Fatalf("round did not round trip: %+v", rounds[1])
	}
}

func TestHistoryStoreEmptySession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	rounds, err := NewHistoryStore(newClient(mr), 0).Recent(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("expected no rounds, got %d", len(rounds))
	}
}

func TestHistoryStoreConfiguredLimitIsCapped(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewHistoryStore(newClient(mr), 100)
	ctx := context.Background()
	for i := 0; i < 80; i++ {
		if err := store.Record(ctx, domain.RoundRecord{ID: fmt.Sprintf("r%d", i), SessionID: "p1"}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	items, err := mr.List("quiz:history:p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != domain.MaxHistoryEntries {
		t.Fatalf("expected list trimmed to %d, got %d", domain.MaxHistoryEntries, len(items))
	}
}
