package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"movie-quiz-service/internal/domain"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

// newTestClient routes each endpoint path to a canned body.
func newTestClient(t *testing.T, bodies map[string]string) *Client {
	t.Helper()
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("X-Rapidapi-Key") != "secret" || r.Header.Get("X-Rapidapi-Host") != DefaultHost {
			return jsonResponse(http.StatusUnauthorized, `{}`), nil
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		body, ok := bodies[path]
		if !ok {
			return jsonResponse(http.StatusNotFound, `{}`), nil
		}
		return jsonResponse(http.StatusOK, body), nil
	})
	return NewClient(&http.Client{Transport: rt}, "", "secret", "")
}

func TestLoadMovieCombinesAutocompleteAndOverview(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"autocomplete": `{"d":[{"id":"tt9999999","l":"Other","q":"feature"},{"id":"tt0133093","l":"The Matrix","q":"feature","y":1999,"i":{"imageUrl":"https://img/matrix.jpg"}}]}`,
		"title/get-overview": `{"data":{"title":{"plot":{"plotText":{"plainText":"A hacker learns the truth."}},
			"genres":{"genres":[{"text":"Action"},{"text":"Sci-Fi"}]},"ratingsSummary":{"aggregateRating":8.7},"runtime":{"seconds":8160}}}}`,
	})

	movie, err := client.LoadMovie(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("load movie: %v", err)
	}
	if movie.Title != "The Matrix" || movie.Year != 1999 || movie.PosterURL != "https://img/matrix.jpg" {
		t.Fatalf("unexpected basic fields: %+v", movie)
	}
	if movie.Description != "A hacker learns the truth." || len(movie.Genres) != 2 || movie.Genres[0] != "Action" {
		t.Fatalf("unexpected overview fields: %+v", movie)
	}
	if movie.Runtime != 136 || movie.Rating != 8.7 || movie.IMDbID != "tt0133093" {
		t.Fatalf("unexpected rating/runtime: %+v", movie)
	}
}

func TestLoadMovieWithoutOverviewStillSucceeds(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"autocomplete": `{"d":[{"id":"tt0133093","l":"The Matrix","y":1999}]}`,
	})
	movie, err := client.LoadMovie(context.Background(), "tt0133093")
	if err != nil || movie.Title != "The Matrix" || movie.Description != "" {
		t.Fatalf("expected basic movie, got %+v err=%v", movie, err)
	}
}

func TestLoadMovieNotFound(t *testing.T) {
	client := newTestClient(t, map[string]string{"autocomplete": `{"d":[]}`})
	if _, err := client.LoadMovie(context.Background(), "tt0133093"); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestKeywordsFiltersAndCaps(t *testing.T) {
	var edges []string
	for i := 0; i < 30; i++ {
		edges = append(edges, `{"node":{"keyword":{"text":{"text":"kw`+string(rune('a'+i%26))+string(rune('a'+i/26))+`"}}}}`)
	}
	edges = append(edges,
		`{"node":{"keyword":{"text":{"text":"red-pill"}}}}`,
		`{"node":{"keyword":{"text":{"text":"character says whoa"}}}}`,
	)
	body := `{"data":{"title":{"keywordItemCategories":[{"keywords":{"edges":[` + strings.Join(edges, ",") + `]}}]}}}`
	client := newTestClient(t, map[string]string{"title/get-keywords": body})

	keywords, err := client.Keywords(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if len(keywords) != 20 {
		t.Fatalf("expected 20 keywords, got %d", len(keywords))
	}
	for _, kw := range keywords {
		if strings.Contains(kw, "-") || strings.HasPrefix(kw, "character says") {
			t.Fatalf("filtered keyword leaked: %q", kw)
		}
	}
}

func TestQuotesSkipSpoilersAndJoinLines(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"title/get-quotes": `{"data":{"title":{"quotes":{"edges":[
			{"node":{"id":"qu1","lines":[{"characters":[{"character":"Morpheus"}],"text":"Welcome"},{"text":"to the real world."}]}},
			{"node":{"id":"qu2","isSpoiler":true,"lines":[{"text":"Spoiler"}]}},
			{"node":{"id":"qu3","lines":[]}}
		]}}}}`,
	})

	quotes, err := client.Quotes(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %+v", quotes)
	}
	if quotes[0].Text != "Welcome to the real world." || quotes[0].Character != "Morpheus" {
		t.Fatalf("unexpected quote: %+v", quotes[0])
	}
}

func TestTriviaSkipsSpoilers(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"title/get-trivia": `{"data":{"title":{"trivia":{"edges":[
			{"node":{"id":"tr1","displayableArticle":{"plainText":"Will Smith turned down Neo."}}},
			{"node":{"id":"tr2","isSpoiler":true,"displayableArticle":{"plainText":"Ending detail."}}}
		]}}}}`,
	})

	facts, err := client.Trivia(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("trivia: %v", err)
	}
	if len(facts) != 1 || facts[0].ID != "tr1" {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestClientPropagatesStatus(t *testing.T) {
	client := NewClient(&http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, ``), nil
	})}, "", "secret", "")

	_, err := client.Quotes(context.Background(), "tt0133093")
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("expected status error, got %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure")
	}
}
