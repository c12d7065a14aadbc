// Package catalog talks to the RapidAPI IMDb endpoints and turns their nested
// payloads into domain records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"movie-quiz-service/internal/domain"
)

const (
	DefaultBaseURL = "https://imdb232.p.rapidapi.com/api"
	DefaultHost    = "imdb232.p.rapidapi.com"

	maxKeywords = 20
)

// Client fetches movie content from the IMDb API on RapidAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewClient(httpClient *http.Client, baseURL, apiKey, host string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		host:       host,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type autocompleteResponse struct {
	D []struct {
		ID    string `json:"id"`
		Title string `json:"l"`
		Kind  string `json:"q"`
		Year  int    `json:"y"`
		Image *struct {
			URL string `json:"imageUrl"`
		} `json:"i"`
	} `json:"d"`
}

type overviewResponse struct {
	Data struct {
		Title struct {
			Plot *struct {
				PlotText struct {
					PlainText string `json:"plainText"`
				} `json:"plotText"`
			} `json:"plot"`
			Genres *struct {
				Genres []struct {
					Text string `json:"text"`
				} `json:"genres"`
			} `json:"genres"`
			RatingsSummary *struct {
				AggregateRating float64 `json:"aggregateRating"`
			} `json:"ratingsSummary"`
			Runtime *struct {
				Seconds int `json:"seconds"`
			} `json:"runtime"`
		} `json:"title"`
	} `json:"data"`
}

type keywordsResponse struct {
	Data struct {
		Title struct {
			Categories []struct {
				Keywords struct {
					Edges []struct {
						Node struct {
							Keyword struct {
								Text struct {
									Text string `json:"text"`
								} `json:"text"`
							} `json:"keyword"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"keywords"`
			} `json:"keywordItemCategories"`
		} `json:"title"`
	} `json:"data"`
}

type quotesResponse struct {
	Data struct {
		Title struct {
			Quotes struct {
				Edges []struct {
					Node struct {
						ID        string `json:"id"`
						IsSpoiler bool   `json:"isSpoiler"`
						Lines     []struct {
							Characters []struct {
								Character string `json:"character"`
							} `json:"characters"`
							Text string `json:"text"`
						} `json:"lines"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"quotes"`
		} `json:"title"`
	} `json:"data"`
}

type triviaResponse struct {
	Data struct {
		Title struct {
			Trivia struct {
				Edges []struct {
					Node struct {
						ID        string `json:"id"`
						IsSpoiler bool   `json:"isSpoiler"`
						Text      struct {
							PlainText string `json:"plainText"`
						} `json:"displayableArticle"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"trivia"`
		} `json:"title"`
	} `json:"data"`
}

// LoadMovie resolves a movie by IMDb id. Basic fields come from the
// autocomplete endpoint; plot and genres from the overview are best effort.
func (c *Client) LoadMovie(ctx context.Context, movieID string) (domain.Movie, error) {
	var auto autocompleteResponse
	if err := c.get(ctx, "autocomplete", url.Values{"q": {movieID}}, &auto); err != nil {
		return domain.Movie{}, err
	}

	movie := domain.Movie{ID: movieID, IMDbID: movieID}
	found := false
	for _, item := range auto.D {
		if item.ID != movieID {
			continue
		}
		movie.Title = item.Title
		movie.Year = item.Year
		if item.Image != nil {
			movie.PosterURL = item.Image.URL
		}
		found = true
		break
	}
	if !found {
		return domain.Movie{}, fmt.Errorf("%w: %s", domain.ErrMovieNotFound, movieID)
	}

	var overview overviewResponse
	if err := c.get(ctx, "title/get-overview", url.Values{"tt": {movieID}}, &overview); err == nil {
		t := overview.Data.Title
		if t.Plot != nil {
			movie.Description = t.Plot.PlotText.PlainText
		}
		if t.Genres != nil {
			for _, g := range t.Genres.Genres {
				movie.Genres = append(movie.Genres, g.Text)
			}
		}
		if t.RatingsSummary != nil {
			movie.Rating = t.RatingsSummary.AggregateRating
		}
		if t.Runtime != nil {
			movie.Runtime = t.Runtime.Seconds / 60
		}
	}
	return movie, nil
}

// Keywords returns up to 20 shuffled keywords, dropping hyphenated entries
// and "character says ..." lines.
func (c *Client) Keywords(ctx context.Context, movieID string) ([]string, error) {
	var payload keywordsResponse
	if err := c.get(ctx, "title/get-keywords", url.Values{"tt": {movieID}}, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, category := range payload.Data.Title.Categories {
		for _, edge := range category.Keywords.Edges {
			text := strings.TrimSpace(edge.Node.Keyword.Text.Text)
			if text == "" || strings.Contains(text, "-") || strings.HasPrefix(text, "character says") {
				continue
			}
			if seen[text] {
				continue
			}
			seen[text] = true
			keywords = append(keywords, text)
		}
	}

	c.rndMu.Lock()
	c.rnd.Shuffle(len(keywords), func(i, j int) { keywords[i], keywords[j] = keywords[j], keywords[i] })
	c.rndMu.Unlock()
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords, nil
}

// Quotes returns non-spoiler quotes in API order. Multi-line quotes are joined.
func (c *Client) Quotes(ctx context.Context, movieID string) ([]domain.Quote, error) {
	var payload quotesResponse
	if err := c.get(ctx, "title/get-quotes", url.Values{"tt": {movieID}}, &payload); err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(payload.Data.Title.Quotes.Edges))
	for _, edge := range payload.Data.Title.Quotes.Edges {
		node := edge.Node
		if node.IsSpoiler || len(node.Lines) == 0 {
			continue
		}
		var (
			texts     []string
			character string
		)
		for _, line := range node.Lines {
			if line.Text != "" {
				texts = append(texts, line.Text)
			}
			if character == "" && len(line.Characters) > 0 {
				character = line.Characters[0].Character
			}
		}
		if len(texts) == 0 {
			continue
		}
		quotes = append(quotes, domain.Quote{ID: node.ID, Text: strings.Join(texts, " "), Character: character})
	}
	return quotes, nil
}

// Trivia returns non-spoiler trivia facts in API order.
func (c *Client) Trivia(ctx context.Context, movieID string) ([]domain.TriviaFact, error) {
	var payload triviaResponse
	if err := c.get(ctx, "title/get-trivia", url.Values{"tt": {movieID}}, &payload); err != nil {
		return nil, err
	}

	facts := make([]domain.TriviaFact, 0, len(payload.Data.Title.Trivia.Edges))
	for _, edge := range payload.Data.Title.Trivia.Edges {
		node := edge.Node
		text := strings.TrimSpace(node.Text.PlainText)
		if node.IsSpoiler || text == "" {
			continue
		}
		facts = append(facts, domain.TriviaFact{ID: node.ID, Text: text})
	}
	return facts, nil
}

// Ping checks that the configured key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var auto autocompleteResponse
	return c.get(ctx, "autocomplete", url.Values{"q": {"test"}}, &auto)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + "/" + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Rapidapi-Key", c.apiKey)
	req.Header.Set("X-Rapidapi-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rapidapi %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rapidapi returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
