package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"movie-quiz-service/internal/app"
	"movie-quiz-service/internal/catalog"
	"movie-quiz-service/internal/domain"
	"movie-quiz-service/internal/infra/memory"
)

func TestWebSocketQuotesFlow(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "player-1")

	// The subscription delivers the current snapshot first.
	readUntil(t, conn, func(typ string, payload map[string]any) bool {
		return typ == "state" && payload["phase"] == string(domain.PhaseLoading)
	})

	send(t, conn, "start", map[string]any{"mode": "quotes"})
	readUntil(t, conn, func(typ string, payload map[string]any) bool {
		return typ == "state" && payload["phase"] == string(domain.PhaseQuotes)
	})

	send(t, conn, "nextQuote", nil)
	readUntil(t, conn, func(typ string, payload map[string]any) bool {
		quotes, _ := payload["revealedQuotes"].([]any)
		return typ == "state" && len(quotes) == 2
	})

	send(t, conn, "guess", map[string]any{"text": "pulp fiction"})
	result := readUntil(t, conn, func(typ string, _ map[string]any) bool { return typ == "guessResult" })
	if result["correct"] != true || result["title"] != "Pulp Fiction" {
		t.Fatalf("unexpected guess result: %v", result)
	}

	resp, err := http.Get(server.URL + "/history?sessionId=player-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer resp.Body.Close()
	var history historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Rounds) != 1 || history.Rounds[0].MovieTitle != "Pulp Fiction" || !history.Rounds[0].Guessed {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestWebSocketTriviaRejectsUnknownOption(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "player-2")

	send(t, conn, "start", map[string]any{"mode": "trivia"})
	readUntil(t, conn, func(typ string, payload map[string]any) bool {
		return typ == "state" && payload["phase"] == string(domain.PhaseTrivia)
	})

	send(t, conn, "answer", map[string]any{"option": "not offered"})
	readUntil(t, conn, func(typ string, _ map[string]any) bool { return typ == "error" })

	send(t, conn, "answer", map[string]any{"option": "1999"})
	result := readUntil(t, conn, func(typ string, _ map[string]any) bool { return typ == "answerResult" })
	if result["correct"] != true || result["totalScore"] != float64(200) {
		t.Fatalf("unexpected answer result: %v", result)
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server, "player-3")

	send(t, conn, "dance", nil)
	payload := readUntil(t, conn, func(typ string, _ map[string]any) bool { return typ == "error" })
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload: %v", payload)
	}

	send(t, conn, "start", map[string]any{"mode": "posters"})
	readUntil(t, conn, func(typ string, _ map[string]any) bool { return typ == "error" })

	send(t, conn, "guess", "not an object")
	readUntil(t, conn, func(typ string, payload map[string]any) bool {
		return typ == "error" && payload["message"] == "invalid guess payload"
	})
}

func TestServeWSRequiresSessionID(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	static := memory.NewStaticCatalog(
		[]domain.Movie{{ID: "tt0110912", Title: "Pulp Fiction", Year: 1994, Genres: []string{"Crime"}}},
		map[string][]domain.Quote{"tt0110912": {
			{ID: "q1", Text: "Say what again.", Character: "Jules"},
			{ID: "q2", Text: "Zed's dead, baby.", Character: "Butch"},
		}},
		map[string][]domain.TriviaFact{"tt0110912": {{ID: "f1", Text: "Filmed in 1993."}}},
	)
	bootstrap := app.NewBootstrapper(catalog.New(static, static, static.IDs()), nil, fixedQuestions{}, app.BootstrapConfig{})
	service := app.NewQuizService(memory.NewSessionStore(0), bootstrap, nil, memory.NewHistoryStore(0))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	mux.Handle("/history", NewHistoryHandler(service))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil skips messages until match accepts one and returns its payload.
func readUntil(t *testing.T, conn *websocket.Conn, match func(string, map[string]any) bool) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if match(msg.Type, msg.Payload) {
			return msg.Payload
		}
	}
}

type fixedQuestions struct{}

func (fixedQuestions) GenerateQuestion(_ context.Context, _, _ string) (domain.GeneratedQuestion, error) {
	return domain.GeneratedQuestion{
		Question:      "When was it filmed?",
		CorrectAnswer: "1999",
		Options:       []string{"1993", "1999", "2001"},
	}, nil
}
