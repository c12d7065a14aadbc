package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) != 1 {
			t.Errorf("bad request body: %v", err)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenRouterClient(t *testing.T) {
	t.Run("uses defaults when empty", func(t *testing.T) {
		client := NewOpenRouterClient("k", "", "")
		if client.model != DefaultOpenRouterModel || client.baseURL != DefaultOpenRouterURL {
			t.Errorf("unexpected defaults: %s %s", client.model, client.baseURL)
		}
	})

	t.Run("requires api key", func(t *testing.T) {
		client := NewOpenRouterClient("", "", "")
		if _, err := client.SanitizeKeywords(context.Background(), []string{"a"}, "Heat"); err == nil {
			t.Error("expected missing key error")
		}
	})
}

func TestSanitizeKeywords(t *testing.T) {
	t.Run("parses fenced array and caps at fifteen", func(t *testing.T) {
		items := make([]string, 0, 18)
		for i := 0; i < 18; i++ {
			items = append(items, fmt.Sprintf("%q", fmt.Sprintf("kw%d", i)))
		}
		content := "```json\n[" + strings.Join(items, ",") + ", \"  \"]\n```"
		srv := chatServer(t, content, http.StatusOK)
		client := NewOpenRouterClient("test-key", "", srv.URL)

		out, err := client.SanitizeKeywords(context.Background(), []string{"kw0"}, "Heat")
		if err != nil {
			t.Fatalf("sanitize: %v", err)
		}
		if len(out) != 15 || out[0] != "kw0" {
			t.Errorf("expected 15 keywords starting at kw0, got %v", out)
		}
	})

	t.Run("non json content is an error", func(t *testing.T) {
		srv := chatServer(t, "Sure! Here are your keywords.", http.StatusOK)
		client := NewOpenRouterClient("test-key", "", srv.URL)
		if _, err := client.SanitizeKeywords(context.Background(), []string{"a"}, "Heat"); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("status error", func(t *testing.T) {
		srv := chatServer(t, "", http.StatusTooManyRequests)
		client := NewOpenRouterClient("test-key", "", srv.URL)
		_, err := client.SanitizeKeywords(context.Background(), []string{"a"}, "Heat")
		if err == nil || !strings.Contains(err.Error(), "status 429") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestGenerateQuestion(t *testing.T) {
	t.Run("options contain the answer once", func(t *testing.T) {
		content := `{"question":"Who turned down the lead role?","correctAnswer":"Will Smith","wrongAnswers":["Nicolas Cage","Will Smith","Tom Cruise"]}`
		srv := chatServer(t, content, http.StatusOK)
		client := NewOpenRouterClient("test-key", "", srv.URL)

		q, err := client.GenerateQuestion(context.Background(), "Will Smith turned down Neo.", "The Matrix")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		got := append([]string(nil), q.Options...)
		sort.Strings(got)
		want := []string{"Nicolas Cage", "Tom Cruise", "Will Smith"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("unexpected options %v", q.Options)
		}
		if q.CorrectAnswer != "Will Smith" || q.Question == "" {
			t.Errorf("unexpected question %+v", q)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		srv := chatServer(t, `{"question":"?","wrongAnswers":["a"]}`, http.StatusOK)
		client := NewOpenRouterClient("test-key", "", srv.URL)
		if _, err := client.GenerateQuestion(context.Background(), "fact", "Heat"); err == nil {
			t.Error("expected format error")
		}
	})
}

func TestStripFence(t *testing.T) {
	cases := map[string]string{
		`["a"]`:                 `["a"]`,
		"```json\n[\"a\"]\n```": `["a"]`,
		"```\n{}\n```":          `{}`,
		"  [\"b\"]  ":           `["b"]`,
	}
	for in, want := range cases {
		if got := stripFence(in); got != want {
			t.Errorf("stripFence(%q) = %q, want %q", in, got, want)
		}
	}
}
