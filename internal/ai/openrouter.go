// Package ai holds the HTTP clients for the language and image models used
// to prepare quiz content.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"movie-quiz-service/internal/domain"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "google/gemini-2.0-flash-exp:free"

	maxSanitizedKeywords = 15
	wrongAnswerCount     = 3
)

// OpenRouterClient sanitizes keywords and writes trivia questions through
// the OpenRouter chat completions API.
type OpenRouterClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewOpenRouterClient(apiKey, model, baseURL string) *OpenRouterClient {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	return &OpenRouterClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SanitizeKeywords asks the model to drop duplicate, generic and revealing
// keywords. The result holds at most 15 entries.
func (c *OpenRouterClient) SanitizeKeywords(ctx context.Context, keywords []string, movieTitle string) ([]string, error) {
	prompt := fmt.Sprintf(`You are given a list of keywords for the movie "%s".
Your task is to clean and improve this list by:
1. Removing duplicate or near-duplicate keywords
2. Removing nonsensical or overly generic keywords
3. Removing keywords that directly reveal the movie title or character names
4. Keeping only the most meaningful and useful keywords for a movie guessing game
5. Limit the result to the best %d keywords

Input keywords:
%s

Return ONLY a JSON array of the cleaned keywords, nothing else. Example format:
["keyword1", "keyword2", "keyword3"]`, movieTitle, maxSanitizedKeywords, strings.Join(keywords, ", "))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var cleaned []string
	if err := json.Unmarshal([]byte(content), &cleaned); err != nil {
		return nil, fmt.Errorf("parse keywords JSON: %w", err)
	}

	out := make([]string, 0, len(cleaned))
	for _, kw := range cleaned {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) > maxSanitizedKeywords {
		out = out[:maxSanitizedKeywords]
	}
	return out, nil
}

type questionPayload struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	WrongAnswers  []string `json:"wrongAnswers"`
}

// GenerateQuestion turns a trivia fact into a four option question. The
// options are shuffled once here and keep that order afterwards.
func (c *OpenRouterClient) GenerateQuestion(ctx context.Context, fact, movieTitle string) (domain.GeneratedQuestion, error) {
	prompt := fmt.Sprintf(`You are given a trivia fact about a movie. Your task is to create a quiz question based on this fact WITHOUT revealing the movie title.

The movie title is: "%s"
The trivia fact is: "%s"

Create a multiple-choice question where:
1. The question asks about a specific detail from the trivia fact
2. DO NOT include the movie title in the question or any options
3. The correct answer should be a specific fact, number, name, or detail from the trivia
4. Generate %d plausible wrong answers
5. Keep answers concise (1-4 words each)

Return ONLY a JSON object with this exact format:
{
  "question": "The quiz question here",
  "correctAnswer": "The correct answer",
  "wrongAnswers": ["Wrong 1", "Wrong 2", "Wrong 3"]
}`, movieTitle, fact, wrongAnswerCount)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return domain.GeneratedQuestion{}, err
	}
	var payload questionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.GeneratedQuestion{}, fmt.Errorf("parse question JSON: %w", err)
	}
	if payload.Question == "" || payload.CorrectAnswer == "" || len(payload.WrongAnswers) == 0 {
		return domain.GeneratedQuestion{}, errors.New("invalid question format")
	}

	options := make([]string, 0, len(payload.WrongAnswers)+1)
	options = append(options, payload.CorrectAnswer)
	for _, wrong := range payload.WrongAnswers {
		if wrong != "" && wrong != payload.CorrectAnswer {
			options = append(options, wrong)
		}
	}
	c.rndMu.Lock()
	c.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	c.rndMu.Unlock()

	return domain.GeneratedQuestion{
		Question:      payload.Question,
		CorrectAnswer: payload.CorrectAnswer,
		Options:       options,
	}, nil
}

func (c *OpenRouterClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OpenRouter API key not configured")
	}

	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", "Movie Quiz")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", errors.New("no content in response")
	}
	return stripFence(result.Choices[0].Message.Content), nil
}

// stripFence removes a surrounding markdown code fence, which models often
// add around JSON.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
