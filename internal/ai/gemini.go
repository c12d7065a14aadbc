package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-2.5-flash-image"
)

var ErrNoImage = errors.New("no image in response")

// GeminiClient generates poster style illustrations. Images are returned as
// data URLs so they can be pushed to the browser as is.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		// image requests are bounded by the caller's context
		httpClient: &http.Client{},
	}
}

// GenerateImage renders a cinematic poster for the movie without any text.
func (c *GeminiClient) GenerateImage(ctx context.Context, movieTitle, genre string) (string, error) {
	prompt := fmt.Sprintf(`Create a cinematic, dramatic movie poster style image for the movie "%s".
Genre: %s.
The image should be highly detailed, atmospheric, and capture the essence of the film without showing text or titles.
Professional movie poster aesthetic with dramatic lighting.`, movieTitle, genre)
	return c.generate(ctx, prompt)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("Gemini API key not configured")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"IMAGE"},
			"temperature":        1.0,
			"topP":               0.95,
			"topK":               40,
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData *struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, candidate := range result.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return "data:" + part.InlineData.MimeType + ";base64," + part.InlineData.Data, nil
			}
		}
	}
	return "", ErrNoImage
}
