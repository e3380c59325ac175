// Package gemini is a small client for the Gemini generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/config"
)

var ErrEmptyResponse = errors.New("empty response from gemini")

const (
	temperature     = 0.7
	maxOutputTokens = 1024
	promptPreview   = 100
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(conf *config.GeminiConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: conf.Timeout},
		baseURL:    strings.TrimRight(conf.BaseURL, "/"),
		apiKey:     conf.APIKey,
		model:      conf.Model,
	}
}

// Generate sends prompt to the configured model and returns the first candidate's text.
// Without an API key it answers with a canned development response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		zap.L().Warn("gemini api key not configured, returning mock response")
		return mockResponse(prompt), nil
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll -> %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err = json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("json.Unmarshal -> %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

func mockResponse(prompt string) string {
	if len(prompt) > promptPreview {
		prompt = prompt[:promptPreview] + "..."
	}

	return "[DEVELOPMENT MODE - API Key not configured]\n\n" +
		"This is a simulated response for the received prompt.\n" +
		"To enable Gemini, set gemini.api_key (APP_GEMINI_API_KEY).\n\n" +
		"Received prompt: " + prompt
}
