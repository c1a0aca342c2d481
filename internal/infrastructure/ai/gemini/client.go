// Package gemini provides the HTTP client for the Google Generative
// Language API. It sends a single prompt and returns one non-streaming
// text completion.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/pkg/errors"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client implements the TextGenerator interface against the Gemini API
type Client struct {
	apiKey      string
	baseURL     string
	client      *http.Client
	maxRetries  int
	temperature float64
	logger      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// NewClient creates a new Gemini client
func NewClient(cfg config.AIConfig, logger *zap.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		apiKey:      cfg.GeminiAPIKey,
		baseURL:     defaultBaseURL,
		client:      &http.Client{Timeout: timeout},
		maxRetries:  cfg.MaxRetries,
		temperature: cfg.Temperature,
		logger:      logger.Named("gemini-client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Info("Gemini client initialized",
		zap.Duration("timeout", timeout),
		zap.Int("max_retries", c.maxRetries),
		zap.Bool("api_key_present", c.apiKey != ""))

	return c
}

// Gemini API structures (v1beta generateContent)

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// GenerateText sends the prompt to the named model and returns the text of
// the first candidate. The missing-key check runs before any network call.
func (c *Client) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewConfigurationError("gemini api key is not configured")
	}

	reqBody := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}
	if c.temperature > 0 {
		reqBody.GenerationConfig = &generationConfig{Temperature: c.temperature}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying Gemini call",
				zap.Int("attempt", attempt),
				zap.String("model", model),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		text, retryable, err := c.generateOnce(ctx, model, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return "", lastErr
}

// generateOnce performs a single generateContent round trip. Network errors
// and 5xx responses are retryable; everything else is not.
func (c *Client) generateOnce(ctx context.Context, model string, body []byte) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("gemini server error %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("gemini api error %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("gemini response contained no candidates")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", false, fmt.Errorf("gemini response contained no text")
	}

	c.logger.Debug("Gemini completion successful",
		zap.String("model", model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("response_chars", len(text)))

	return text, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
