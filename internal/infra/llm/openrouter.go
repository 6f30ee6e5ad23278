// Package llm talks to the OpenRouter chat-completions endpoint. It makes
// exactly one upstream attempt per invocation and classifies failures into the
// taxonomy the services layer acts on; retry policy belongs to the caller.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/webprompt/promptengine/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated means the relay's provider credential was missing or
	// rejected. Never surface the credential itself.
	ErrUnauthenticated = errors.New("openrouter: unauthenticated")

	ErrRateLimited = errors.New("openrouter: rate limited")

	// ErrUpstream covers every other non-2xx answer plus transport failures
	// and timeouts.
	ErrUpstream = errors.New("openrouter: upstream error")

	// ErrMalformedResponse means a 2xx answer without a usable completion.
	ErrMalformedResponse = errors.New("openrouter: malformed response")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client is the OpenRouter API client.
type Client struct {
	cfg        config.OpenRouterCfg
	httpClient *http.Client
	log        *zap.Logger
}

// New builds the client. A missing API key is a startup failure, not a
// per-turn one.
func New(cfg *config.Config, log *zap.Logger) (*Client, error) {
	if cfg.OpenRouter.APIKey == "" {
		return nil, errors.New("openrouter: API key is not configured")
	}

	timeout := time.Duration(cfg.OpenRouter.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg.OpenRouter,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// Model reports the fixed model identifier every request is sent with.
func (c *Client) Model() string { return c.cfg.Model }

// ChatCompletion sends the full message list and returns the first choice's
// text content.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	body, err := sonic.Marshal(chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	// Descriptive headers OpenRouter uses for ranking.
	httpReq.Header.Set("HTTP-Referer", c.cfg.Referer)
	httpReq.Header.Set("X-Title", c.cfg.Title)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		detail := errorDetail(respBody)
		c.log.Warn("chat completion failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("detail", detail))
		return "", fmt.Errorf("%w: status %d: %s", classify(resp.StatusCode), resp.StatusCode, detail)
	}

	var result chatCompletionResponse
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no completion choice", ErrMalformedResponse)
	}

	return result.Choices[0].Message.Content, nil
}

func classify(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthenticated
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

// errorDetail pulls the error message out of an upstream error body, falling
// back to the raw text when it is not the expected JSON shape.
func errorDetail(body []byte) string {
	var er errorResponse
	if err := sonic.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return string(body)
}
