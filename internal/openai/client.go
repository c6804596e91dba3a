package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const userAgent = "gpt-track-id/1.0"

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a chat completion client from the provided configuration.
// Zero-value Config fields fall back to the package defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete submits a single-message completion request and returns the raw
// response text. Failures reported by the API come back as *APIError carrying
// a transient/permanent classification and any server-suggested retry delay.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	payload := chatRequest{
		Model:           c.cfg.Model,
		Messages:        []chatMessage{{Role: "user", Content: prompt}},
		ReasoningEffort: "minimal",
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp, body)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", &APIError{Kind: KindPermanent, Message: "response contains no choices"}
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// statusError converts a non-200 response into a classified *APIError.
// Rate limiting, request timeouts, and server errors are transient; anything
// else (auth failures, malformed requests) is permanent.
func (c *Client) statusError(resp *http.Response, body []byte) error {
	message := strings.TrimSpace(string(body))
	var code string
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
		code = parsed.Error.Code
	}

	kind := KindPermanent
	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode >= http.StatusInternalServerError:
		kind = KindTransient
	}

	retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))

	return &APIError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    message,
		RetryAfter: retryAfter,
	}
}

// parseRetryAfter interprets a Retry-After header value, either a number of
// seconds or an HTTP date.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
