package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		retryAfter  string
		wantContent string
		wantKind    ErrorKind
		wantWait    time.Duration
		wantAPIErr  bool
	}{
		{
			name:        "successful completion",
			status:      http.StatusOK,
			body:        completionBody("  {\"A - X\": {\"genres\": [\"House\"]}}  "),
			wantContent: `{"A - X": {"genres": ["House"]}}`,
		},
		{
			name:   "rate limited with retry-after header",
			status: http.StatusTooManyRequests,
			body: map[string]any{
				"error": map[string]any{
					"message": "Rate limit reached. Please try again in 2s.",
					"type":    "requests",
					"code":    "rate_limit_exceeded",
				},
			},
			retryAfter: "2",
			wantAPIErr: true,
			wantKind:   KindTransient,
			wantWait:   2 * time.Second,
		},
		{
			name:   "auth failure is permanent",
			status: http.StatusUnauthorized,
			body: map[string]any{
				"error": map[string]any{"message": "Incorrect API key provided", "code": "invalid_api_key"},
			},
			wantAPIErr: true,
			wantKind:   KindPermanent,
		},
		{
			name:       "server error is transient",
			status:     http.StatusInternalServerError,
			body:       map[string]any{"error": map[string]any{"message": "The server had an error"}},
			wantAPIErr: true,
			wantKind:   KindTransient,
		},
		{
			name:       "empty choices is permanent",
			status:     http.StatusOK,
			body:       map[string]any{"choices": []any{}},
			wantAPIErr: true,
			wantKind:   KindPermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("Authorization header = %q, want %q", got, "Bearer test-key")
				}
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})

			content, err := client.Complete(context.Background(), "prompt")

			if !tt.wantAPIErr {
				if err != nil {
					t.Fatalf("Complete() error = %v, want nil", err)
				}
				if content != tt.wantContent {
					t.Errorf("Complete() = %q, want %q", content, tt.wantContent)
				}
				return
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Complete() error = %v, want *APIError", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("APIError.Kind = %d, want %d", apiErr.Kind, tt.wantKind)
			}
			if apiErr.SuggestedWait() != tt.wantWait {
				t.Errorf("SuggestedWait() = %v, want %v", apiErr.SuggestedWait(), tt.wantWait)
			}
		})
	}
}

func TestCompleteMissingAPIKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Complete() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{name: "empty", value: "", want: 0, wantOK: false},
		{name: "seconds", value: "5", want: 5 * time.Second, wantOK: true},
		{name: "zero seconds", value: "0", want: 0, wantOK: true},
		{name: "negative seconds", value: "-1", want: 0, wantOK: false},
		{name: "garbage", value: "soon", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRetryAfter(tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseRetryAfter(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
