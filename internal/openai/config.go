// Package openai provides the chat completion client used to resolve track
// metadata from the generation service.
package openai

import (
	"errors"
	"os"
	"time"
)

// Defaults applied when the corresponding Config field is zero.
const (
	DefaultBaseURL = "https://api.openai.com/v1/chat/completions"
	DefaultModel   = "gpt-5"
	DefaultTimeout = 60 * time.Second
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing OpenAI API key: set OPENAI_API_KEY or use --api-key")

// Config holds OpenAI API configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// APIKeyFromEnv reads the API key from the OPENAI_API_KEY environment
// variable. Returns ErrMissingAPIKey if it is not set.
func APIKeyFromEnv() (string, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
