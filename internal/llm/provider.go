// Package llm abstracts the text-generation providers behind a single
// invoke capability. The pipeline treats provider failures only through the
// call package's classification scheme.
package llm

import (
	"context"
	"time"
)

// Message is one turn of a chat-style prompt
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Role constants for Message
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// InvokeRequest contains the input for one model invocation
type InvokeRequest struct {
	// Messages is the full prompt, system turn included
	Messages []Message

	// Model overrides the configured model when non-empty
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; the repair loop lowers it to favor
	// determinism on the corrective attempt
	Temperature float32
}

// InvokeResponse contains the raw model output
type InvokeResponse struct {
	// Text is the raw response text (expected to be JSON for generation calls)
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Provider defines the interface for model providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Invoke runs a single generation call. Transport and API failures are
	// returned as errors (HTTP statuses wrapped in *call.HTTPError) so the
	// orchestrator can classify them.
	Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds model provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     30,
		MaxTokens:   2000,
		Temperature: 0.7,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}
