package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkorytov/groundgen/internal/call"
)

func anthropicTestProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAnthropicInvoke(t *testing.T) {
	var got anthropicRequest
	p := anthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": `  {"ok": true}  `}},
			"model":   "claude-3-5-sonnet-20241022",
			"usage":   map[string]int{"input_tokens": 12, "output_tokens": 8},
		})
	})

	resp, err := p.Invoke(context.Background(), InvokeRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "cite your sources"},
			{Role: RoleUser, Content: "generate"},
		},
		MaxTokens:   100,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}

	// System turns fold into the dedicated field, not the message list
	if got.System != "cite your sources" {
		t.Errorf("system = %q", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}

	if resp.Text != `{"ok": true}` {
		t.Errorf("text = %q (whitespace not trimmed?)", resp.Text)
	}
	if resp.TokensUsed != 20 {
		t.Errorf("tokens = %d, want 20", resp.TokensUsed)
	}
}

func TestAnthropicInvokeAPIError(t *testing.T) {
	p := anthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "Too many requests"}}`))
	})

	_, err := p.Invoke(context.Background(), InvokeRequest{
		Messages: []Message{{Role: RoleUser, Content: "generate"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var httpErr *call.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error not classifiable: %T %v", err, err)
	}
	if httpErr.StatusCode != 429 {
		t.Errorf("status = %d, want 429", httpErr.StatusCode)
	}
	if classified := call.Classify(err); classified.Code != call.CodeRateLimit {
		t.Errorf("classified as %s, want RATE_LIMIT", classified.Code)
	}
}

func TestAnthropicRequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOllamaInvoke(t *testing.T) {
	var got ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.1",
			Response:        `{"ok": true}`,
			Done:            true,
			PromptEvalCount: 5,
			EvalCount:       3,
		})
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Invoke(context.Background(), InvokeRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "cite your sources"},
			{Role: RoleUser, Content: "generate"},
		},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got.Stream {
		t.Error("streaming requested")
	}
	if got.System != "cite your sources" || got.Prompt != "generate" {
		t.Errorf("system/prompt = %q/%q", got.System, got.Prompt)
	}
	if got.Model != "llama3.1" {
		t.Errorf("model = %q, want default llama3.1", got.Model)
	}
	if resp.TokensUsed != 8 {
		t.Errorf("tokens = %d, want 8", resp.TokensUsed)
	}
}

func TestOllamaInvokeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Invoke(context.Background(), InvokeRequest{
		Messages: []Message{{Role: RoleUser, Content: "generate"}},
	})

	var httpErr *call.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Fatalf("err = %v, want HTTPError 500", err)
	}
}
