package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newOpenAITestServer(t *testing.T, status int, body string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(raw, &req)
		if gotPrompt != nil && len(req.Messages) > 0 {
			*gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGeneratorReturnsTrimmedContent(t *testing.T) {
	var prompt string
	srv := newOpenAITestServer(t, http.StatusOK,
		`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  bread|||milk|||egg \n"},"finish_reason":"stop"}]}`,
		&prompt)

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})
	got, err := g.Generate(context.Background(), "pan|||leche|||huevo")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "bread|||milk|||egg" {
		t.Fatalf("Generate() = %q", got)
	}
	if prompt != "pan|||leche|||huevo" {
		t.Fatalf("prompt sent = %q", prompt)
	}
}

func TestOpenAIGeneratorServerErrorIsRetryable(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusServiceUnavailable,
		`{"error":{"message":"overloaded","type":"server_error"}}`, nil)

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})
	_, err := g.Generate(context.Background(), "pan")

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *ProviderError, got %T %v", err, err)
	}
	if !providerErr.Retryable {
		t.Fatalf("503 should be retryable: %v", err)
	}
}

func TestOpenAIGeneratorEmptyChoices(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","choices":[]}`, nil)

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})
	_, err := g.Generate(context.Background(), "pan")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no choices error, got %v", err)
	}
}

func TestOpenAIGeneratorBlankContent(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK,
		`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`, nil)

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})
	_, err := g.Generate(context.Background(), "pan")
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
	if IsRetryable(err) {
		t.Fatalf("blank reply should not be retried")
	}
}
