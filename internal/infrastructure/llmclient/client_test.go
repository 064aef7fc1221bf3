package llmclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/llm"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/llmclient"
)

func newTestClient(baseURL string) *llmclient.Client {
	return llmclient.New(llmclient.Config{
		BaseURL:           baseURL,
		APIKey:            "test-key",
		Model:             "test-model",
		CompletionTimeout: 5 * time.Second,
		StreamTimeout:     5 * time.Second,
	}, zerolog.Nop())
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 {
			t.Errorf("unexpected request: %+v", req)
		}

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  Hello!  "}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Hello!" {
		t.Errorf("text = %q, want trimmed Hello!", text)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error")
	}
	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if !strings.Contains(genErr.Error(), "quota exceeded") {
		t.Errorf("error must carry upstream body: %v", genErr)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "p")
	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for empty choices, got %v", err)
	}
}

func streamChunk(content string) string {
	chunk := openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: content}},
		},
	}
	payload, _ := json.Marshal(chunk)
	return fmt.Sprintf("data: %s\n\n", payload)
}

func TestCompleteStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !req.Stream {
			t.Error("stream flag must be set")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		io.WriteString(w, streamChunk("Hel"))
		io.WriteString(w, streamChunk(""))
		io.WriteString(w, streamChunk("lo"))
		io.WriteString(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stream, err := client.CompleteStream(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("CompleteStream failed: %v", err)
	}
	defer stream.Close()

	var fragments []string
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		fragments = append(fragments, fragment)
	}

	if strings.Join(fragments, "") != "Hello" {
		t.Errorf("fragments = %v, concatenation must equal Hello", fragments)
	}
	// empty deltas are skipped, not surfaced
	if len(fragments) != 2 {
		t.Errorf("expected 2 non-empty fragments, got %d", len(fragments))
	}

	// Recv after EOF keeps returning EOF
	if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("Recv after done = %v, want EOF", err)
	}
}

func TestCompleteStream_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CompleteStream(context.Background(), "p")
	var genErr *llm.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}
