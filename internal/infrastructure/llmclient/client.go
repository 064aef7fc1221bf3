package llmclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/llm"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/metrics"
)

const (
	completionsPath = "/chat/completions"

	dataPrefix = "data: "
	doneMarker = "[DONE]"

	scannerInitialBuffer = 12 * 1024
	scannerMaxBuffer     = 10 * 1024 * 1024
)

// Config describes the upstream OpenAI-compatible completion endpoint.
type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	CompletionTimeout time.Duration
	StreamTimeout     time.Duration
}

// Client talks to an OpenAI-compatible chat completions API. The assembled
// prompt travels as a single user message.
type Client struct {
	http              *resty.Client
	model             string
	completionTimeout time.Duration
	streamTimeout     time.Duration
	log               zerolog.Logger
}

// New builds a completion client.
func New(cfg Config, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")).
		SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(cfg.APIKey) != "" {
		httpClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &Client{
		http:              httpClient,
		model:             cfg.Model,
		completionTimeout: cfg.CompletionTimeout,
		streamTimeout:     cfg.StreamTimeout,
		log:               log.With().Str("component", "llm-client").Logger(),
	}
}

var _ llm.Completer = (*Client)(nil)

// Complete performs a blocking chat completion and returns the full text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordCompletion("complete", status, time.Since(start).Seconds())
	return text, err
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.completionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.completionTimeout)
		defer cancel()
	}

	var respBody openai.ChatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(c.request(prompt, false)).
		SetResult(&respBody).
		Post(completionsPath)
	if err != nil {
		return "", llm.NewGenerationError("completion request failed", err)
	}
	if resp.IsError() {
		return "", llm.NewGenerationError(
			fmt.Sprintf("completion request failed: %s: %s", resp.Status(), strings.TrimSpace(resp.String())), nil)
	}
	if len(respBody.Choices) == 0 {
		return "", llm.NewGenerationError("completion response has no choices", nil)
	}

	text := strings.TrimSpace(respBody.Choices[0].Message.Content)
	if text == "" {
		return "", llm.NewGenerationError("completion response is empty", nil)
	}
	return text, nil
}

// CompleteStream opens a streaming chat completion and returns the fragment
// stream. Closing the stream releases the underlying connection.
func (c *Client) CompleteStream(ctx context.Context, prompt string) (llm.Stream, error) {
	start := time.Now()
	stream, err := c.completeStream(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordCompletion("stream", status, time.Since(start).Seconds())
	return stream, err
}

func (c *Client) completeStream(ctx context.Context, prompt string) (llm.Stream, error) {
	cancel := context.CancelFunc(func() {})
	if c.streamTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.streamTimeout)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(c.request(prompt, true)).
		SetHeader("Accept-Encoding", "identity").
		SetDoNotParseResponse(true).
		Post(completionsPath)
	if err != nil {
		cancel()
		return nil, llm.NewGenerationError("streaming request failed", err)
	}
	if resp.IsError() {
		body, _ := io.ReadAll(resp.RawBody())
		resp.RawBody().Close()
		cancel()
		return nil, llm.NewGenerationError(
			fmt.Sprintf("streaming request failed: %s: %s", resp.Status(), strings.TrimSpace(string(body))), nil)
	}

	scanner := bufio.NewScanner(resp.RawBody())
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)

	return &sseStream{
		body:    resp.RawBody(),
		scanner: scanner,
		cancel:  cancel,
		log:     c.log,
	}, nil
}

func (c *Client) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: stream,
	}
}

// sseStream scans "data: " lines off a chat completions event stream and
// yields the content deltas. Empty deltas and unparseable chunks are skipped.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc
	log     zerolog.Logger
	done    bool
}

func (s *sseStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		data, found := strings.CutPrefix(s.scanner.Text(), dataPrefix)
		if !found {
			continue
		}
		if data == doneMarker {
			s.done = true
			return "", io.EOF
		}

		var chunk openai.ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			s.log.Warn().Err(err).Msg("skipping unparseable stream chunk")
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", llm.NewGenerationError("stream read failed", err)
	}
	return "", io.EOF
}

func (s *sseStream) Close() error {
	s.cancel()
	return s.body.Close()
}
