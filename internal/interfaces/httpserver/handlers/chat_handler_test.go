package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver/handlers"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// MockConversationService is a func-field mock of conversation.Service.
type MockConversationService struct {
	ListConversationsFunc      func(ctx context.Context) ([]*conversation.Conversation, error)
	GetConversationFunc        func(ctx context.Context, id uint) (*conversation.Conversation, error)
	SendMessageFunc            func(ctx context.Context, params conversation.SendMessageParams) (*conversation.SendMessageResult, error)
	SendMessageStreamFunc      func(ctx context.Context, params conversation.SendMessageParams) (<-chan conversation.StreamEvent, error)
	EndConversationFunc        func(ctx context.Context, id uint) (*conversation.EndConversationResult, error)
	QueryPastConversationsFunc func(ctx context.Context, query string, filters conversation.QueryFilters) (*conversation.QueryResult, error)
}

func (m *MockConversationService) ListConversations(ctx context.Context) ([]*conversation.Conversation, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx)
	}
	return nil, nil
}

func (m *MockConversationService) GetConversation(ctx context.Context, id uint) (*conversation.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockConversationService) SendMessage(ctx context.Context, params conversation.SendMessageParams) (*conversation.SendMessageResult, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockConversationService) SendMessageStream(ctx context.Context, params conversation.SendMessageParams) (<-chan conversation.StreamEvent, error) {
	if m.SendMessageStreamFunc != nil {
		return m.SendMessageStreamFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockConversationService) EndConversation(ctx context.Context, id uint) (*conversation.EndConversationResult, error) {
	if m.EndConversationFunc != nil {
		return m.EndConversationFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockConversationService) QueryPastConversations(ctx context.Context, query string, filters conversation.QueryFilters) (*conversation.QueryResult, error) {
	if m.QueryPastConversationsFunc != nil {
		return m.QueryPastConversationsFunc(ctx, query, filters)
	}
	return nil, nil
}

func setupRouter(service conversation.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	provider := handlers.NewProvider(service, zerolog.Nop())
	r.GET("/conversations/", provider.Conversation.List)
	r.GET("/conversations/:id/", provider.Conversation.Get)
	r.POST("/send-message/", provider.Chat.SendMessage)
	r.POST("/send-message-stream/", provider.Chat.SendMessageStream)
	r.POST("/end-conversation/", provider.Archive.EndConversation)
	r.POST("/query-conversations/", provider.Archive.QueryConversations)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandler_SendMessage_NewConversation(t *testing.T) {
	mockService := &MockConversationService{
		SendMessageFunc: func(ctx context.Context, params conversation.SendMessageParams) (*conversation.SendMessageResult, error) {
			if params.ConversationID != nil {
				t.Errorf("expected nil conversation id, got %v", *params.ConversationID)
			}
			title := "Greetings"
			return &conversation.SendMessageResult{
				Conversation: &conversation.Conversation{ID: 12, Title: &title, Status: conversation.StatusActive},
				UserMessage:  &conversation.Message{ID: 1, ConversationID: 12, Content: params.Message, Sender: conversation.SenderUser, Timestamp: time.Now()},
				AIMessage:    &conversation.Message{ID: 2, ConversationID: 12, Content: "Hello!", Sender: conversation.SenderAI, Timestamp: time.Now()},
			}, nil
		},
	}

	router := setupRouter(mockService)
	w := postJSON(t, router, "/send-message/", map[string]any{"message": "Hi"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if response["success"] != true {
		t.Error("expected success true")
	}
	if response["conversationId"] != float64(12) {
		t.Errorf("conversationId = %v", response["conversationId"])
	}
	userMessage := response["userMessage"].(map[string]any)
	if userMessage["content"] != "Hi" {
		t.Errorf("userMessage.content = %v", userMessage["content"])
	}
	aiResponse := response["aiResponse"].(map[string]any)
	if aiResponse["content"] == "" {
		t.Error("aiResponse.content must be non-empty")
	}
}

func TestChatHandler_SendMessage_MissingMessage(t *testing.T) {
	router := setupRouter(&MockConversationService{})
	w := postJSON(t, router, "/send-message/", map[string]any{"title": "no message"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatHandler_SendMessage_UnknownConversation(t *testing.T) {
	mockService := &MockConversationService{
		SendMessageFunc: func(ctx context.Context, params conversation.SendMessageParams) (*conversation.SendMessageResult, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "conversation not found: 99", nil)
		},
	}

	router := setupRouter(mockService)
	w := postJSON(t, router, "/send-message/", map[string]any{"conversationId": 99, "message": "Hi"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestChatHandler_SendMessage_EndedConversation(t *testing.T) {
	mockService := &MockConversationService{
		SendMessageFunc: func(ctx context.Context, params conversation.SendMessageParams) (*conversation.SendMessageResult, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeInvalidState, "Cannot send messages to ended conversation", nil)
		},
	}

	router := setupRouter(mockService)
	w := postJSON(t, router, "/send-message/", map[string]any{"conversationId": 3, "message": "Hi"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ended conversation") {
		t.Errorf("body must carry a descriptive message: %s", w.Body.String())
	}
}

func parseSSEEvents(t *testing.T, body string) []conversation.StreamEvent {
	t.Helper()
	var events []conversation.StreamEvent
	for _, line := range strings.Split(body, "\n") {
		data, found := strings.CutPrefix(line, "data: ")
		if !found {
			continue
		}
		var event conversation.StreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			t.Fatalf("parse SSE frame %q: %v", line, err)
		}
		events = append(events, event)
	}
	return events
}

func TestChatHandler_SendMessageStream(t *testing.T) {
	now := time.Now()
	mockService := &MockConversationService{
		SendMessageStreamFunc: func(ctx context.Context, params conversation.SendMessageParams) (<-chan conversation.StreamEvent, error) {
			events := make(chan conversation.StreamEvent, 8)
			events <- conversation.StreamEvent{Type: conversation.EventStart, ConversationID: 5, UserMessageID: 10, AIMessageID: 11}
			events <- conversation.StreamEvent{Type: conversation.EventChunk, Content: "Hel"}
			events <- conversation.StreamEvent{Type: conversation.EventChunk, Content: "lo"}
			events <- conversation.StreamEvent{Type: conversation.EventDone, FullText: "Hello", Timestamp: &now}
			close(events)
			return events, nil
		},
	}

	router := setupRouter(mockService)
	w := postJSON(t, router, "/send-message-stream/", map[string]any{"conversationId": 5, "message": "Hi"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}

	events := parseSSEEvents(t, w.Body.String())
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[0].Type != conversation.EventStart || events[0].AIMessageID != 11 {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Content+events[2].Content != "Hello" {
		t.Errorf("chunks must concatenate to Hello: %+v", events[1:3])
	}
	if events[3].Type != conversation.EventDone || events[3].FullText != "Hello" {
		t.Errorf("terminal event = %+v", events[3])
	}
}

func TestChatHandler_SendMessageStream_ValidationBeforeStream(t *testing.T) {
	mockService := &MockConversationService{
		SendMessageStreamFunc: func(ctx context.Context, params conversation.SendMessageParams) (<-chan conversation.StreamEvent, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "conversation not found: 404", nil)
		},
	}

	router := setupRouter(mockService)
	w := postJSON(t, router, "/send-message-stream/", map[string]any{"conversationId": 404, "message": "Hi"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before stream begins, got %d", w.Code)
	}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") {
		t.Error("validation failure must not open an event stream")
	}
}
