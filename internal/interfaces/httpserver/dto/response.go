package dto

import (
	"time"

	domain "github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
)

// MessageResponse is one message in API responses.
type MessageResponse struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversationId"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
}

// ConversationSummaryResponse is the list-view shape of a conversation.
type ConversationSummaryResponse struct {
	ID              uint       `json:"id"`
	Title           *string    `json:"title"`
	Status          string     `json:"status"`
	StartTimestamp  time.Time  `json:"startTimestamp"`
	EndTimestamp    *time.Time `json:"endTimestamp"`
	Summary         *string    `json:"summary"`
	MessageCount    int64      `json:"messageCount"`
	DurationMinutes *float64   `json:"durationMinutes"`
}

// ConversationDetailResponse is the single-conversation shape with messages.
type ConversationDetailResponse struct {
	ConversationSummaryResponse
	Messages []MessageResponse `json:"messages"`
}

// ListConversationsResponse is the body of GET /conversations/.
type ListConversationsResponse struct {
	Success       bool                          `json:"success"`
	Count         int                           `json:"count"`
	Conversations []ConversationSummaryResponse `json:"conversations"`
}

// GetConversationResponse is the body of GET /conversations/:id/.
type GetConversationResponse struct {
	Success      bool                       `json:"success"`
	Conversation ConversationDetailResponse `json:"conversation"`
}

// SendMessageResponse is the body of POST /send-message/.
type SendMessageResponse struct {
	Success        bool            `json:"success"`
	ConversationID uint            `json:"conversationId"`
	UserMessage    MessageResponse `json:"userMessage"`
	AIResponse     MessageResponse `json:"aiResponse"`
}

// EndConversationResponse is the body of POST /end-conversation/.
type EndConversationResponse struct {
	Success        bool      `json:"success"`
	ConversationID uint      `json:"conversationId"`
	Summary        string    `json:"summary"`
	Title          string    `json:"title"`
	EndTimestamp   time.Time `json:"endTimestamp"`
}

// QueryConversationsResponse is the body of POST /query-conversations/.
type QueryConversationsResponse struct {
	Success bool                `json:"success"`
	Result  *domain.QueryResult `json:"result"`
}

// MapMessage converts a domain message.
func MapMessage(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Content:        msg.Content,
		Sender:         string(msg.Sender),
		Timestamp:      msg.Timestamp,
	}
}

// MapConversationSummary converts a domain conversation to its list shape.
func MapConversationSummary(conv *domain.Conversation) ConversationSummaryResponse {
	return ConversationSummaryResponse{
		ID:              conv.ID,
		Title:           conv.Title,
		Status:          string(conv.Status),
		StartTimestamp:  conv.StartTimestamp,
		EndTimestamp:    conv.EndTimestamp,
		Summary:         conv.Summary,
		MessageCount:    conv.MessageCount,
		DurationMinutes: conv.DurationMinutes(),
	}
}

// MapConversationDetail converts a domain conversation with its messages.
func MapConversationDetail(conv *domain.Conversation) ConversationDetailResponse {
	messages := make([]MessageResponse, 0, len(conv.Messages))
	for i := range conv.Messages {
		messages = append(messages, MapMessage(&conv.Messages[i]))
	}
	return ConversationDetailResponse{
		ConversationSummaryResponse: MapConversationSummary(conv),
		Messages:                    messages,
	}
}
