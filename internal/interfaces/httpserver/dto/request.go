package dto

import "time"

// SendMessageRequest is the body of POST /send-message/ and
// POST /send-message-stream/. ConversationID absent means "start a new
// conversation"; Title is only honored on creation.
type SendMessageRequest struct {
	ConversationID *uint  `json:"conversationId"`
	Message        string `json:"message" binding:"required"`
	Title          string `json:"title"`
}

// EndConversationRequest is the body of POST /end-conversation/.
type EndConversationRequest struct {
	ConversationID uint `json:"conversationId" binding:"required"`
}

// QueryConversationsRequest is the body of POST /query-conversations/. The
// date range narrows candidates; keywords and analysisDepth only shape the
// prompt.
type QueryConversationsRequest struct {
	Query          string     `json:"query" binding:"required"`
	DateRangeStart *time.Time `json:"dateRangeStart"`
	DateRangeEnd   *time.Time `json:"dateRangeEnd"`
	Keywords       []string   `json:"keywords"`
	AnalysisDepth  string     `json:"analysisDepth" binding:"omitempty,oneof=basic detailed comprehensive"`
}
