package conversation

import "time"

// Streaming relay events. A streaming send emits Start, zero or more Chunks in
// model emission order, then exactly one terminal event (Done xor Error).

type StreamEventType string

const (
	EventStart StreamEventType = "start"
	EventChunk StreamEventType = "chunk"
	EventDone  StreamEventType = "done"
	EventError StreamEventType = "error"
)

// StreamEvent is one tagged event of a streaming send. Only the fields for its
// Type are populated.
type StreamEvent struct {
	Type StreamEventType `json:"type"`

	// start
	ConversationID uint `json:"conversationId,omitempty"`
	UserMessageID  uint `json:"userMessageId,omitempty"`
	AIMessageID    uint `json:"aiMessageId,omitempty"`

	// chunk
	Content string `json:"content,omitempty"`

	// done
	FullText  string     `json:"fullText,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

func startEvent(conversationID, userMessageID, aiMessageID uint) StreamEvent {
	return StreamEvent{
		Type:           EventStart,
		ConversationID: conversationID,
		UserMessageID:  userMessageID,
		AIMessageID:    aiMessageID,
	}
}

func chunkEvent(content string) StreamEvent {
	return StreamEvent{Type: EventChunk, Content: content}
}

func doneEvent(fullText string, timestamp time.Time) StreamEvent {
	return StreamEvent{Type: EventDone, FullText: fullText, Timestamp: &timestamp}
}

func errorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}
