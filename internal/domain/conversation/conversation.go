package conversation

import (
	"context"
	"math"
	"time"
)

type ConversationStatus string

const (
	StatusActive ConversationStatus = "active"
	StatusEnded  ConversationStatus = "ended"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single turn in a conversation. Messages are immutable once
// created, except for the streaming ai placeholder which is created empty and
// updated exactly once when its stream terminates.
type Message struct {
	ID             uint
	ConversationID uint
	Content        string
	Sender         Sender
	Timestamp      time.Time
}

// Conversation is a titled, time-bounded thread of alternating user/ai
// messages. EndTimestamp is set if and only if Status is ended.
type Conversation struct {
	ID             uint
	Title          *string
	Status         ConversationStatus
	StartTimestamp time.Time
	EndTimestamp   *time.Time
	Summary        *string
	Messages       []Message
	MessageCount   int64
}

// IsActive reports whether messages may still be appended.
func (c *Conversation) IsActive() bool {
	return c.Status == StatusActive
}

// DurationMinutes returns (end - start) in minutes rounded to two decimals,
// or nil while the conversation is still active.
func (c *Conversation) DurationMinutes() *float64 {
	if c.EndTimestamp == nil {
		return nil
	}
	minutes := c.EndTimestamp.Sub(c.StartTimestamp).Minutes()
	rounded := math.Round(minutes*100) / 100
	return &rounded
}

// FirstMessage returns the chronologically first message, or nil.
func (c *Conversation) FirstMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[0]
}

// DateFilter bounds conversations by their start timestamp.
type DateFilter struct {
	Start *time.Time
	End   *time.Time
}

// Repository persists conversations. Implementations return messages ordered
// by creation time; listings are ordered most-recent-first.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	FindByID(ctx context.Context, id uint) (*Conversation, error)
	FindAll(ctx context.Context) ([]*Conversation, error)
	FindEnded(ctx context.Context, filter DateFilter, limit int) ([]*Conversation, error)
	Update(ctx context.Context, conv *Conversation) error
}

// MessageRepository persists messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	UpdateContent(ctx context.Context, messageID uint, content string) error
}
