package handlers

import (
	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Archive      *ArchiveHandler
}

// NewProvider constructs the handler provider with the domain service.
func NewProvider(service conversation.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(service, log),
		Chat:         NewChatHandler(service, log),
		Archive:      NewArchiveHandler(service, log),
	}
}
