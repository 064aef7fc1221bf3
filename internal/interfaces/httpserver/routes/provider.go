package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver/handlers"
)

// Provider coordinates route registration.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register attaches the API routes to the gin engine. Paths keep a trailing
// slash to match existing clients.
func (p *Provider) Register(engine *gin.Engine) {
	engine.GET("/conversations/", p.handlers.Conversation.List)
	engine.GET("/conversations/:id/", p.handlers.Conversation.Get)
	engine.POST("/send-message/", p.handlers.Chat.SendMessage)
	engine.POST("/send-message-stream/", p.handlers.Chat.SendMessageStream)
	engine.POST("/end-conversation/", p.handlers.Archive.EndConversation)
	engine.POST("/query-conversations/", p.handlers.Archive.QueryConversations)
}
