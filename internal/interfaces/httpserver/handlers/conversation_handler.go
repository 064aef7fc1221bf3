package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/observability"
	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver/dto"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// ConversationHandler exposes the read endpoints.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /conversations/
func (h *ConversationHandler) List(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), "conversations.list")
	defer span.End()

	convs, err := h.service.ListConversations(ctx)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	items := make([]dto.ConversationSummaryResponse, 0, len(convs))
	for _, conv := range convs {
		items = append(items, dto.MapConversationSummary(conv))
	}

	c.JSON(http.StatusOK, dto.ListConversationsResponse{
		Success:       true,
		Count:         len(items),
		Conversations: items,
	})
}

// Get handles GET /conversations/:id/
func (h *ConversationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		platformerrors.WriteValidationError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "conversations.get")
	defer span.End()

	conv, err := h.service.GetConversation(ctx, uint(id))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.GetConversationResponse{
		Success:      true,
		Conversation: dto.MapConversationDetail(conv),
	})
}
