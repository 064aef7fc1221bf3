package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/metrics"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/observability"
	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver/dto"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// ArchiveHandler exposes the end-of-life endpoints: ending a conversation and
// querying the archive of ended ones.
type ArchiveHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewArchiveHandler constructs the handler.
func NewArchiveHandler(service conversation.Service, log zerolog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		service: service,
		log:     log.With().Str("handler", "archive").Logger(),
	}
}

// EndConversation handles POST /end-conversation/
func (h *ArchiveHandler) EndConversation(c *gin.Context) {
	var req dto.EndConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "archive.end_conversation")
	defer span.End()

	result, err := h.service.EndConversation(ctx, req.ConversationID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	metrics.ConversationsEndedTotal.Inc()

	c.JSON(http.StatusOK, dto.EndConversationResponse{
		Success:        true,
		ConversationID: result.ConversationID,
		Summary:        result.Summary,
		Title:          result.Title,
		EndTimestamp:   result.EndTimestamp,
	})
}

// QueryConversations handles POST /query-conversations/
func (h *ArchiveHandler) QueryConversations(c *gin.Context) {
	var req dto.QueryConversationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err)
		return
	}

	depth := req.AnalysisDepth
	if depth == "" {
		depth = "basic"
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "archive.query_conversations")
	defer span.End()

	result, err := h.service.QueryPastConversations(ctx, req.Query, conversation.QueryFilters{
		DateRangeStart: req.DateRangeStart,
		DateRangeEnd:   req.DateRangeEnd,
		Keywords:       req.Keywords,
		AnalysisDepth:  depth,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.QueryConversationsResponse{
		Success: true,
		Result:  result,
	})
}
