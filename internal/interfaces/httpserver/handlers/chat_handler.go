package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/metrics"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/observability"
	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver/dto"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// ChatHandler exposes the message-sending endpoints.
type ChatHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service conversation.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// SendMessage handles POST /send-message/
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "chat.send_message")
	defer span.End()

	result, err := h.service.SendMessage(ctx, conversation.SendMessageParams{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Title:          req.Title,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusCreated, dto.SendMessageResponse{
		Success:        true,
		ConversationID: result.Conversation.ID,
		UserMessage:    dto.MapMessage(result.UserMessage),
		AIResponse:     dto.MapMessage(result.AIMessage),
	})
}

// SendMessageStream handles POST /send-message-stream/
//
// Validation failures are reported as normal HTTP errors before the stream
// begins. Once the event stream is open the response is text/event-stream and
// mid-flight failures arrive as an error event, never as an HTTP status.
func (h *ChatHandler) SendMessageStream(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), "chat.send_message_stream")
	defer span.End()

	events, err := h.service.SendMessageStream(ctx, conversation.SendMessageParams{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Title:          req.Title,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()

	// The event channel must be drained even if the client goes away, so the
	// service goroutine can finish persisting and release its lock.
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.log.Error().Err(err).Msg("marshal stream event failed")
			continue
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			h.log.Debug().Err(err).Msg("stream write failed, draining remaining events")
			continue
		}
		c.Writer.Flush()

		if event.Type == conversation.EventChunk {
			metrics.StreamChunksTotal.Inc()
		}
	}
}
