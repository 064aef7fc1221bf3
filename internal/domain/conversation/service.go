package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/llm"
	"github.com/dev-9820/AI-chat-summariser/internal/domain/prompt"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

const (
	// streamBufferSize bounds the relay channel between the completion stream
	// and the HTTP writer.
	streamBufferSize = 64

	// queryCandidateLimit caps how many ended conversations feed one history
	// query: the most recent matches of the date filter.
	queryCandidateLimit = 10

	fallbackTitle   = "Untitled Conversation"
	emptySummary    = "No messages in this conversation."
	titleMaxLength  = 255
	queryDateLayout = "2006-01-02 15:04"
)

// SendMessageParams describes one inbound user turn. A nil ConversationID
// starts a new conversation.
type SendMessageParams struct {
	ConversationID *uint
	Message        string
	Title          string
}

// SendMessageResult carries the persisted message pair.
type SendMessageResult struct {
	Conversation *Conversation
	UserMessage  *Message
	AIMessage    *Message
}

// EndConversationResult carries the summary and title generated on close.
type EndConversationResult struct {
	ConversationID uint
	Summary        string
	Title          string
	EndTimestamp   time.Time
}

// QueryFilters narrows and decorates a history query. The date range filters
// structurally; keywords and analysis depth only shape the prompt text.
type QueryFilters struct {
	DateRangeStart *time.Time
	DateRangeEnd   *time.Time
	Keywords       []string
	AnalysisDepth  string
}

// ConversationRef identifies a conversation considered by a history query.
type ConversationRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// QueryResult is the answer plus a manifest of the conversations considered.
type QueryResult struct {
	Query                 string            `json:"query"`
	Answer                string            `json:"answer"`
	ConversationsAnalyzed int               `json:"conversationsAnalyzed"`
	RelevantConversations []ConversationRef `json:"relevantConversations"`
}

// Service orchestrates the store, prompt builder and completion client.
type Service interface {
	ListConversations(ctx context.Context) ([]*Conversation, error)
	GetConversation(ctx context.Context, id uint) (*Conversation, error)
	SendMessage(ctx context.Context, params SendMessageParams) (*SendMessageResult, error)
	SendMessageStream(ctx context.Context, params SendMessageParams) (<-chan StreamEvent, error)
	EndConversation(ctx context.Context, id uint) (*EndConversationResult, error)
	QueryPastConversations(ctx context.Context, query string, filters QueryFilters) (*QueryResult, error)
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	conversations Repository
	messages      MessageRepository
	completer     llm.Completer
	log           zerolog.Logger

	// locks serializes writers per conversation id. Interleaved sends against
	// the same conversation would otherwise produce out-of-order transcripts.
	locks sync.Map
}

// NewService wires dependencies.
func NewService(
	conversations Repository,
	messages MessageRepository,
	completer llm.Completer,
	log zerolog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		conversations: conversations,
		messages:      messages,
		completer:     completer,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// ListConversations returns all conversations, most recent first, with
// message counts populated.
func (s *ServiceImpl) ListConversations(ctx context.Context) ([]*Conversation, error) {
	return s.conversations.FindAll(ctx)
}

// GetConversation returns one conversation with its full message history.
func (s *ServiceImpl) GetConversation(ctx context.Context, id uint) (*Conversation, error) {
	return s.conversations.FindByID(ctx, id)
}

// SendMessage appends a user turn, obtains a completion and appends it as the
// ai reply. A completion failure does not fail the request: the error text is
// persisted as the reply so the message pair always exists.
func (s *ServiceImpl) SendMessage(ctx context.Context, params SendMessageParams) (*SendMessageResult, error) {
	conv, err := s.resolveConversation(ctx, params)
	if err != nil {
		return nil, err
	}

	mu := s.lockConversation(conv.ID)
	mu.Lock()
	defer mu.Unlock()

	history := transcript(conv.Messages)

	userMsg := &Message{ConversationID: conv.ID, Content: params.Message, Sender: SenderUser}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	aiText, err := s.completer.Complete(ctx, prompt.Chat(history, params.Message))
	if err != nil {
		s.log.Warn().Err(err).Uint("conversation_id", conv.ID).Msg("completion failed, storing error text")
		aiText = fmt.Sprintf("Error generating response: %s", err)
	}

	aiMsg := &Message{ConversationID: conv.ID, Content: aiText, Sender: SenderAI}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		return nil, err
	}

	return &SendMessageResult{Conversation: conv, UserMessage: userMsg, AIMessage: aiMsg}, nil
}

// SendMessageStream performs the same setup as SendMessage but delivers the
// reply incrementally. The ai message row is created empty up front and
// updated exactly once when the stream terminates, with the accumulated text
// on success or the error text on failure.
//
// The returned channel emits Start first, Chunks in model emission order, and
// exactly one terminal event, then closes. Validation failures (unknown or
// ended conversation) are returned before any event is produced.
func (s *ServiceImpl) SendMessageStream(ctx context.Context, params SendMessageParams) (<-chan StreamEvent, error) {
	conv, err := s.resolveConversation(ctx, params)
	if err != nil {
		return nil, err
	}

	mu := s.lockConversation(conv.ID)
	mu.Lock()

	history := transcript(conv.Messages)

	userMsg := &Message{ConversationID: conv.ID, Content: params.Message, Sender: SenderUser}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		mu.Unlock()
		return nil, err
	}

	aiMsg := &Message{ConversationID: conv.ID, Content: "", Sender: SenderAI}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		mu.Unlock()
		return nil, err
	}

	events := make(chan StreamEvent, streamBufferSize)
	go func() {
		defer close(events)
		defer mu.Unlock()

		events <- startEvent(conv.ID, userMsg.ID, aiMsg.ID)

		stream, err := s.completer.CompleteStream(ctx, prompt.Chat(history, params.Message))
		if err != nil {
			s.finishStreamWithError(ctx, events, aiMsg.ID, err)
			return
		}
		defer stream.Close()

		var full strings.Builder
		for {
			fragment, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				s.finishStreamWithError(ctx, events, aiMsg.ID, err)
				return
			}
			if fragment == "" {
				continue
			}
			full.WriteString(fragment)
			events <- chunkEvent(fragment)
		}

		fullText := full.String()
		if err := s.messages.UpdateContent(context.WithoutCancel(ctx), aiMsg.ID, fullText); err != nil {
			s.log.Error().Err(err).Uint("message_id", aiMsg.ID).Msg("persist streamed reply failed")
			events <- errorEvent(err.Error())
			return
		}
		events <- doneEvent(fullText, aiMsg.Timestamp)
	}()

	return events, nil
}

func (s *ServiceImpl) finishStreamWithError(ctx context.Context, events chan<- StreamEvent, aiMessageID uint, cause error) {
	errText := fmt.Sprintf("Error generating response: %s", cause)
	s.log.Warn().Err(cause).Uint("message_id", aiMessageID).Msg("stream failed, storing error text")
	if err := s.messages.UpdateContent(context.WithoutCancel(ctx), aiMessageID, errText); err != nil {
		s.log.Error().Err(err).Uint("message_id", aiMessageID).Msg("persist stream error text failed")
	}
	events <- errorEvent(errText)
}

// EndConversation transitions the conversation to ended, stamps the end time,
// then generates and persists a summary and title. Generation failures never
// abort the transition: once validated, ending always succeeds.
func (s *ServiceImpl) EndConversation(ctx context.Context, id uint) (*EndConversationResult, error) {
	conv, err := s.conversations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.IsActive() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidState, "Conversation already ended", nil)
	}

	mu := s.lockConversation(conv.ID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	conv.Status = StatusEnded
	conv.EndTimestamp = &now
	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}

	summary := s.generateSummary(ctx, conv)
	title := s.generateEndTitle(ctx, conv)

	conv.Summary = &summary
	conv.Title = &title
	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}

	return &EndConversationResult{
		ConversationID: conv.ID,
		Summary:        summary,
		Title:          title,
		EndTimestamp:   now,
	}, nil
}

// QueryPastConversations answers a natural-language question over ended
// conversations. The date range narrows candidates structurally; at most the
// 10 most recent matches are considered, then keywords and depth only decorate
// the prompt.
func (s *ServiceImpl) QueryPastConversations(ctx context.Context, query string, filters QueryFilters) (*QueryResult, error) {
	candidates, err := s.conversations.FindEnded(ctx, DateFilter{
		Start: filters.DateRangeStart,
		End:   filters.DateRangeEnd,
	}, queryCandidateLimit)
	if err != nil {
		return nil, err
	}

	contexts := make([]prompt.ConversationContext, 0, len(candidates))
	refs := make([]ConversationRef, 0, len(candidates))
	for _, conv := range candidates {
		title := fmt.Sprintf("Conversation %d", conv.ID)
		if conv.Title != nil && *conv.Title != "" {
			title = *conv.Title
		}
		summary := "No summary available"
		if conv.Summary != nil && *conv.Summary != "" {
			summary = *conv.Summary
		}
		date := conv.StartTimestamp.Format(queryDateLayout)

		contexts = append(contexts, prompt.ConversationContext{
			ID:         conv.ID,
			Title:      title,
			Date:       date,
			Summary:    summary,
			Transcript: prompt.Transcript(transcript(conv.Messages)),
		})
		refs = append(refs, ConversationRef{ID: conv.ID, Title: title, Date: date})
	}

	answer, err := s.completer.Complete(ctx, prompt.HistoryQuery(contexts, query, filters.Keywords, filters.AnalysisDepth))
	if err != nil {
		s.log.Warn().Err(err).Msg("history query completion failed, storing error text")
		return &QueryResult{
			Query:                 query,
			Answer:                fmt.Sprintf("Error processing query: %s", err),
			ConversationsAnalyzed: 0,
			RelevantConversations: []ConversationRef{},
		}, nil
	}

	return &QueryResult{
		Query:                 query,
		Answer:                answer,
		ConversationsAnalyzed: len(contexts),
		RelevantConversations: refs,
	}, nil
}

// resolveConversation loads the target conversation or creates a new one with
// a supplied or model-generated title.
func (s *ServiceImpl) resolveConversation(ctx context.Context, params SendMessageParams) (*Conversation, error) {
	if params.ConversationID != nil {
		conv, err := s.conversations.FindByID(ctx, *params.ConversationID)
		if err != nil {
			return nil, err
		}
		if !conv.IsActive() {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeInvalidState, "Cannot send messages to ended conversation", nil)
		}
		return conv, nil
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = s.generateTitle(ctx, params.Message)
	}

	conv := &Conversation{Title: &title, Status: StatusActive}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ServiceImpl) generateTitle(ctx context.Context, firstMessage string) string {
	text, err := s.completer.Complete(ctx, prompt.Title(firstMessage))
	if err != nil {
		s.log.Warn().Err(err).Msg("title generation failed, using fallback")
		return fallbackTitle
	}
	return normalizeTitle(text)
}

func (s *ServiceImpl) generateSummary(ctx context.Context, conv *Conversation) string {
	if len(conv.Messages) == 0 {
		return emptySummary
	}
	text, err := s.completer.Complete(ctx, prompt.Summary(transcript(conv.Messages)))
	if err != nil {
		s.log.Warn().Err(err).Uint("conversation_id", conv.ID).Msg("summary generation failed, storing error text")
		return fmt.Sprintf("Error generating summary: %s", err)
	}
	return text
}

func (s *ServiceImpl) generateEndTitle(ctx context.Context, conv *Conversation) string {
	seed := "Conversation"
	if first := conv.FirstMessage(); first != nil {
		seed = first.Content
	}
	return s.generateTitle(ctx, seed)
}

func (s *ServiceImpl) lockConversation(id uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func normalizeTitle(raw string) string {
	title := strings.Trim(strings.TrimSpace(raw), "\"'")
	if title == "" {
		return fallbackTitle
	}
	if len(title) > titleMaxLength {
		title = title[:titleMaxLength]
	}
	return title
}

func transcript(messages []Message) []prompt.Message {
	lines := make([]prompt.Message, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, prompt.Message{Sender: string(msg.Sender), Content: msg.Content})
	}
	return lines
}
