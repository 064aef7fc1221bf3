package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/database/entities"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// Repository persists conversations in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the conversation record and backfills generated fields.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := toEntity(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create conversation", err)
	}

	conv.ID = entity.ID
	conv.StartTimestamp = entity.StartTimestamp
	return nil
}

// FindByID fetches a conversation with its messages in chronological order.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, fmt.Sprintf("conversation not found: %d", id), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch conversation", err)
	}

	conv := toDomain(&entity)
	conv.MessageCount = int64(len(entity.Messages))
	return conv, nil
}

// FindAll lists every conversation, most recent first, with message counts
// populated without loading message bodies.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	if err := r.db.WithContext(ctx).
		Order("start_timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err)
	}

	counts, err := r.messageCounts(ctx)
	if err != nil {
		return nil, err
	}

	convs := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		conv := toDomain(&rows[i])
		conv.MessageCount = counts[rows[i].ID]
		convs = append(convs, conv)
	}
	return convs, nil
}

// FindEnded lists ended conversations whose start time falls within the
// filter, most recent first, capped at limit, with messages preloaded.
func (r *Repository) FindEnded(ctx context.Context, filter domain.DateFilter, limit int) ([]*domain.Conversation, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusEnded))

	if filter.Start != nil {
		query = query.Where("start_timestamp >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("start_timestamp <= ?", *filter.End)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.Conversation
	if err := query.
		Order("start_timestamp DESC").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list ended conversations", err)
	}

	convs := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		conv := toDomain(&rows[i])
		conv.MessageCount = int64(len(rows[i].Messages))
		convs = append(convs, conv)
	}
	return convs, nil
}

// Update writes the mutable columns of the conversation row.
func (r *Repository) Update(ctx context.Context, conv *domain.Conversation) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", conv.ID).
		Select("status", "end_timestamp", "summary", "title").
		Updates(map[string]any{
			"status":        string(conv.Status),
			"end_timestamp": conv.EndTimestamp,
			"summary":       conv.Summary,
			"title":         conv.Title,
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update conversation", err)
	}
	return nil
}

func (r *Repository) messageCounts(ctx context.Context) (map[uint]int64, error) {
	type countRow struct {
		ConversationID uint
		Count          int64
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Select("conversation_id, COUNT(*) AS count").
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to count messages", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ConversationID] = row.Count
	}
	return counts, nil
}

func toEntity(conv *domain.Conversation) *entities.Conversation {
	return &entities.Conversation{
		ID:             conv.ID,
		Title:          conv.Title,
		Status:         string(conv.Status),
		StartTimestamp: conv.StartTimestamp,
		EndTimestamp:   conv.EndTimestamp,
		Summary:        conv.Summary,
	}
}

func toDomain(entity *entities.Conversation) *domain.Conversation {
	messages := make([]domain.Message, 0, len(entity.Messages))
	for _, msg := range entity.Messages {
		messages = append(messages, domain.Message{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Content:        msg.Content,
			Sender:         domain.Sender(msg.Sender),
			Timestamp:      msg.Timestamp,
		})
	}
	return &domain.Conversation{
		ID:             entity.ID,
		Title:          entity.Title,
		Status:         domain.ConversationStatus(entity.Status),
		StartTimestamp: entity.StartTimestamp,
		EndTimestamp:   entity.EndTimestamp,
		Summary:        entity.Summary,
		Messages:       messages,
	}
}
