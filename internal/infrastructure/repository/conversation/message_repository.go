package conversation

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/database/entities"
	"github.com/dev-9820/AI-chat-summariser/internal/utils/platformerrors"
)

// MessageRepository persists messages in PostgreSQL.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

var _ domain.MessageRepository = (*MessageRepository)(nil)

// Create inserts the message record and backfills generated fields.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	entity := &entities.Message{
		ConversationID: msg.ConversationID,
		Content:        msg.Content,
		Sender:         string(msg.Sender),
	}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create message", err)
	}

	msg.ID = entity.ID
	msg.Timestamp = entity.Timestamp
	return nil
}

// UpdateContent replaces the content of an existing message. Used once per
// streamed reply when its stream terminates.
func (r *MessageRepository) UpdateContent(ctx context.Context, messageID uint, content string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("id = ?", messageID).
		Update("content", content).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update message content", err)
	}
	return nil
}
