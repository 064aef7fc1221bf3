package entities

import "time"

// Conversation is the conversations table row.
type Conversation struct {
	ID             uint       `gorm:"primaryKey"`
	Title          *string    `gorm:"type:varchar(255)"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index"`
	StartTimestamp time.Time  `gorm:"autoCreateTime;index"`
	EndTimestamp   *time.Time `gorm:""`
	Summary        *string    `gorm:"type:text"`
	Messages       []Message  `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}
