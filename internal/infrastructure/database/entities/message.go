package entities

import "time"

// Message is the messages table row.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;index"`
	Content        string    `gorm:"type:text;not null"`
	Sender         string    `gorm:"type:varchar(10);not null"`
	Timestamp      time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
