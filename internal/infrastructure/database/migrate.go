package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/database/entities"
)

// Migrate applies the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Conversation{},
		&entities.Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
