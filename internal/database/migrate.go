package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/brieflyai/backend/pkg/models"
)

// Migrate creates or updates the accounts, topics and account_topics
// tables. Invoked once at startup; the join table and its cascading
// foreign keys are derived from the Account.Topics relation.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}, &models.Topic{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
