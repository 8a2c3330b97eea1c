package database

import (
	"fmt"
	"log"

	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table in dependency order (parents first).
func Models() []any {
	return []any{
		&models.User{},
		&models.TaskCategory{},
		&models.Task{},
		&models.TaskAttachment{},
	}
}

// Migrate creates or updates all tables and then makes sure the query indexes exist.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// AddIndexes creates the indexes the ownership-scoped filters rely on when an
// older schema is missing them.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
	}{
		// Task indexes for the date, status and priority views
		{&models.Task{}, "idx_tasks_user_date"},
		{&models.Task{}, "idx_tasks_user_status"},
		{&models.Task{}, "idx_tasks_user_priority"},
		{&models.Task{}, "idx_tasks_custom_category_id"},

		// Category uniqueness per user
		{&models.TaskCategory{}, "idx_task_categories_user_name"},

		// Attachments are always reached through their task
		{&models.TaskAttachment{}, "idx_task_attachments_task_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s", idx.name)
	}

	return nil
}
