package database

import (
	"fmt"

	"github.com/yukikurage/task-manager-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the task listing relies on
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Owner-scoped filters and sorts
		{&models.Task{}, "idx_tasks_user_status", "user_id, status"},
		{&models.Task{}, "idx_tasks_user_priority", "user_id, priority"},
		{&models.Task{}, "idx_tasks_user_due_date", "user_id, due_date"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", stmt.Schema.Table))
	}

	return nil
}
