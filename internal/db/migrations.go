package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/model"
)

var migrationModels = []interface{}{
	&model.Worker{},
	&model.WorkType{},
	&model.Product{},
	&model.Contract{},
	&model.WorkCard{},
	&model.WorkCardItem{},
	&model.WorkCardWorker{},
}

var migrationStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_work_types_name_valid_from ON work_types (name, valid_from);`,
	`CREATE INDEX IF NOT EXISTS idx_work_cards_date_number ON work_cards (date, number);`,
	`CREATE INDEX IF NOT EXISTS idx_work_card_items_card_type ON work_card_items (work_card_id, work_type_id);`,
	`CREATE INDEX IF NOT EXISTS idx_workers_full_name ON workers (last_name, first_name, middle_name);`,
}

func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(migrationModels...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
