package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/sdelka/internal/model"
)

type WorkCardRepository struct {
	db *gorm.DB
}

func NewWorkCardRepository(db *gorm.DB) *WorkCardRepository {
	return &WorkCardRepository{db: db}
}

// Create inserts the card header and its lines in one transaction.
func (r *WorkCardRepository) Create(ctx context.Context, card *model.WorkCard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(card).Error; err != nil {
			return err
		}
		return insertLines(tx, card)
	})
}

// Replace overwrites the card header and swaps all of its lines.
func (r *WorkCardRepository) Replace(ctx context.Context, card *model.WorkCard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.WorkCard{}).
			Where("id = ?", card.ID).
			Updates(map[string]interface{}{
				"number":       card.Number,
				"date":         card.Date,
				"product_id":   card.ProductID,
				"contract_id":  card.ContractID,
				"total_amount": card.TotalAmount,
				"updated_at":   time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := deleteLines(tx, card.ID); err != nil {
			return err
		}
		return insertLines(tx, card)
	})
}

func insertLines(tx *gorm.DB, card *model.WorkCard) error {
	for i := range card.Items {
		card.Items[i].ID = uuid.Nil
		card.Items[i].WorkCardID = card.ID
		card.Items[i].Position = i
	}
	for i := range card.Workers {
		card.Workers[i].ID = uuid.Nil
		card.Workers[i].WorkCardID = card.ID
		card.Workers[i].Position = i
	}

	if len(card.Items) > 0 {
		if err := tx.Omit(clause.Associations).Create(&card.Items).Error; err != nil {
			return err
		}
	}
	if len(card.Workers) > 0 {
		if err := tx.Omit(clause.Associations).Create(&card.Workers).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteLines(tx *gorm.DB, cardID uuid.UUID) error {
	if err := tx.Where("work_card_id = ?", cardID).Delete(&model.WorkCardItem{}).Error; err != nil {
		return err
	}
	return tx.Where("work_card_id = ?", cardID).Delete(&model.WorkCardWorker{}).Error
}

func (r *WorkCardRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkCard, error) {
	var card model.WorkCard
	if err := withCardPreloads(r.db.WithContext(ctx)).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *WorkCardRepository) List(ctx context.Context, filter model.WorkCardFilter) ([]model.WorkCard, error) {
	tx := withCardPreloads(r.db.WithContext(ctx)).Order("date DESC, number DESC")
	if filter.DateFrom != nil {
		tx = tx.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("date < ?", filter.DateTo.AddDate(0, 0, 1))
	}
	if filter.WorkerID != nil {
		tx = tx.Where("id IN (SELECT work_card_id FROM work_card_workers WHERE worker_id = ?)", *filter.WorkerID)
	}
	if filter.ProductID != nil {
		tx = tx.Where("product_id = ?", *filter.ProductID)
	}
	if filter.ContractID != nil {
		tx = tx.Where("contract_id = ?", *filter.ContractID)
	}

	var cards []model.WorkCard
	if err := tx.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func withCardPreloads(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Product").
		Preload("Contract").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.WorkType").
		Preload("Workers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Workers.Worker")
}

func (r *WorkCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteLines(tx, id); err != nil {
			return err
		}
		return deleteByID(ctx, tx, &model.WorkCard{}, id)
	})
}

func (r *WorkCardRepository) MaxNumber(ctx context.Context) (int64, error) {
	var number int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(number), 0) FROM work_cards
	`).Scan(&number).Error; err != nil {
		return 0, err
	}
	return number, nil
}

// NumberTaken reports whether another card already uses number.
func (r *WorkCardRepository) NumberTaken(ctx context.Context, number int64, exclude uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM work_cards WHERE number = ? AND id <> ?
	`, number, exclude).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
