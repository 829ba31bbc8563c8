package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/model"
)

type WorkTypeRepository struct {
	db *gorm.DB
}

func NewWorkTypeRepository(db *gorm.DB) *WorkTypeRepository {
	return &WorkTypeRepository{db: db}
}

func (r *WorkTypeRepository) Create(ctx context.Context, workType *model.WorkType) error {
	return r.db.WithContext(ctx).Create(workType).Error
}

func (r *WorkTypeRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkType, error) {
	var workType model.WorkType
	if err := r.db.WithContext(ctx).First(&workType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workType, nil
}

func (r *WorkTypeRepository) List(ctx context.Context, query string) ([]model.WorkType, error) {
	tx := r.db.WithContext(ctx).Order("name ASC, valid_from DESC")
	if strings.TrimSpace(query) != "" {
		tx = tx.Where(`search_key LIKE ? ESCAPE '\'`, model.LikePattern(query))
	}

	var workTypes []model.WorkType
	if err := tx.Find(&workTypes).Error; err != nil {
		return nil, err
	}
	return workTypes, nil
}

func (r *WorkTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.WorkType, error) {
	if len(ids) == 0 {
		return []model.WorkType{}, nil
	}
	var workTypes []model.WorkType
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&workTypes).Error; err != nil {
		return nil, err
	}
	return workTypes, nil
}

// PriceAt returns the work type named name with the latest effective date not
// after date.
func (r *WorkTypeRepository) PriceAt(ctx context.Context, name string, date time.Time) (*model.WorkType, error) {
	var workType model.WorkType
	err := r.db.WithContext(ctx).
		Where("name = ? AND valid_from <= ?", name, date).
		Order("valid_from DESC").
		First(&workType).Error
	if err != nil {
		return nil, err
	}
	return &workType, nil
}

func (r *WorkTypeRepository) Update(ctx context.Context, workType *model.WorkType) error {
	return r.db.WithContext(ctx).Save(workType).Error
}

func (r *WorkTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.WorkType{}, id)
}

func (r *WorkTypeRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM work_card_items WHERE work_type_id = ?
	`, id).Scan(&count).Error
	return count, err
}
