package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/model"
)

type WorkerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

func (r *WorkerRepository) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *WorkerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	var worker model.Worker
	if err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// List returns workers ordered by full name. A non-empty query matches any
// part of the name, personnel number or workshop.
func (r *WorkerRepository) List(ctx context.Context, query string) ([]model.Worker, error) {
	tx := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC, middle_name ASC")
	if strings.TrimSpace(query) != "" {
		tx = tx.Where(`search_key LIKE ? ESCAPE '\'`, model.LikePattern(query))
	}

	var workers []model.Worker
	if err := tx.Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *WorkerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Worker, error) {
	if len(ids) == 0 {
		return []model.Worker{}, nil
	}
	var workers []model.Worker
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *WorkerRepository) Update(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

func (r *WorkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.Worker{}, id)
}

// CountReferences returns how many work cards the worker is assigned to.
func (r *WorkerRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM work_card_workers WHERE worker_id = ?
	`, id).Scan(&count).Error
	return count, err
}
