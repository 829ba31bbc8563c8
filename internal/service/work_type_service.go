package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
)

type WorkTypeService struct {
	repo *repository.WorkTypeRepository
}

type WorkTypeInput struct {
	Name      string         `json:"name" validate:"required,max=255"`
	Unit      model.WorkUnit `json:"unit" validate:"required"`
	Price     float64        `json:"price" validate:"gt=0"`
	ValidFrom time.Time      `json:"valid_from" validate:"required"`
}

func NewWorkTypeService(repo *repository.WorkTypeRepository) *WorkTypeService {
	return &WorkTypeService{repo: repo}
}

func (s *WorkTypeService) Create(ctx context.Context, input WorkTypeInput) (*model.WorkType, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	workType := &model.WorkType{}
	input.apply(workType)
	if err := s.repo.Create(ctx, workType); err != nil {
		return nil, workTypeError(err)
	}
	return workType, nil
}

func (s *WorkTypeService) Get(ctx context.Context, id uuid.UUID) (*model.WorkType, error) {
	workType, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return workType, nil
}

func (s *WorkTypeService) List(ctx context.Context, query string) ([]model.WorkType, error) {
	return s.repo.List(ctx, query)
}

func (s *WorkTypeService) Update(ctx context.Context, id uuid.UUID, input WorkTypeInput) (*model.WorkType, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	workType, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	input.apply(workType)
	if err := s.repo.Update(ctx, workType); err != nil {
		return nil, workTypeError(err)
	}
	return workType, nil
}

func (s *WorkTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: work type is used in %d work card line(s)", ErrConflict, refs)
	}
	return translate(s.repo.Delete(ctx, id))
}

// PriceAt returns the version of the named work type in force on date.
func (s *WorkTypeService) PriceAt(ctx context.Context, name string, date time.Time) (*model.WorkType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	workType, err := s.repo.PriceAt(ctx, name, dateOnly(date))
	if err != nil {
		return nil, translate(err)
	}
	return workType, nil
}

func (in WorkTypeInput) normalize() (WorkTypeInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = model.WorkUnit(strings.ToLower(strings.TrimSpace(string(in.Unit))))
	in.ValidFrom = dateOnly(in.ValidFrom)
	if err := validateInput(in); err != nil {
		return in, err
	}
	if !in.Unit.Valid() {
		return in, fmt.Errorf("%w: unit must be %q or %q", ErrInvalidInput, model.WorkUnitPieces, model.WorkUnitSets)
	}
	in.Price = decimal.NewFromFloat(in.Price).Round(amountPlaces).InexactFloat64()
	if in.Price <= 0 {
		return in, fmt.Errorf("%w: price must be at least 0.01", ErrInvalidInput)
	}
	return in, nil
}

func (in WorkTypeInput) apply(workType *model.WorkType) {
	workType.Name = in.Name
	workType.Unit = in.Unit
	workType.Price = in.Price
	workType.ValidFrom = in.ValidFrom
}

func workTypeError(err error) error {
	err = translate(err)
	if err == ErrConflict {
		return fmt.Errorf("%w: work type already has a price effective on that date", ErrConflict)
	}
	return err
}
