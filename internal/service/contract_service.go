package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
)

type ContractService struct {
	repo *repository.ContractRepository
}

type ContractInput struct {
	Number      string     `json:"number" validate:"required,max=64"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description" validate:"max=2000"`
}

func NewContractService(repo *repository.ContractRepository) *ContractService {
	return &ContractService{repo: repo}
}

func (s *ContractService) Create(ctx context.Context, input ContractInput) (*model.Contract, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	contract := &model.Contract{}
	input.apply(contract)
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, contractError(err)
	}
	return contract, nil
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query string) ([]model.Contract, error) {
	return s.repo.List(ctx, query)
}

func (s *ContractService) Update(ctx context.Context, id uuid.UUID, input ContractInput) (*model.Contract, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	contract, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	input.apply(contract)
	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, contractError(err)
	}
	return contract, nil
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: contract is referenced by %d work card(s)", ErrConflict, refs)
	}
	return translate(s.repo.Delete(ctx, id))
}

func (in ContractInput) normalize() (ContractInput, error) {
	in.Number = strings.TrimSpace(in.Number)
	in.Description = strings.TrimSpace(in.Description)
	in.StartDate = dateOnly(in.StartDate)
	if in.EndDate != nil {
		end := dateOnly(*in.EndDate)
		in.EndDate = &end
	}
	if err := validateInput(in); err != nil {
		return in, err
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return in, fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidInput)
	}
	return in, nil
}

func (in ContractInput) apply(contract *model.Contract) {
	contract.Number = in.Number
	contract.StartDate = in.StartDate
	contract.EndDate = in.EndDate
	contract.Description = in.Description
}

func contractError(err error) error {
	err = translate(err)
	if err == ErrConflict {
		return fmt.Errorf("%w: contract number is already in use", ErrConflict)
	}
	return err
}
