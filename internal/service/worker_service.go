package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
)

type WorkerService struct {
	repo *repository.WorkerRepository
}

type WorkerInput struct {
	LastName       string `json:"last_name" validate:"required,max=100"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	MiddleName     string `json:"middle_name" validate:"max=100"`
	EmployeeNumber string `json:"employee_number" validate:"max=32"`
	Workshop       string `json:"workshop" validate:"max=64"`
}

func NewWorkerService(repo *repository.WorkerRepository) *WorkerService {
	return &WorkerService{repo: repo}
}

func (s *WorkerService) Create(ctx context.Context, input WorkerInput) (*model.Worker, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	worker := &model.Worker{}
	input.apply(worker)
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, workerError(err)
	}
	return worker, nil
}

func (s *WorkerService) Get(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	worker, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return worker, nil
}

func (s *WorkerService) List(ctx context.Context, query string) ([]model.Worker, error) {
	return s.repo.List(ctx, query)
}

func (s *WorkerService) Update(ctx context.Context, id uuid.UUID, input WorkerInput) (*model.Worker, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	worker, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	input.apply(worker)
	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, workerError(err)
	}
	return worker, nil
}

func (s *WorkerService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: worker is assigned to %d work card(s)", ErrConflict, refs)
	}
	return translate(s.repo.Delete(ctx, id))
}

func (in WorkerInput) normalize() WorkerInput {
	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.EmployeeNumber = strings.TrimSpace(in.EmployeeNumber)
	in.Workshop = strings.TrimSpace(in.Workshop)
	return in
}

func (in WorkerInput) apply(worker *model.Worker) {
	worker.LastName = in.LastName
	worker.FirstName = in.FirstName
	worker.MiddleName = in.MiddleName
	worker.Workshop = in.Workshop
	worker.EmployeeNumber = nil
	if in.EmployeeNumber != "" {
		number := in.EmployeeNumber
		worker.EmployeeNumber = &number
	}
}

func workerError(err error) error {
	err = translate(err)
	if err == ErrConflict {
		return fmt.Errorf("%w: employee number is already in use", ErrConflict)
	}
	return err
}
