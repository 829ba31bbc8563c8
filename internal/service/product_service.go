package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
)

type ProductService struct {
	repo *repository.ProductRepository
}

type ProductInput struct {
	Number           string `json:"number" validate:"required,max=64"`
	Type             string `json:"type" validate:"max=128"`
	AdditionalNumber string `json:"additional_number" validate:"max=64"`
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{}
	input.apply(product)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, query string) ([]model.Product, error) {
	return s.repo.List(ctx, query)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*model.Product, error) {
	input = input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	input.apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: product is referenced by %d work card(s)", ErrConflict, refs)
	}
	return translate(s.repo.Delete(ctx, id))
}

func (in ProductInput) normalize() ProductInput {
	in.Number = strings.TrimSpace(in.Number)
	in.Type = strings.TrimSpace(in.Type)
	in.AdditionalNumber = strings.TrimSpace(in.AdditionalNumber)
	return in
}

func (in ProductInput) apply(product *model.Product) {
	product.Number = in.Number
	product.Type = in.Type
	product.AdditionalNumber = in.AdditionalNumber
}
