package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
)

type CardPDFGenerator interface {
	GenerateCard(card model.WorkCard) ([]byte, error)
}

type WorkCardService struct {
	cards     *repository.WorkCardRepository
	workers   *repository.WorkerRepository
	workTypes *repository.WorkTypeRepository
	products  *repository.ProductRepository
	contracts *repository.ContractRepository
	pdf       CardPDFGenerator
}

type WorkCardItemInput struct {
	WorkTypeID uuid.UUID `json:"work_type_id" validate:"required"`
	Quantity   float64   `json:"quantity" validate:"gt=0"`
}

// WorkCardInput carries the editable part of a card. Amounts are always
// computed from the work type prices in force on the card date.
type WorkCardInput struct {
	Number     int64               `json:"number" validate:"gte=0"`
	Date       time.Time           `json:"date" validate:"required"`
	ProductID  *uuid.UUID          `json:"product_id"`
	ContractID *uuid.UUID          `json:"contract_id"`
	Items      []WorkCardItemInput `json:"items" validate:"min=1,dive"`
	WorkerIDs  []uuid.UUID         `json:"worker_ids" validate:"min=1,dive,required"`
}

type FileResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewWorkCardService(
	cards *repository.WorkCardRepository,
	workers *repository.WorkerRepository,
	workTypes *repository.WorkTypeRepository,
	products *repository.ProductRepository,
	contracts *repository.ContractRepository,
	pdf CardPDFGenerator,
) *WorkCardService {
	return &WorkCardService{
		cards:     cards,
		workers:   workers,
		workTypes: workTypes,
		products:  products,
		contracts: contracts,
		pdf:       pdf,
	}
}

func (s *WorkCardService) Create(ctx context.Context, input WorkCardInput) (*model.WorkCard, error) {
	card, err := s.buildCard(ctx, uuid.Nil, input)
	if err != nil {
		return nil, err
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, cardError(err)
	}
	return s.Get(ctx, card.ID)
}

func (s *WorkCardService) Update(ctx context.Context, id uuid.UUID, input WorkCardInput) (*model.WorkCard, error) {
	existing, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if input.Number == 0 {
		input.Number = existing.Number
	}

	card, err := s.buildCard(ctx, id, input)
	if err != nil {
		return nil, err
	}
	card.ID = id
	if err := s.cards.Replace(ctx, card); err != nil {
		return nil, cardError(err)
	}
	return s.Get(ctx, id)
}

func (s *WorkCardService) Get(ctx context.Context, id uuid.UUID) (*model.WorkCard, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return card, nil
}

func (s *WorkCardService) List(ctx context.Context, filter model.WorkCardFilter) ([]model.WorkCard, error) {
	filter.DateFrom = datePtr(filter.DateFrom)
	filter.DateTo = datePtr(filter.DateTo)
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, fmt.Errorf("%w: date_from must be before or equal to date_to", ErrInvalidInput)
	}
	return s.cards.List(ctx, filter)
}

func (s *WorkCardService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(s.cards.Delete(ctx, id))
}

// NextNumber returns the number a new card gets when none is supplied.
func (s *WorkCardService) NextNumber(ctx context.Context) (int64, error) {
	number, err := s.cards.MaxNumber(ctx)
	if err != nil {
		return 0, err
	}
	return number + 1, nil
}

func (s *WorkCardService) GenerateCardPDF(ctx context.Context, id uuid.UUID) (*FileResult, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.GenerateCard(*card)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName:    fmt.Sprintf("work-card-%d.pdf", card.Number),
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

// buildCard validates input, resolves every reference and computes line
// amounts, the card total and the worker shares.
func (s *WorkCardService) buildCard(ctx context.Context, id uuid.UUID, input WorkCardInput) (*model.WorkCard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	workerIDs, err := uniqueIDs(input.WorkerIDs)
	if err != nil {
		return nil, err
	}
	workTypeIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		workTypeIDs = append(workTypeIDs, item.WorkTypeID)
	}

	workTypes, err := s.workTypes.FindByIDs(ctx, workTypeIDs)
	if err != nil {
		return nil, err
	}
	workTypeByID := make(map[uuid.UUID]model.WorkType, len(workTypes))
	for _, workType := range workTypes {
		workTypeByID[workType.ID] = workType
	}

	workers, err := s.workers.FindByIDs(ctx, workerIDs)
	if err != nil {
		return nil, err
	}
	if len(workers) != len(workerIDs) {
		return nil, fmt.Errorf("%w: unknown worker in worker_ids", ErrInvalidInput)
	}

	if input.ProductID != nil {
		if _, err := s.products.Get(ctx, *input.ProductID); err != nil {
			return nil, referenceError(err, "product_id")
		}
	}
	if input.ContractID != nil {
		if _, err := s.contracts.Get(ctx, *input.ContractID); err != nil {
			return nil, referenceError(err, "contract_id")
		}
	}

	number := input.Number
	if number == 0 {
		if number, err = s.NextNumber(ctx); err != nil {
			return nil, err
		}
	} else {
		taken, err := s.cards.NumberTaken(ctx, number, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: work card number %d is already in use", ErrConflict, number)
		}
	}

	card := &model.WorkCard{
		Number:     number,
		Date:       dateOnly(input.Date),
		ProductID:  input.ProductID,
		ContractID: input.ContractID,
		Items:      make([]model.WorkCardItem, 0, len(input.Items)),
		Workers:    make([]model.WorkCardWorker, 0, len(workerIDs)),
	}

	total := decimal.Zero
	for i, item := range input.Items {
		workType, ok := workTypeByID[item.WorkTypeID]
		if !ok {
			return nil, fmt.Errorf("%w: items[%d]: unknown work type", ErrInvalidInput, i)
		}
		workType, err = s.versionAt(ctx, workType, card.Date, i)
		if err != nil {
			return nil, err
		}
		amount := lineAmount(item.Quantity, workType.Price)
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: items[%d]: amount rounds to zero", ErrInvalidInput, i)
		}
		total = total.Add(amount)
		card.Items = append(card.Items, model.WorkCardItem{
			WorkTypeID: workType.ID,
			Quantity:   item.Quantity,
			Price:      workType.Price,
			Amount:     amount.InexactFloat64(),
		})
	}
	card.TotalAmount = total.InexactFloat64()

	shares, err := SplitAmount(card.TotalAmount, len(workerIDs))
	if err != nil {
		return nil, err
	}
	for i, workerID := range workerIDs {
		card.Workers = append(card.Workers, model.WorkCardWorker{
			WorkerID: workerID,
			Amount:   shares[i],
		})
	}
	return card, nil
}

// versionAt returns the version of workType in force on date: the row with
// the same name and the latest valid_from not after date.
func (s *WorkCardService) versionAt(ctx context.Context, workType model.WorkType, date time.Time, index int) (model.WorkType, error) {
	if !workType.ValidFrom.After(date) {
		current, err := s.workTypes.PriceAt(ctx, workType.Name, date)
		if err != nil {
			return model.WorkType{}, translate(err)
		}
		return *current, nil
	}
	return model.WorkType{}, fmt.Errorf("%w: items[%d]: work type %q is not in force on %s",
		ErrInvalidInput, index, workType.Name, date.Format("02.01.2006"))
}

func uniqueIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: worker %s is listed twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

func referenceError(err error, field string) error {
	if translate(err) == ErrNotFound {
		return fmt.Errorf("%w: unknown %s", ErrInvalidInput, field)
	}
	return err
}

func cardError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: work card number is already in use", ErrConflict)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: a referenced record was removed, reload and try again", ErrConflict)
	}
	return translate(err)
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
