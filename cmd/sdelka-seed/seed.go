package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/service"
)

var (
	lastNames   = []string{"Иванов", "Петров", "Сидоров", "Кузнецов", "Смирнов", "Попов", "Волков", "Соколов", "Лебедев", "Козлов", "Новиков", "Морозов"}
	firstNames  = []string{"Иван", "Пётр", "Сергей", "Алексей", "Дмитрий", "Андрей", "Николай", "Михаил", "Владимир", "Юрий"}
	middleNames = []string{"Иванович", "Петрович", "Сергеевич", "Алексеевич", "Дмитриевич", "Андреевич", "Николаевич", "Михайлович"}
	productKind = []string{"шкаф", "стол", "стеллаж", "тумба", "верстак"}
	workTypes   = []struct {
		name string
		unit model.WorkUnit
	}{
		{"Раскрой листа", model.WorkUnitPieces},
		{"Гибка", model.WorkUnitPieces},
		{"Сварка каркаса", model.WorkUnitPieces},
		{"Зачистка швов", model.WorkUnitPieces},
		{"Покраска", model.WorkUnitSets},
		{"Сборка", model.WorkUnitSets},
		{"Упаковка", model.WorkUnitSets},
	}
)

type seedServices struct {
	workers   *service.WorkerService
	workTypes *service.WorkTypeService
	products  *service.ProductService
	contracts *service.ContractService
	cards     *service.WorkCardService
}

type seedResult struct {
	Workers int
	Cards   int
	Skipped bool
}

// seed fills an empty database with a demo catalog and random work cards
// dated within the 90 days before now.
func seed(ctx context.Context, svc seedServices, faker *gofakeit.Faker, workerCount, cardCount int, now time.Time, log zerolog.Logger) (seedResult, error) {
	existing, err := svc.workers.List(ctx, "")
	if err != nil {
		return seedResult{}, err
	}
	if len(existing) > 0 {
		log.Info().Int("workers", len(existing)).Msg("database already has data, skipping seed")
		return seedResult{Skipped: true}, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	periodStart := today.AddDate(0, 0, -90)

	workerIDs := make([]uuid.UUID, 0, workerCount)
	for i := 0; i < workerCount; i++ {
		worker, err := svc.workers.Create(ctx, service.WorkerInput{
			LastName:       faker.RandomString(lastNames),
			FirstName:      faker.RandomString(firstNames),
			MiddleName:     faker.RandomString(middleNames),
			EmployeeNumber: fmt.Sprintf("%04d", 1000+i),
			Workshop:       fmt.Sprintf("Цех %d", faker.Number(1, 3)),
		})
		if err != nil {
			return seedResult{}, fmt.Errorf("seed worker: %w", err)
		}
		workerIDs = append(workerIDs, worker.ID)
	}

	workTypeIDs := make([]uuid.UUID, 0, len(workTypes))
	for _, wt := range workTypes {
		workType, err := svc.workTypes.Create(ctx, service.WorkTypeInput{
			Name:      wt.name,
			Unit:      wt.unit,
			Price:     float64(faker.Number(50, 900)) + float64(faker.Number(0, 1))*0.5,
			ValidFrom: periodStart,
		})
		if err != nil {
			return seedResult{}, fmt.Errorf("seed work type: %w", err)
		}
		workTypeIDs = append(workTypeIDs, workType.ID)
	}

	productIDs := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		product, err := svc.products.Create(ctx, service.ProductInput{
			Number:           faker.Numerify("ИЗД-####"),
			Type:             faker.RandomString(productKind),
			AdditionalNumber: faker.Numerify("##"),
		})
		if err != nil {
			return seedResult{}, fmt.Errorf("seed product: %w", err)
		}
		productIDs = append(productIDs, product.ID)
	}

	contractIDs := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		contract, err := svc.contracts.Create(ctx, service.ContractInput{
			Number:      fmt.Sprintf("Д-%d/%d", today.Year(), i+1),
			StartDate:   periodStart,
			Description: faker.Company(),
		})
		if err != nil {
			return seedResult{}, fmt.Errorf("seed contract: %w", err)
		}
		contractIDs = append(contractIDs, contract.ID)
	}

	cards := 0
	for i := 0; i < cardCount && len(workerIDs) > 0; i++ {
		input := service.WorkCardInput{
			Date:       faker.DateRange(periodStart, today),
			ProductID:  pickID(faker, productIDs),
			ContractID: pickID(faker, contractIDs),
		}
		for _, idx := range faker.Rand.Perm(len(workTypeIDs))[:faker.Number(1, 3)] {
			input.Items = append(input.Items, service.WorkCardItemInput{
				WorkTypeID: workTypeIDs[idx],
				Quantity:   float64(faker.Number(1, 20)),
			})
		}
		assigned := faker.Number(1, min(3, len(workerIDs)))
		for _, idx := range faker.Rand.Perm(len(workerIDs))[:assigned] {
			input.WorkerIDs = append(input.WorkerIDs, workerIDs[idx])
		}

		if _, err := svc.cards.Create(ctx, input); err != nil {
			return seedResult{}, fmt.Errorf("seed work card: %w", err)
		}
		cards++
	}

	log.Info().Int("workers", len(workerIDs)).Int("cards", cards).Msg("seed complete")
	return seedResult{Workers: len(workerIDs), Cards: cards}, nil
}

func pickID(faker *gofakeit.Faker, ids []uuid.UUID) *uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	id := ids[faker.Number(0, len(ids)-1)]
	return &id
}
