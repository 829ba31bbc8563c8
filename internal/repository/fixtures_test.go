package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/config"
	"github.com/nurpe/sdelka/internal/db"
	"github.com/nurpe/sdelka/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	cfg := &config.Config{
		Environment: "test",
		DB: config.DBConfig{
			Driver:       config.DriverSQLite,
			DSN:          "file:" + name + "?mode=memory&cache=shared",
			MaxOpenConns: 1,
		},
	}

	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := database.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func timePtr(t time.Time) *time.Time { return &t }

type fixture struct {
	workers   []model.Worker
	workTypes []model.WorkType
	products  []model.Product
	contracts []model.Contract
}

func seedCatalog(t *testing.T, database *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		workers: []model.Worker{
			{LastName: "Иванов", FirstName: "Иван", MiddleName: "Иванович", EmployeeNumber: strPtr("101"), Workshop: "1"},
			{LastName: "Петров", FirstName: "Пётр", MiddleName: "Петрович", EmployeeNumber: strPtr("102"), Workshop: "1"},
			{LastName: "Сидорова", FirstName: "Анна", Workshop: "2"},
		},
		workTypes: []model.WorkType{
			{Name: "Сборка корпуса", Unit: model.WorkUnitPieces, Price: 150, ValidFrom: day(2024, 1, 1)},
			{Name: "Покраска", Unit: model.WorkUnitSets, Price: 320.5, ValidFrom: day(2024, 1, 1)},
		},
		products: []model.Product{
			{Number: "П-1", Type: "шкаф", AdditionalNumber: "01"},
			{Number: "П-2", Type: "стол"},
		},
		contracts: []model.Contract{
			{Number: "Д-2024/1", StartDate: day(2024, 1, 1), Description: "Поставка мебели"},
			{Number: "Д-2024/2", StartDate: day(2024, 3, 1)},
		},
	}

	workers := NewWorkerRepository(database)
	for i := range f.workers {
		require.NoError(t, workers.Create(ctx, &f.workers[i]))
	}
	workTypes := NewWorkTypeRepository(database)
	for i := range f.workTypes {
		require.NoError(t, workTypes.Create(ctx, &f.workTypes[i]))
	}
	products := NewProductRepository(database)
	for i := range f.products {
		require.NoError(t, products.Create(ctx, &f.products[i]))
	}
	contracts := NewContractRepository(database)
	for i := range f.contracts {
		require.NoError(t, contracts.Create(ctx, &f.contracts[i]))
	}
	return f
}

// newCard builds a card whose amounts already satisfy the work card invariants.
func newCard(number int64, date time.Time, product *model.Product, contract *model.Contract, items []model.WorkCardItem, workers ...model.Worker) *model.WorkCard {
	card := &model.WorkCard{Number: number, Date: date}
	if product != nil {
		card.ProductID = idPtr(product.ID)
	}
	if contract != nil {
		card.ContractID = idPtr(contract.ID)
	}
	for _, item := range items {
		item.Amount = item.Quantity * item.Price
		card.TotalAmount += item.Amount
		card.Items = append(card.Items, item)
	}
	for _, worker := range workers {
		card.Workers = append(card.Workers, model.WorkCardWorker{
			WorkerID: worker.ID,
			Amount:   card.TotalAmount / float64(len(workers)),
		})
	}
	return card
}

func item(workType model.WorkType, quantity float64) model.WorkCardItem {
	return model.WorkCardItem{WorkTypeID: workType.ID, Quantity: quantity, Price: workType.Price}
}
