package service

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
	"github.com/nurpe/sdelka/internal/repository"
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
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

type stubCardPDF struct {
	cards []model.WorkCard
}

func (s *stubCardPDF) GenerateCard(card model.WorkCard) ([]byte, error) {
	s.cards = append(s.cards, card)
	return []byte("%PDF-stub"), nil
}

type services struct {
	workers   *WorkerService
	workTypes *WorkTypeService
	products  *ProductService
	contracts *ContractService
	cards     *WorkCardService
	reports   *ReportService
	pdf       *stubCardPDF
}

func newServices(t *testing.T) services {
	t.Helper()
	database := newTestDB(t)

	workerRepo := repository.NewWorkerRepository(database)
	workTypeRepo := repository.NewWorkTypeRepository(database)
	productRepo := repository.NewProductRepository(database)
	contractRepo := repository.NewContractRepository(database)
	pdf := &stubCardPDF{}

	return services{
		workers:   NewWorkerService(workerRepo),
		workTypes: NewWorkTypeService(workTypeRepo),
		products:  NewProductService(productRepo),
		contracts: NewContractService(contractRepo),
		cards: NewWorkCardService(
			repository.NewWorkCardRepository(database),
			workerRepo, workTypeRepo, productRepo, contractRepo, pdf,
		),
		reports: NewReportService(repository.NewReportRepository(database), nil),
		pdf:     pdf,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func timePtr(t time.Time) *time.Time { return &t }

type catalog struct {
	ivanov, petrov, sidorova model.Worker
	assembly, painting       model.WorkType
	product                  model.Product
	contract                 model.Contract
}

func seedCatalog(t *testing.T, s services) catalog {
	t.Helper()
	ctx := context.Background()

	mustWorker := func(in WorkerInput) model.Worker {
		w, err := s.workers.Create(ctx, in)
		require.NoError(t, err)
		return *w
	}
	mustWorkType := func(in WorkTypeInput) model.WorkType {
		wt, err := s.workTypes.Create(ctx, in)
		require.NoError(t, err)
		return *wt
	}

	product, err := s.products.Create(ctx, ProductInput{Number: "П-1", Type: "шкаф"})
	require.NoError(t, err)
	contract, err := s.contracts.Create(ctx, ContractInput{Number: "Д-1", StartDate: day(2024, 1, 1)})
	require.NoError(t, err)

	return catalog{
		ivanov:   mustWorker(WorkerInput{LastName: "Иванов", FirstName: "Иван", MiddleName: "Иванович", EmployeeNumber: "101"}),
		petrov:   mustWorker(WorkerInput{LastName: "Петров", FirstName: "Пётр", EmployeeNumber: "102"}),
		sidorova: mustWorker(WorkerInput{LastName: "Сидорова", FirstName: "Анна"}),
		assembly: mustWorkType(WorkTypeInput{Name: "Сборка", Unit: model.WorkUnitPieces, Price: 150, ValidFrom: day(2024, 1, 1)}),
		painting: mustWorkType(WorkTypeInput{Name: "Покраска", Unit: model.WorkUnitSets, Price: 320.5, ValidFrom: day(2024, 1, 1)}),
		product:  *product,
		contract: *contract,
	}
}
