package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/auth"
	"github.com/nurpe/sdelka/internal/config"
	"github.com/nurpe/sdelka/internal/db"
	"github.com/nurpe/sdelka/internal/logger"
	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/repository"
	"github.com/nurpe/sdelka/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	workerRepo := repository.NewWorkerRepository(database)
	workTypeRepo := repository.NewWorkTypeRepository(database)
	productRepo := repository.NewProductRepository(database)
	contractRepo := repository.NewContractRepository(database)

	svc := seedServices{
		workers:   service.NewWorkerService(workerRepo),
		workTypes: service.NewWorkTypeService(workTypeRepo),
		products:  service.NewProductService(productRepo),
		contracts: service.NewContractService(contractRepo),
		cards: service.NewWorkCardService(
			repository.NewWorkCardRepository(database),
			workerRepo, workTypeRepo, productRepo, contractRepo, nil,
		),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := seed(ctx, svc, gofakeit.New(0), cfg.Seed.Workers, cfg.Seed.Cards, time.Now(), log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	token, err := auth.NewParser(cfg.Auth.AccessSecret).GenerateToken(model.Principal{
		UserID: uuid.New(),
		Role:   model.RoleAdmin,
	}, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign admin token")
	}
	fmt.Println(token)
}
