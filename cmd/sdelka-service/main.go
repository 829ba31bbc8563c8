package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nurpe/sdelka/internal/auth"
	"github.com/nurpe/sdelka/internal/config"
	"github.com/nurpe/sdelka/internal/csv"
	"github.com/nurpe/sdelka/internal/db"
	"github.com/nurpe/sdelka/internal/excel"
	httphandler "github.com/nurpe/sdelka/internal/http"
	"github.com/nurpe/sdelka/internal/http/middleware"
	"github.com/nurpe/sdelka/internal/html"
	"github.com/nurpe/sdelka/internal/logger"
	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/pdf"
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
	cardRepo := repository.NewWorkCardRepository(database)
	reportRepo := repository.NewReportRepository(database)

	pdfGenerator, err := pdf.NewGenerator(cfg.Reports.PDFFontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	htmlGenerator, err := html.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init html generator")
	}

	services := httphandler.Services{
		Workers:   service.NewWorkerService(workerRepo),
		WorkTypes: service.NewWorkTypeService(workTypeRepo),
		Products:  service.NewProductService(productRepo),
		Contracts: service.NewContractService(contractRepo),
		WorkCards: service.NewWorkCardService(cardRepo, workerRepo, workTypeRepo, productRepo, contractRepo, pdfGenerator),
		Reports: service.NewReportService(reportRepo, map[model.ReportFormat]service.ReportGenerator{
			model.ReportFormatXLSX: excel.NewGenerator(),
			model.ReportFormatHTML: htmlGenerator,
			model.ReportFormatPDF:  pdfGenerator,
			model.ReportFormatCSV:  csv.NewGenerator(cfg.Reports.CSVEncoding),
		}),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.HTTP, cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("failed to listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", addr).Msg("starting sdelka service")
	if err := serve(ctx, server, listener, shutdownTimeout, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
