package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/sdelka/internal/http/middleware"
	"github.com/nurpe/sdelka/internal/service"
)

type Services struct {
	Workers   *service.WorkerService
	WorkTypes *service.WorkTypeService
	Products  *service.ProductService
	Contracts *service.ContractService
	WorkCards *service.WorkCardService
	Reports   *service.ReportService
}

type Handler struct {
	svc Services
	log zerolog.Logger
}

func NewHandler(svc Services, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	writer := protected.Group("/")
	writer.Use(middleware.RequireWriter())

	protected.GET("/workers", h.listWorkers)
	protected.GET("/workers/:id", h.getWorker)
	writer.POST("/workers", h.createWorker)
	writer.PUT("/workers/:id", h.updateWorker)
	writer.DELETE("/workers/:id", h.deleteWorker)

	protected.GET("/work-types", h.listWorkTypes)
	protected.GET("/work-types/price", h.workTypePrice)
	protected.GET("/work-types/:id", h.getWorkType)
	writer.POST("/work-types", h.createWorkType)
	writer.PUT("/work-types/:id", h.updateWorkType)
	writer.DELETE("/work-types/:id", h.deleteWorkType)

	protected.GET("/products", h.listProducts)
	protected.GET("/products/:id", h.getProduct)
	writer.POST("/products", h.createProduct)
	writer.PUT("/products/:id", h.updateProduct)
	writer.DELETE("/products/:id", h.deleteProduct)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)
	writer.POST("/contracts", h.createContract)
	writer.PUT("/contracts/:id", h.updateContract)
	writer.DELETE("/contracts/:id", h.deleteContract)

	protected.GET("/work-cards", h.listWorkCards)
	protected.GET("/work-cards/next-number", h.nextWorkCardNumber)
	protected.GET("/work-cards/:id", h.getWorkCard)
	protected.GET("/work-cards/:id/pdf", h.workCardPDF)
	writer.POST("/work-cards", h.createWorkCard)
	writer.PUT("/work-cards/:id", h.updateWorkCard)
	writer.DELETE("/work-cards/:id", h.deleteWorkCard)

	protected.POST("/reports", h.buildReport)
	protected.POST("/reports/export", h.exportReport)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func sendFile(c *gin.Context, result *service.FileResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"02.01.2006",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

// parseOptionalDate treats an empty value as absent.
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalID(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
