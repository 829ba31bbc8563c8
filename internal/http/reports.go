package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/model"
)

type reportRequest struct {
	WorkerID   *uuid.UUID `json:"worker_id"`
	DateFrom   string     `json:"date_from"`
	DateTo     string     `json:"date_to"`
	WorkTypeID *uuid.UUID `json:"work_type_id"`
	ProductID  *uuid.UUID `json:"product_id"`
	ContractID *uuid.UUID `json:"contract_id"`
}

type exportReportRequest struct {
	reportRequest
	Format string `json:"format" binding:"required"`
}

func (r reportRequest) toFilter(c *gin.Context) (model.ReportFilter, bool) {
	dateFrom, err := parseOptionalDate(r.DateFrom)
	if err != nil {
		badRequest(c, "invalid date_from")
		return model.ReportFilter{}, false
	}
	dateTo, err := parseOptionalDate(r.DateTo)
	if err != nil {
		badRequest(c, "invalid date_to")
		return model.ReportFilter{}, false
	}
	return model.ReportFilter{
		WorkerID:   r.WorkerID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		WorkTypeID: r.WorkTypeID,
		ProductID:  r.ProductID,
		ContractID: r.ContractID,
	}, true
}

func (h *Handler) buildReport(c *gin.Context) {
	var req reportRequest
	// every filter is optional, so an empty body means the whole period
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	filter, ok := req.toFilter(c)
	if !ok {
		return
	}

	report, err := h.svc.Reports.Build(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) exportReport(c *gin.Context) {
	var req exportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	filter, ok := req.toFilter(c)
	if !ok {
		return
	}

	result, err := h.svc.Reports.Export(c.Request.Context(), filter, model.ReportFormat(req.Format))
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}
