package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/service"
)

type workCardItemRequest struct {
	WorkTypeID uuid.UUID `json:"work_type_id" binding:"required"`
	Quantity   float64   `json:"quantity"`
}

type workCardRequest struct {
	Number     int64                 `json:"number"`
	Date       string                `json:"date" binding:"required"`
	ProductID  *uuid.UUID            `json:"product_id"`
	ContractID *uuid.UUID            `json:"contract_id"`
	Items      []workCardItemRequest `json:"items"`
	WorkerIDs  []uuid.UUID           `json:"worker_ids"`
}

func (r workCardRequest) toInput() (service.WorkCardInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return service.WorkCardInput{}, err
	}
	items := make([]service.WorkCardItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.WorkCardItemInput{WorkTypeID: item.WorkTypeID, Quantity: item.Quantity})
	}
	return service.WorkCardInput{
		Number:     r.Number,
		Date:       date,
		ProductID:  r.ProductID,
		ContractID: r.ContractID,
		Items:      items,
		WorkerIDs:  r.WorkerIDs,
	}, nil
}

func (h *Handler) listWorkCards(c *gin.Context) {
	var (
		filter model.WorkCardFilter
		err    error
	)
	if filter.DateFrom, err = parseOptionalDate(c.Query("date_from")); err != nil {
		badRequest(c, "invalid date_from")
		return
	}
	if filter.DateTo, err = parseOptionalDate(c.Query("date_to")); err != nil {
		badRequest(c, "invalid date_to")
		return
	}
	if filter.WorkerID, err = parseOptionalID(c.Query("worker_id")); err != nil {
		badRequest(c, "invalid worker_id")
		return
	}
	if filter.ProductID, err = parseOptionalID(c.Query("product_id")); err != nil {
		badRequest(c, "invalid product_id")
		return
	}
	if filter.ContractID, err = parseOptionalID(c.Query("contract_id")); err != nil {
		badRequest(c, "invalid contract_id")
		return
	}

	cards, err := h.svc.WorkCards.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) nextWorkCardNumber(c *gin.Context) {
	number, err := h.svc.WorkCards.NextNumber(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number})
}

func (h *Handler) getWorkCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.svc.WorkCards.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) workCardPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.WorkCards.GenerateCardPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) createWorkCard(c *gin.Context) {
	var req workCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid date")
		return
	}
	card, err := h.svc.WorkCards.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) updateWorkCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req workCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid date")
		return
	}
	card, err := h.svc.WorkCards.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) deleteWorkCard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.WorkCards.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
