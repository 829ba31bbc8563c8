package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/sdelka/internal/model"
	"github.com/nurpe/sdelka/internal/service"
)

func (h *Handler) listWorkers(c *gin.Context) {
	workers, err := h.svc.Workers.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

func (h *Handler) getWorker(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	worker, err := h.svc.Workers.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *Handler) createWorker(c *gin.Context) {
	var req service.WorkerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	worker, err := h.svc.Workers.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func (h *Handler) updateWorker(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.WorkerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	worker, err := h.svc.Workers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *Handler) deleteWorker(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Workers.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type workTypeRequest struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	ValidFrom string  `json:"valid_from" binding:"required"`
}

func (r workTypeRequest) toInput() (service.WorkTypeInput, error) {
	validFrom, err := parseDate(r.ValidFrom)
	if err != nil {
		return service.WorkTypeInput{}, err
	}
	return service.WorkTypeInput{
		Name:      r.Name,
		Unit:      model.WorkUnit(r.Unit),
		Price:     r.Price,
		ValidFrom: validFrom,
	}, nil
}

func (h *Handler) listWorkTypes(c *gin.Context) {
	workTypes, err := h.svc.WorkTypes.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workTypes)
}

func (h *Handler) getWorkType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	workType, err := h.svc.WorkTypes.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workType)
}

func (h *Handler) workTypePrice(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		badRequest(c, "invalid date")
		return
	}
	workType, err := h.svc.WorkTypes.PriceAt(c.Request.Context(), c.Query("name"), date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workType)
}

func (h *Handler) createWorkType(c *gin.Context) {
	var req workTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid valid_from")
		return
	}
	workType, err := h.svc.WorkTypes.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workType)
}

func (h *Handler) updateWorkType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req workTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid valid_from")
		return
	}
	workType, err := h.svc.WorkTypes.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, workType)
}

func (h *Handler) deleteWorkType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.WorkTypes.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.svc.Products.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.svc.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	product, err := h.svc.Products.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	product, err := h.svc.Products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Products.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type contractRequest struct {
	Number      string `json:"number"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

func (r contractRequest) toInput() (service.ContractInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.ContractInput{}, err
	}
	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return service.ContractInput{}, err
	}
	return service.ContractInput{
		Number:      r.Number,
		StartDate:   start,
		EndDate:     end,
		Description: r.Description,
	}, nil
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.svc.Contracts.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.svc.Contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) createContract(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid contract dates")
		return
	}
	contract, err := h.svc.Contracts.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid contract dates")
		return
	}
	contract, err := h.svc.Contracts.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Contracts.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
