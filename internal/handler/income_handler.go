package handler

import (
	"net/http"

	"rentledger/internal/middleware"
	"rentledger/internal/service"
	"rentledger/pkg/pagination"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type IncomeHandler struct {
	incomeService service.IncomeService
}

func NewIncomeHandler(incomeService service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

func (h *IncomeHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	incomes := router.Group("/api/incomes", auth)
	{
		incomes.POST("", h.CreateIncome)
		incomes.GET("", h.ListIncomes)
		incomes.GET("/:id", h.GetIncome)
		incomes.PUT("/:id", h.UpdateIncome)
		incomes.DELETE("/:id", h.DeleteIncome)
	}
}

// CreateIncome books a stay
// @Summary      Create income
// @Description  Books a stay; nights and invoice totals are derived from the referenced rate
// @Tags         incomes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body service.CreateIncomeRequest true "Stay data, check_in/check_out in epoch milliseconds"
// @Success      201 {object} response.Response{data=service.IncomeResponse}
// @Failure      400 {object} response.Response "check_out not after check_in, bad percent, rate of another apartment"
// @Failure      404 {object} response.Response "apartment, rate or intermediary missing"
// @Router       /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	var req service.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, income))
}

// ListIncomes godoc
// @Summary      List incomes
// @Tags         incomes
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /incomes [get]
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	p := pagination.Parse(c)
	incomes, total, err := h.incomeService.ListIncomes(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewResult(incomes, total, p)))
}

// GetIncome godoc
// @Summary      Get income by ID
// @Tags         incomes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Income ID"
// @Success      200  {object}  response.Response{data=service.IncomeResponse}
// @Failure      404  {object}  response.Response
// @Router       /incomes/{id} [get]
func (h *IncomeHandler) GetIncome(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	income, err := h.incomeService.GetIncome(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, income))
}

// UpdateIncome godoc
// @Summary      Update income
// @Description  Any change to the stay or its references re-derives nights and totals
// @Tags         incomes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Income ID"
// @Param        request  body      service.UpdateIncomeRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.IncomeResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /incomes/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	income, err := h.incomeService.UpdateIncome(c.Request.Context(), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, income))
}

// DeleteIncome godoc
// @Summary      Delete income
// @Tags         incomes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Income ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.incomeService.DeleteIncome(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "income deleted"))
}
