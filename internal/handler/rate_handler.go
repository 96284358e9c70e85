package handler

import (
	"net/http"

	"rentledger/internal/apperror"
	"rentledger/internal/middleware"
	"rentledger/internal/service"
	"rentledger/pkg/pagination"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RateHandler struct {
	rateService service.RateService
}

func NewRateHandler(rateService service.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

func (h *RateHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	rates := router.Group("/api/rates", auth)
	{
		rates.POST("", h.CreateRate)
		rates.GET("", h.ListRates)
		rates.GET("/:id", h.GetRate)
		rates.PUT("/:id", h.UpdateRate)
		rates.DELETE("/:id", h.DeleteRate)
	}
}

// CreateRate godoc
// @Summary      Create rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      service.CreateRateRequest  true  "Rate data"
// @Success      201      {object}  response.Response{data=service.RateResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response  "apartment missing"
// @Router       /rates [post]
func (h *RateHandler) CreateRate(c *gin.Context) {
	var req service.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

// ListRates godoc
// @Summary      List rates
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        apartment_id  query     string  false  "Only rates of this apartment"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Number of items per page (default 20)"
// @Success      200           {object}  response.Response{data=object}
// @Failure      400           {object}  response.Response
// @Router       /rates [get]
func (h *RateHandler) ListRates(c *gin.Context) {
	var apartmentID *uuid.UUID
	if raw := c.Query("apartment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest,
				string(apperror.KindValidation), "invalid apartment_id parameter"))
			return
		}
		apartmentID = &id
	}

	p := pagination.Parse(c)
	rates, total, err := h.rateService.ListRates(c.Request.Context(), apartmentID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewResult(rates, total, p)))
}

// GetRate godoc
// @Summary      Get rate by ID
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rate ID"
// @Success      200  {object}  response.Response{data=service.RateResponse}
// @Failure      404  {object}  response.Response
// @Router       /rates/{id} [get]
func (h *RateHandler) GetRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// UpdateRate changes a price card; stored totals of dependent incomes
// are recomputed server-side in the same transaction.
// @Summary      Update rate
// @Description  Recomputes the stored totals of every income that references this rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Rate ID"
// @Param        request  body      service.UpdateRateRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.RateResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /rates/{id} [put]
func (h *RateHandler) UpdateRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rate, err := h.rateService.UpdateRate(c.Request.Context(), middleware.GetUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// DeleteRate godoc
// @Summary      Delete rate
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "incomes still reference this rate"
// @Router       /rates/{id} [delete]
func (h *RateHandler) DeleteRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.rateService.DeleteRate(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "rate deleted"))
}
