package handler

import (
	"net/http"

	"rentledger/internal/middleware"
	"rentledger/internal/service"
	"rentledger/pkg/pagination"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApartmentHandler struct {
	apartmentService service.ApartmentService
}

func NewApartmentHandler(apartmentService service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentService: apartmentService}
}

func (h *ApartmentHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	apartments := router.Group("/api/apartments", auth)
	{
		apartments.POST("", h.CreateApartment)
		apartments.GET("", h.ListApartments)
		apartments.GET("/:id", h.GetApartment)
		apartments.PUT("/:id", h.UpdateApartment)
		apartments.DELETE("/:id", h.DeleteApartment)
	}
}

// CreateApartment godoc
// @Summary      Create apartment
// @Tags         apartments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      service.CreateApartmentRequest  true  "Apartment data"
// @Success      201      {object}  response.Response{data=service.ApartmentResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response  "name already taken"
// @Router       /apartments [post]
func (h *ApartmentHandler) CreateApartment(c *gin.Context) {
	var req service.CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	apartment, err := h.apartmentService.CreateApartment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, apartment))
}

// ListApartments godoc
// @Summary      List apartments
// @Tags         apartments
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /apartments [get]
func (h *ApartmentHandler) ListApartments(c *gin.Context) {
	p := pagination.Parse(c)
	apartments, total, err := h.apartmentService.ListApartments(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewResult(apartments, total, p)))
}

// GetApartment godoc
// @Summary      Get apartment by ID
// @Tags         apartments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Apartment ID"
// @Success      200  {object}  response.Response{data=service.ApartmentResponse}
// @Failure      404  {object}  response.Response
// @Router       /apartments/{id} [get]
func (h *ApartmentHandler) GetApartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	apartment, err := h.apartmentService.GetApartment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, apartment))
}

// UpdateApartment godoc
// @Summary      Update apartment
// @Tags         apartments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Apartment ID"
// @Param        request  body      service.UpdateApartmentRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.ApartmentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /apartments/{id} [put]
func (h *ApartmentHandler) UpdateApartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	apartment, err := h.apartmentService.UpdateApartment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, apartment))
}

// DeleteApartment removes the apartment and everything booked against it
// @Summary      Delete apartment
// @Description  Also deletes the apartment's rates, incomes and expenses
// @Tags         apartments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Apartment ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /apartments/{id} [delete]
func (h *ApartmentHandler) DeleteApartment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.apartmentService.DeleteApartment(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "apartment deleted"))
}
