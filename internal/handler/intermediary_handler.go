package handler

import (
	"net/http"

	"rentledger/internal/service"
	"rentledger/pkg/pagination"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type IntermediaryHandler struct {
	intermediaryService service.IntermediaryService
}

func NewIntermediaryHandler(intermediaryService service.IntermediaryService) *IntermediaryHandler {
	return &IntermediaryHandler{intermediaryService: intermediaryService}
}

func (h *IntermediaryHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	intermediaries := router.Group("/api/intermediaries", auth)
	{
		intermediaries.POST("", h.CreateIntermediary)
		intermediaries.GET("", h.ListIntermediaries)
		intermediaries.GET("/:id", h.GetIntermediary)
		intermediaries.PUT("/:id", h.UpdateIntermediary)
		intermediaries.DELETE("/:id", h.DeleteIntermediary)
	}
}

// CreateIntermediary godoc
// @Summary      Create intermediary
// @Description  Portal credentials are stored encrypted and never returned
// @Tags         intermediaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      service.CreateIntermediaryRequest  true  "Intermediary data"
// @Success      201      {object}  response.Response{data=service.IntermediaryResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response  "name already taken"
// @Router       /intermediaries [post]
func (h *IntermediaryHandler) CreateIntermediary(c *gin.Context) {
	var req service.CreateIntermediaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	intermediary, err := h.intermediaryService.CreateIntermediary(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, intermediary))
}

// ListIntermediaries godoc
// @Summary      List intermediaries
// @Tags         intermediaries
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /intermediaries [get]
func (h *IntermediaryHandler) ListIntermediaries(c *gin.Context) {
	p := pagination.Parse(c)
	intermediaries, total, err := h.intermediaryService.ListIntermediaries(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewResult(intermediaries, total, p)))
}

// GetIntermediary godoc
// @Summary      Get intermediary by ID
// @Tags         intermediaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Intermediary ID"
// @Success      200  {object}  response.Response{data=service.IntermediaryResponse}
// @Failure      404  {object}  response.Response
// @Router       /intermediaries/{id} [get]
func (h *IntermediaryHandler) GetIntermediary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	intermediary, err := h.intermediaryService.GetIntermediary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, intermediary))
}

// UpdateIntermediary godoc
// @Summary      Update intermediary
// @Tags         intermediaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Intermediary ID"
// @Param        request  body      service.UpdateIntermediaryRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.IntermediaryResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /intermediaries/{id} [put]
func (h *IntermediaryHandler) UpdateIntermediary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateIntermediaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	intermediary, err := h.intermediaryService.UpdateIntermediary(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, intermediary))
}

// DeleteIntermediary godoc
// @Summary      Delete intermediary
// @Tags         intermediaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Intermediary ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /intermediaries/{id} [delete]
func (h *IntermediaryHandler) DeleteIntermediary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.intermediaryService.DeleteIntermediary(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "intermediary deleted"))
}
