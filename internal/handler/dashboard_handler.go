package handler

import (
	"net/http"
	"strconv"

	"rentledger/internal/apperror"
	"rentledger/internal/service"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	dashboard := router.Group("/api/dashboard", auth)
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/quarter/:q", h.GetQuarterDashboard)
	}
}

// GetDashboard settles over every stored income and expense
// @Summary      Full settlement
// @Description  Totals, balance and VAT position over the whole ledger
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=service.DashboardResponse}
// @Failure      401 {object} response.Response
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.BuildDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// GetQuarterDashboard settles over one quarter window
// @Summary      Quarterly settlement
// @Description  Totals, balance and VAT position for quarter q (1-4). Incomes count by check-in, expenses by date. Year defaults to the current one.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        q    path  int true  "Quarter, 1-4"
// @Param        year query int false "Calendar year"
// @Success      200 {object} response.Response{data=service.DashboardResponse}
// @Failure      400 {object} response.Response "q outside 1-4"
// @Router       /dashboard/quarter/{q} [get]
func (h *DashboardHandler) GetQuarterDashboard(c *gin.Context) {
	q, err := strconv.Atoi(c.Param("q"))
	if err != nil {
		respondError(c, apperror.Validation("invalid quarter parameter: %v", err))
		return
	}
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	dashboard, err := h.dashboardService.BuildQuarterDashboard(c.Request.Context(), year, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}
