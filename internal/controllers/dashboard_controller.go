package controllers

import (
	"net/http"

	"queue-system/internal/dto"
	"queue-system/internal/services"
	"queue-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	queueService     services.QueueServiceInterface
	dashboardService services.DashboardServiceInterface
	insightsService  services.InsightsServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(
	queueService services.QueueServiceInterface,
	dashboardService services.DashboardServiceInterface,
	insightsService services.InsightsServiceInterface,
	logger *zap.Logger,
) *DashboardController {
	return &DashboardController{
		queueService:     queueService,
		dashboardService: dashboardService,
		insightsService:  insightsService,
		logger:           logger,
	}
}

func (c *DashboardController) GetStats(ctx echo.Context) error {
	stats := c.dashboardService.GetStats(c.queueService.GetSnapshot())
	return utils.SuccessResponse(ctx, stats, "Сводка по очереди получена", http.StatusOK)
}

// GetDisplay - публичные данные табло (текущий вызов + список ожидания).
func (c *DashboardController) GetDisplay(ctx echo.Context) error {
	display := c.dashboardService.GetDisplay(c.queueService.GetSnapshot())
	return utils.SuccessResponse(ctx, display, "Данные табло получены", http.StatusOK)
}

func (c *DashboardController) GetInsights(ctx echo.Context) error {
	text := c.insightsService.GenerateInsights(ctx.Request().Context(), c.queueService.GetSnapshot())
	return utils.SuccessResponse(ctx, dto.InsightsDTO{Text: text}, "Инсайты сгенерированы", http.StatusOK)
}
