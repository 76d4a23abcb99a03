package controllers

import (
	"net/http"

	"queue-system/internal/dto"
	"queue-system/internal/services"
	apperrors "queue-system/pkg/errors"
	"queue-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ConfigController struct {
	queueService services.QueueServiceInterface
	logger       *zap.Logger
}

func NewConfigController(queueService services.QueueServiceInterface, logger *zap.Logger) *ConfigController {
	return &ConfigController{queueService: queueService, logger: logger}
}

func (c *ConfigController) GetConfig(ctx echo.Context) error {
	cfg, err := c.queueService.GetConfig(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, cfg, "Конфиг оператора получен", http.StatusOK)
}

func (c *ConfigController) UpdateConfig(ctx echo.Context) error {
	var payload dto.UpdateOperatorConfigDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	cfg, err := c.queueService.UpdateConfig(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, cfg, "Конфиг оператора обновлён", http.StatusOK)
}
