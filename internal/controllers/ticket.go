package controllers

import (
	"net/http"

	"queue-system/internal/dto"
	"queue-system/internal/entities"
	"queue-system/internal/services"
	apperrors "queue-system/pkg/errors"
	"queue-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TicketController struct {
	queueService services.QueueServiceInterface
	logger       *zap.Logger
}

func NewTicketController(queueService services.QueueServiceInterface, logger *zap.Logger) *TicketController {
	return &TicketController{queueService: queueService, logger: logger}
}

// GetQueue отдаёт полный снимок текущего дня.
func (c *TicketController) GetQueue(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.queueService.GetSnapshot(), "Снимок очереди получен", http.StatusOK)
}

// GetNextWaiting отдаёт ожидающих в порядке вызова.
func (c *TicketController) GetNextWaiting(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.queueService.GetNextWaiting(), "Список ожидающих получен", http.StatusOK)
}

// CreateTicket - выдача талона с киоска.
func (c *TicketController) CreateTicket(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.queueService.AddTicket(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "Талон успешно выдан", http.StatusCreated)
}

// UpdateStatus - смена статуса талона со стойки.
func (c *TicketController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id := ctx.Param("id")

	var payload dto.UpdateTicketStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ticket, err := c.queueService.SetStatus(reqCtx, id, entities.TicketStatus(payload.Status), payload.Desk)
	if err != nil {
		c.logger.Warn("не удалось сменить статус талона", zap.String("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, ticket, "Статус талона обновлён", http.StatusOK)
}

// DeleteTicket - жёсткое удаление талона из очереди.
func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id := ctx.Param("id")

	if err := c.queueService.DeleteTicket(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Талон удалён", http.StatusOK)
}

// ResetQueue - ручной полный сброс очереди.
func (c *TicketController) ResetQueue(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.queueService.ResetAll(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Очередь сброшена", http.StatusOK)
}
