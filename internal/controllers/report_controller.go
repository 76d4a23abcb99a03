package controllers

import (
	"fmt"
	"net/http"
	"time"

	"queue-system/internal/entities"
	"queue-system/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	queueService services.QueueServiceInterface
	logger       *zap.Logger
}

func NewReportController(queueService services.QueueServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{queueService: queueService, logger: logger}
}

var reportHeaders = []interface{}{
	"Талон", "№", "Посетитель", "Услуга", "Статус", "Приоритет",
	"Выдан", "Вызван", "Завершён", "Гишет",
}

const reportTimeFmt = "15:04:05"

func rowToSlice(t entities.Ticket) []interface{} {
	startedAt, completedAt := "", ""
	if t.StartedAt.Valid {
		startedAt = t.StartedAt.Time.Format(reportTimeFmt)
	}
	if t.CompletedAt.Valid {
		completedAt = t.CompletedAt.Time.Format(reportTimeFmt)
	}
	priority := "-"
	if t.Priority {
		priority = "да"
	}

	return []interface{}{
		t.ID, t.RawID, t.Name, string(t.Service), string(t.Status), priority,
		t.CreatedAt.Format(reportTimeFmt), startedAt, completedAt, t.Desk.String,
	}
}

// GetTicketsXLSX выгружает все талоны текущего дня в Excel.
func (c *ReportController) GetTicketsXLSX(ctx echo.Context) error {
	snapshot := c.queueService.GetSnapshot()

	f := excelize.NewFile()
	sheet := "Талоны за день"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i, t := range snapshot {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(t)
		f.SetSheetRow(sheet, cell, &row)
	}
	// Авто-ширина колонок для красоты
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "E", 18)
	f.SetColWidth(sheet, "G", "J", 12)

	fileName := fmt.Sprintf("tickets_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
