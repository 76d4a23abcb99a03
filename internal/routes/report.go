package routes

import (
	"github.com/labstack/echo/v4"

	"queue-system/internal/controllers"
)

func runReportRouter(g *echo.Group, reportCtrl *controllers.ReportController) {
	g.GET("/reports/tickets.xlsx", reportCtrl.GetTicketsXLSX)
}
