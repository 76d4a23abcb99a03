package routes

import (
	"github.com/labstack/echo/v4"

	"queue-system/internal/controllers"
)

func runDashboardRouter(g *echo.Group, dashboardCtrl *controllers.DashboardController) {
	g.GET("/dashboard/stats", dashboardCtrl.GetStats)
	g.GET("/dashboard/insights", dashboardCtrl.GetInsights)
}
