package routes

import (
	"github.com/labstack/echo/v4"

	"queue-system/internal/controllers"
)

// runKioskRouter - публичные маршруты: киоск выдаёт талоны, табло читает
// текущий вызов. PIN-кода здесь нет.
func runKioskRouter(g *echo.Group, ticketCtrl *controllers.TicketController, dashboardCtrl *controllers.DashboardController) {
	g.POST("/tickets", ticketCtrl.CreateTicket)
	g.GET("/display", dashboardCtrl.GetDisplay)
}

// runQueueRouter - управление очередью со стойки, за PIN-кодом.
func runQueueRouter(g *echo.Group, ticketCtrl *controllers.TicketController) {
	g.GET("/queue", ticketCtrl.GetQueue)
	g.GET("/queue/next", ticketCtrl.GetNextWaiting)
	g.PUT("/tickets/:id/status", ticketCtrl.UpdateStatus)
	g.DELETE("/tickets/:id", ticketCtrl.DeleteTicket)
	g.POST("/queue/reset", ticketCtrl.ResetQueue)
}
