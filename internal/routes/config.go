package routes

import (
	"github.com/labstack/echo/v4"

	"queue-system/internal/controllers"
)

func runConfigRouter(g *echo.Group, configCtrl *controllers.ConfigController) {
	g.GET("/config", configCtrl.GetConfig)
	g.PUT("/config", configCtrl.UpdateConfig)
}
