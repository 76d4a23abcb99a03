package routes

import (
	"github.com/labstack/echo/v4"

	"queue-system/internal/controllers"
)

func runAuthRouter(g *echo.Group, authCtrl *controllers.AuthController) {
	g.POST("/auth/login", authCtrl.Login)
}
