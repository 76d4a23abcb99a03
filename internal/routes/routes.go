package routes

import (
	"context"
	"database/sql"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"queue-system/internal/controllers"
	"queue-system/internal/repositories"
	"queue-system/internal/services"
	syncbus "queue-system/internal/sync"
	"queue-system/pkg/config"
	"queue-system/pkg/eventbus"
	"queue-system/pkg/middleware"
	"queue-system/pkg/service"
)

// InitRouter собирает весь граф зависимостей и маршруты. Возвращает фасад
// очереди, чтобы main мог подписать его на шину синхронизации.
func InitRouter(
	ctx context.Context,
	e *echo.Echo,
	dbConn *sql.DB,
	bus syncbus.Bus,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) (*services.QueueService, error) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- 1. РЕПОЗИТОРИИ ---
	ticketRepo := repositories.NewTicketRepository(dbConn, logger)
	settingsRepo := repositories.NewSettingsRepository(dbConn, cfg.Queue.DefaultDesk, logger)

	// --- 2. СЕРВИСЫ ---
	// Ежедневный сброс выполняется до любого другого чтения.
	rollover := services.NewRolloverGuard(ticketRepo, settingsRepo, logger)
	initial, err := rollover.Run(ctx)
	if err != nil {
		return nil, err
	}

	events := eventbus.New(logger)
	queueService := services.NewQueueService(initial, ticketRepo, settingsRepo, bus, events, logger)
	dashboardService := services.NewDashboardService(logger)
	insightsService := services.NewInsightsService(cfg.Insights.APIKey, cfg.Insights.Model, logger)
	authService, err := services.NewAuthService(cfg.Auth.AdminPIN, cfg.Auth.AdminPINHash, jwtSvc, logger)
	if err != nil {
		return nil, err
	}

	// --- 3. КОНТРОЛЛЕРЫ ---
	ticketCtrl := controllers.NewTicketController(queueService, logger)
	configCtrl := controllers.NewConfigController(queueService, logger)
	authCtrl := controllers.NewAuthController(authService, logger)
	dashboardCtrl := controllers.NewDashboardController(queueService, dashboardService, insightsService, logger)
	reportCtrl := controllers.NewReportController(queueService, logger)

	// --- 4. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl)
	runKioskRouter(api, ticketCtrl, dashboardCtrl)
	runQueueRouter(secureGroup, ticketCtrl)
	runConfigRouter(secureGroup, configCtrl)
	runDashboardRouter(secureGroup, dashboardCtrl)
	runReportRouter(secureGroup, reportCtrl)

	return queueService, nil
}
