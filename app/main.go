// Файл: main.go

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"queue-system/internal/routes"
	syncbus "queue-system/internal/sync"
	"queue-system/pkg/config"
	"queue-system/pkg/database/sqlite"
	apperrors "queue-system/pkg/errors"
	applogger "queue-system/pkg/logger"
	"queue-system/pkg/service"
	"queue-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORS())

	e.Validator = utils.NewValidator(validator.New())

	// Локальное хранилище: один sqlite-файл на инсталляцию, все контексты
	// (киоск, стойка, табло) открывают его независимо.
	dbConn, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		logger.Fatal("не удалось открыть локальное хранилище", zap.Error(err))
	}
	defer dbConn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Шина синхронизации между контекстами. Без неё контекст работает
	// автономно: очередь живёт, просто не видна другим до их перезагрузки.
	var bus syncbus.Bus = syncbus.NoopBus{}
	if os.Getenv("SYNC_DISABLED") != "true" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logger.Warn("redis недоступен, синхронизация контекстов отключена",
				zap.Error(err), zap.String("address", cfg.Redis.Address))
		} else {
			bus = syncbus.NewRedisBus(redisClient, logger)
		}
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	queueService, err := routes.InitRouter(ctx, e, dbConn, bus, jwtSvc, logger, cfg)
	if err != nil {
		logger.Fatal("Ошибка инициализации приложения", zap.Error(err))
	}

	// Чужие снимки замещают локальное состояние целиком.
	bus.Subscribe(queueService.ApplyRemote)
	bus.Start(ctx)
	defer bus.Close()

	go func() {
		<-ctx.Done()
		logger.Info("Остановка сервера...")
		e.Shutdown(context.Background())
	}()

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
