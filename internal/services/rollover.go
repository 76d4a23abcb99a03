package services

import (
	"context"
	"time"

	"queue-system/internal/entities"
	"queue-system/internal/repositories"

	"go.uber.org/zap"
)

const rolloverDateLayout = "2006-01-02"

// RolloverGuard выполняет ежедневный сброс очереди. Запускается один раз
// при старте контекста, до любых других чтений. Если несколько контекстов
// стартуют около полуночи, проверка безопасна к повторному запуску:
// маркер определяет тот, кто закончил последним.
type RolloverGuard struct {
	ticketRepo   repositories.TicketRepositoryInterface
	settingsRepo repositories.SettingsRepositoryInterface
	logger       *zap.Logger
	now          func() time.Time
}

func NewRolloverGuard(
	ticketRepo repositories.TicketRepositoryInterface,
	settingsRepo repositories.SettingsRepositoryInterface,
	logger *zap.Logger,
) *RolloverGuard {
	return &RolloverGuard{
		ticketRepo:   ticketRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Run возвращает стартовый снимок: пустой, если календарный день сменился
// (история талонов при этом стирается), иначе - сохранённый.
func (g *RolloverGuard) Run(ctx context.Context) (entities.QueueSnapshot, error) {
	today := g.now().Format(rolloverDateLayout)

	lastReset, err := g.settingsRepo.GetLastReset(ctx)
	if err != nil {
		g.logger.Warn("не удалось прочитать маркер сброса, считаем его отсутствующим", zap.Error(err))
		lastReset = ""
	}

	if lastReset == today {
		return g.ticketRepo.Load(ctx)
	}

	// Новый день - очередь начинается заново.
	empty := EmptySnapshot()
	if err := g.ticketRepo.Save(ctx, empty); err != nil {
		return nil, err
	}
	if err := g.settingsRepo.SetLastReset(ctx, today); err != nil {
		return nil, err
	}
	g.logger.Info("выполнен ежедневный сброс очереди",
		zap.String("previous", lastReset),
		zap.String("today", today),
	)
	return empty, nil
}
