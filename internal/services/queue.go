package services

import (
	"context"
	stdsync "sync"
	"time"

	"queue-system/internal/dto"
	"queue-system/internal/entities"
	"queue-system/internal/repositories"
	syncbus "queue-system/internal/sync"
	"queue-system/pkg/eventbus"

	"go.uber.org/zap"
)

// QueueUpdatedEvent уходит в локальную шину событий после каждой смены
// снимка - и локальной, и пришедшей от другого контекста. Это контракт
// подписки для слоёв отображения.
type QueueUpdatedEvent struct {
	Snapshot entities.QueueSnapshot
}

func (QueueUpdatedEvent) Name() string { return "queue.updated" }

type QueueServiceInterface interface {
	GetSnapshot() entities.QueueSnapshot
	GetNextWaiting() []entities.Ticket
	AddTicket(ctx context.Context, payload dto.CreateTicketDTO) (entities.Ticket, error)
	SetStatus(ctx context.Context, ticketID string, status entities.TicketStatus, desk string) (entities.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) error
	ResetAll(ctx context.Context) error
	GetConfig(ctx context.Context) (entities.OperatorConfig, error)
	UpdateConfig(ctx context.Context, payload dto.UpdateOperatorConfigDTO) (entities.OperatorConfig, error)
	ApplyRemote(snapshot entities.QueueSnapshot)
}

// QueueService - единая точка входа для слоёв отображения. Каждая мутация:
// движок -> сохранить -> разослать -> обновить память -> уведомить.
type QueueService struct {
	mu       stdsync.RWMutex
	snapshot entities.QueueSnapshot

	ticketRepo   repositories.TicketRepositoryInterface
	settingsRepo repositories.SettingsRepositoryInterface
	bus          syncbus.Bus
	events       *eventbus.Bus
	logger       *zap.Logger
	now          func() time.Time
}

func NewQueueService(
	initial entities.QueueSnapshot,
	ticketRepo repositories.TicketRepositoryInterface,
	settingsRepo repositories.SettingsRepositoryInterface,
	bus syncbus.Bus,
	events *eventbus.Bus,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		snapshot:     initial.Clone(),
		ticketRepo:   ticketRepo,
		settingsRepo: settingsRepo,
		bus:          bus,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *QueueService) GetSnapshot() entities.QueueSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

func (s *QueueService) GetNextWaiting() []entities.Ticket {
	return SelectNextWaiting(s.GetSnapshot())
}

func (s *QueueService) AddTicket(ctx context.Context, payload dto.CreateTicketDTO) (entities.Ticket, error) {
	s.mu.Lock()
	ticket, next, err := CreateTicket(s.snapshot, payload.Name, entities.ServiceType(payload.Service), payload.Priority, s.now())
	if err != nil {
		s.mu.Unlock()
		return entities.Ticket{}, err
	}
	s.snapshot = next
	s.mu.Unlock()

	s.persistAndBroadcast(ctx, next)
	s.logger.Info("выдан новый талон",
		zap.String("id", ticket.ID),
		zap.String("service", string(ticket.Service)),
		zap.Bool("priority", ticket.Priority),
	)
	return ticket, nil
}

// SetStatus переводит талон в новый статус. Если desk пуст, при вызове
// подставляется гишет из конфига текущего оператора.
func (s *QueueService) SetStatus(ctx context.Context, ticketID string, status entities.TicketStatus, desk string) (entities.Ticket, error) {
	if status == entities.StatusInProgress && desk == "" {
		cfg, err := s.settingsRepo.GetOperatorConfig(ctx)
		if err != nil {
			s.logger.Warn("не удалось прочитать конфиг оператора", zap.Error(err))
		}
		desk = cfg.DeskID
	}

	s.mu.Lock()
	next, err := ApplyStatus(s.snapshot, ticketID, status, desk, s.now())
	if err != nil {
		s.mu.Unlock()
		return entities.Ticket{}, err
	}
	s.snapshot = next
	s.mu.Unlock()

	s.persistAndBroadcast(ctx, next)
	ticket, _ := next.Find(ticketID)
	return ticket, nil
}

func (s *QueueService) DeleteTicket(ctx context.Context, ticketID string) error {
	s.mu.Lock()
	next := RemoveTicket(s.snapshot, ticketID)
	s.snapshot = next
	s.mu.Unlock()

	s.persistAndBroadcast(ctx, next)
	return nil
}

func (s *QueueService) ResetAll(ctx context.Context) error {
	next := EmptySnapshot()
	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	s.persistAndBroadcast(ctx, next)
	s.logger.Info("очередь сброшена вручную")
	return nil
}

func (s *QueueService) GetConfig(ctx context.Context) (entities.OperatorConfig, error) {
	return s.settingsRepo.GetOperatorConfig(ctx)
}

// UpdateConfig - частичное обновление. Конфиг сохраняется локально и
// по шине синхронизации не рассылается.
func (s *QueueService) UpdateConfig(ctx context.Context, payload dto.UpdateOperatorConfigDTO) (entities.OperatorConfig, error) {
	cfg, err := s.settingsRepo.GetOperatorConfig(ctx)
	if err != nil {
		return entities.OperatorConfig{}, err
	}
	if payload.DeskID != nil {
		cfg.DeskID = *payload.DeskID
	}
	if payload.VoiceURI != nil {
		cfg.VoiceURI = *payload.VoiceURI
	}
	if err := s.settingsRepo.SaveOperatorConfig(ctx, cfg); err != nil {
		return entities.OperatorConfig{}, err
	}
	return cfg, nil
}

// ApplyRemote применяет снимок из другого контекста: замена целиком,
// побеждает последний доставленный. Обратно в шину ничего не уходит.
func (s *QueueService) ApplyRemote(snapshot entities.QueueSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot.Clone()
	s.mu.Unlock()

	s.events.Publish(context.Background(), QueueUpdatedEvent{Snapshot: snapshot.Clone()})
}

// persistAndBroadcast - общий хвост каждой мутации. Ошибки хранилища и шины
// не должны блокировать работу стойки, поэтому только логируются.
func (s *QueueService) persistAndBroadcast(ctx context.Context, next entities.QueueSnapshot) {
	if err := s.ticketRepo.Save(ctx, next); err != nil {
		s.logger.Error("не удалось сохранить снимок очереди", zap.Error(err))
	}
	if err := s.bus.Publish(ctx, next); err != nil {
		s.logger.Warn("не удалось разослать снимок очереди", zap.Error(err))
	}

	s.events.Publish(ctx, QueueUpdatedEvent{Snapshot: next.Clone()})
}
