package sync

import (
	"context"
	"encoding/json"

	"queue-system/internal/entities"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Канал общий для всех контекстов одной инсталляции
	// (киоск, стойка, табло, панель).
	channelName = "queue:sync"

	messageTypeSyncTickets = "SYNC_TICKETS"
)

type message struct {
	Type    string                 `json:"type"`
	Sender  string                 `json:"sender"`
	Payload entities.QueueSnapshot `json:"payload"`
}

// Handler получает снимок, пришедший из другого контекста.
type Handler func(snapshot entities.QueueSnapshot)

// Bus рассылает каждый локально созданный снимок остальным живым контекстам
// и применяет чужие. Рассылаются только талоны - конфиг оператора локален.
type Bus interface {
	Publish(ctx context.Context, snapshot entities.QueueSnapshot) error
	Subscribe(handler Handler)
	Start(ctx context.Context)
	Close() error
}

// RedisBus - реализация на redis pub/sub. Создаётся при старте приложения
// и закрывается при остановке, никаких пакетных синглтонов.
type RedisBus struct {
	client    *redis.Client
	contextID string
	handler   Handler
	pubsub    *redis.PubSub
	logger    *zap.Logger
}

func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{
		client:    client,
		contextID: uuid.NewString(),
		logger:    logger,
	}
}

// Publish шлёт полный снимок. Ошибка доставки не фатальна: локальное
// состояние остаётся авторитетным, вызывающий только логирует.
func (b *RedisBus) Publish(ctx context.Context, snapshot entities.QueueSnapshot) error {
	data, err := json.Marshal(message{
		Type:    messageTypeSyncTickets,
		Sender:  b.contextID,
		Payload: snapshot,
	})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName, data).Err()
}

func (b *RedisBus) Subscribe(handler Handler) {
	b.handler = handler
}

// Start запускает приём сообщений. Вызывается один раз после Subscribe.
func (b *RedisBus) Start(ctx context.Context) {
	b.pubsub = b.client.Subscribe(ctx, channelName)
	go func() {
		for msg := range b.pubsub.Channel() {
			b.handleMessage([]byte(msg.Payload))
		}
	}()
}

// handleMessage применяет чужой снимок: политика last-writer-wins, без
// слияния. Собственные и незнакомые сообщения отбрасываются.
func (b *RedisBus) handleMessage(data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		b.logger.Warn("нечитаемое сообщение синхронизации", zap.Error(err))
		return
	}
	if msg.Type != messageTypeSyncTickets {
		return
	}
	if msg.Sender == b.contextID {
		return
	}
	if b.handler != nil {
		b.handler(msg.Payload)
	}
}

func (b *RedisBus) Close() error {
	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}
