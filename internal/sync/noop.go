package sync

import (
	"context"

	"queue-system/internal/entities"
)

// NoopBus - заглушка для запуска одиночного контекста без redis
// (SYNC_DISABLED=true) и для тестов.
type NoopBus struct{}

func (NoopBus) Publish(ctx context.Context, snapshot entities.QueueSnapshot) error { return nil }
func (NoopBus) Subscribe(handler Handler)                                          {}
func (NoopBus) Start(ctx context.Context)                                          {}
func (NoopBus) Close() error                                                       { return nil }
