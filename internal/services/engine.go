package services

import (
	"fmt"
	"strings"
	"time"

	"queue-system/internal/entities"
	apperrors "queue-system/pkg/errors"

	"github.com/aarondl/null/v8"
)

// Движок очереди: чистые функции над снимком, без какого-либо I/O.
// Весь I/O (sqlite, redis) живёт уровнем выше, в QueueService.

// CreateTicket выдаёт новый талон. Порядковый номер равен "длина снимка + 1",
// как и в клиентах - при одновременной выдаче в двух контекстах до
// синхронизации номера могут совпасть (см. DESIGN.md).
func CreateTicket(snapshot entities.QueueSnapshot, name string, service entities.ServiceType, priority bool, now time.Time) (entities.Ticket, entities.QueueSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Ticket{}, nil, apperrors.NewInvalidInputError("имя посетителя не может быть пустым")
	}
	if !service.Valid() {
		return entities.Ticket{}, nil, apperrors.ErrInvalidServiceType
	}

	rawID := len(snapshot) + 1
	prefix := strings.ToUpper(string([]rune(string(service))[:1]))

	ticket := entities.Ticket{
		ID:        fmt.Sprintf("%s%03d", prefix, rawID),
		RawID:     rawID,
		Name:      name,
		Service:   service,
		Status:    entities.StatusWaiting,
		CreatedAt: now,
		Priority:  priority,
	}

	next := snapshot.Clone()
	next = append(next, ticket)
	return ticket, next, nil
}

// ApplyStatus переводит талон в новый статус по таблице переходов.
// Возвращает всегда новый снимок, вход не мутируется.
func ApplyStatus(snapshot entities.QueueSnapshot, ticketID string, status entities.TicketStatus, desk string, now time.Time) (entities.QueueSnapshot, error) {
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	next := snapshot.Clone()
	for i, t := range next {
		if t.ID != ticketID {
			continue
		}
		updated, err := applyTransition(t, status, desk, now)
		if err != nil {
			return nil, err
		}
		next[i] = updated
		return next, nil
	}
	return nil, apperrors.ErrTicketNotFound
}

// Таблица переходов:
//
//	AGUARDANDO     -> EM ATENDIMENTO (вызов: startedAt, desk)
//	AGUARDANDO     -> CANCELADO      (отмена: completedAt)
//	EM ATENDIMENTO -> CONCLUÍDO      (завершение: completedAt)
//	EM ATENDIMENTO -> AGUARDANDO     (возврат: поля вызова очищаются)
//	CONCLUÍDO/CANCELADO -> AGUARDANDO (восстановление: completedAt очищается,
//	                                   талон встаёт в конец, номер прежний)
//
// Переход в текущий статус - no-op, но снимок всё равно новый.
func applyTransition(t entities.Ticket, to entities.TicketStatus, desk string, now time.Time) (entities.Ticket, error) {
	if t.Status == to {
		return t, nil
	}

	switch {
	case t.Status == entities.StatusWaiting && to == entities.StatusInProgress:
		t.Status = to
		t.StartedAt = null.TimeFrom(now)
		t.Desk = null.StringFrom(desk)

	case t.Status == entities.StatusWaiting && to == entities.StatusCancelled:
		t.Status = to
		t.CompletedAt = null.TimeFrom(now)

	case t.Status == entities.StatusInProgress && to == entities.StatusDone:
		t.Status = to
		t.CompletedAt = null.TimeFrom(now)

	case t.Status == entities.StatusInProgress && to == entities.StatusWaiting:
		t.Status = to
		t.StartedAt = null.Time{}
		t.CompletedAt = null.Time{}
		t.Desk = null.String{}

	case (t.Status == entities.StatusDone || t.Status == entities.StatusCancelled) && to == entities.StatusWaiting:
		t.Status = to
		t.CompletedAt = null.Time{}

	default:
		return entities.Ticket{}, apperrors.ErrInvalidTransition
	}

	return t, nil
}

// SelectNextWaiting возвращает ожидающих в порядке вызова: приоритетные
// первыми, внутри групп сохраняется порядок выдачи талонов.
func SelectNextWaiting(snapshot entities.QueueSnapshot) []entities.Ticket {
	priority := make([]entities.Ticket, 0)
	regular := make([]entities.Ticket, 0)
	for _, t := range snapshot {
		if t.Status != entities.StatusWaiting {
			continue
		}
		if t.Priority {
			priority = append(priority, t)
		} else {
			regular = append(regular, t)
		}
	}
	return append(priority, regular...)
}

// RemoveTicket жёстко удаляет талон из снимка. Отсутствующий ID - no-op.
func RemoveTicket(snapshot entities.QueueSnapshot, ticketID string) entities.QueueSnapshot {
	next := make(entities.QueueSnapshot, 0, len(snapshot))
	for _, t := range snapshot {
		if t.ID == ticketID {
			continue
		}
		next = append(next, t)
	}
	return next
}

// CurrentCall - талон, который сейчас объявляется на табло: последний
// вызванный (максимальный startedAt).
func CurrentCall(snapshot entities.QueueSnapshot) (entities.Ticket, bool) {
	var current entities.Ticket
	found := false
	for _, t := range snapshot {
		if t.Status != entities.StatusInProgress {
			continue
		}
		if !found || t.StartedAt.Time.After(current.StartedAt.Time) {
			current = t
			found = true
		}
	}
	return current, found
}

func EmptySnapshot() entities.QueueSnapshot {
	return entities.QueueSnapshot{}
}
