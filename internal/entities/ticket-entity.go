package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Статусы талона. Значения совпадают с тем, что видят клиентские экраны,
// поэтому сравниваются строго как строки.
type TicketStatus string

const (
	StatusWaiting    TicketStatus = "AGUARDANDO"
	StatusInProgress TicketStatus = "EM ATENDIMENTO"
	StatusDone       TicketStatus = "CONCLUÍDO"
	StatusCancelled  TicketStatus = "CANCELADO"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Типы услуг. Первая буква используется в номере талона (V001, S002 ...).
type ServiceType string

const (
	ServiceSales     ServiceType = "Vendas"
	ServiceSupport   ServiceType = "Suporte"
	ServiceFinancial ServiceType = "Financeiro"
	ServiceReturns   ServiceType = "Devoluções"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceSales, ServiceSupport, ServiceFinancial, ServiceReturns:
		return true
	}
	return false
}

type Ticket struct {
	ID          string       `json:"id"`
	RawID       int          `json:"raw_id"`
	Name        string       `json:"name"`
	Service     ServiceType  `json:"service"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   null.Time    `json:"started_at,omitempty"`
	CompletedAt null.Time    `json:"completed_at,omitempty"`
	Priority    bool         `json:"priority"`
	Desk        null.String  `json:"desk,omitempty"`
}

// QueueSnapshot - полный упорядоченный список талонов текущего дня.
// Единица персистентности и синхронизации: всегда заменяется целиком,
// никаких диффов.
type QueueSnapshot []Ticket

func (s QueueSnapshot) Clone() QueueSnapshot {
	if s == nil {
		return QueueSnapshot{}
	}
	out := make(QueueSnapshot, len(s))
	copy(out, s)
	return out
}

func (s QueueSnapshot) Find(id string) (Ticket, bool) {
	for _, t := range s {
		if t.ID == id {
			return t, true
		}
	}
	return Ticket{}, false
}
