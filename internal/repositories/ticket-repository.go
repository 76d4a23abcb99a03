package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"queue-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const (
	ticketTable = "tickets"
)

var ticketFields = []string{"id", "raw_id", "name", "service", "status", "created_at", "started_at", "completed_at", "priority", "desk"}

type dbTicket struct {
	ID          string
	RawID       int
	Name        string
	Service     string
	Status      string
	CreatedAt   sql.NullTime
	StartedAt   sql.NullTime
	CompletedAt sql.NullTime
	Priority    bool
	Desk        sql.NullString
}

func (db *dbTicket) ToEntity() entities.Ticket {
	t := entities.Ticket{
		ID:        db.ID,
		RawID:     db.RawID,
		Name:      db.Name,
		Service:   entities.ServiceType(db.Service),
		Status:    entities.TicketStatus(db.Status),
		CreatedAt: db.CreatedAt.Time,
		Priority:  db.Priority,
	}
	if db.StartedAt.Valid {
		t.StartedAt = null.TimeFrom(db.StartedAt.Time)
	}
	if db.CompletedAt.Valid {
		t.CompletedAt = null.TimeFrom(db.CompletedAt.Time)
	}
	if db.Desk.Valid {
		t.Desk = null.StringFrom(db.Desk.String)
	}
	return t
}

type TicketRepositoryInterface interface {
	Load(ctx context.Context) (entities.QueueSnapshot, error)
	Save(ctx context.Context, snapshot entities.QueueSnapshot) error
}

type ticketRepository struct {
	storage *sql.DB
	logger  *zap.Logger
}

func NewTicketRepository(storage *sql.DB, logger *zap.Logger) TicketRepositoryInterface {
	return &ticketRepository{storage: storage, logger: logger}
}

// Load читает снимок целиком, в порядке выдачи талонов. Повреждённое
// хранилище - это не фатальная ошибка: очередь стартует пустой.
func (r *ticketRepository) Load(ctx context.Context) (entities.QueueSnapshot, error) {
	query, args, err := sq.Select(ticketFields...).
		From(ticketTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Warn("не удалось прочитать снимок очереди, стартуем с пустого", zap.Error(err))
		return entities.QueueSnapshot{}, nil
	}
	defer rows.Close()

	snapshot := make(entities.QueueSnapshot, 0)
	for rows.Next() {
		var dbRow dbTicket
		if err := rows.Scan(&dbRow.ID, &dbRow.RawID, &dbRow.Name, &dbRow.Service, &dbRow.Status, &dbRow.CreatedAt, &dbRow.StartedAt, &dbRow.CompletedAt, &dbRow.Priority, &dbRow.Desk); err != nil {
			r.logger.Warn("повреждённая запись талона пропущена", zap.Error(err))
			continue
		}
		snapshot = append(snapshot, dbRow.ToEntity())
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn("чтение снимка прервано, стартуем с пустого", zap.Error(err))
		return entities.QueueSnapshot{}, nil
	}
	return snapshot, nil
}

// Save заменяет снимок целиком в одной транзакции.
func (r *ticketRepository) Save(ctx context.Context, snapshot entities.QueueSnapshot) error {
	tx, err := r.storage.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+ticketTable); err != nil {
		return fmt.Errorf("очистка таблицы талонов: %w", err)
	}

	builder := sq.Insert(ticketTable).
		Columns(append(ticketFields, "position")...)

	for i, t := range snapshot {
		var startedAt, completedAt interface{}
		if t.StartedAt.Valid {
			startedAt = t.StartedAt.Time
		}
		if t.CompletedAt.Valid {
			completedAt = t.CompletedAt.Time
		}
		var desk interface{}
		if t.Desk.Valid {
			desk = t.Desk.String
		}
		builder = builder.Values(t.ID, t.RawID, t.Name, string(t.Service), string(t.Status), t.CreatedAt, startedAt, completedAt, t.Priority, desk, i)
	}

	if len(snapshot) > 0 {
		query, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("запись снимка: %w", err)
		}
	}

	return tx.Commit()
}
