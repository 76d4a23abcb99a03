package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"queue-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

const settingsTable = "settings"

// Фиксированные логические имена записей.
const (
	lastResetKey      = "last_reset"
	operatorConfigKey = "operator_config"
)

type SettingsRepositoryInterface interface {
	GetLastReset(ctx context.Context) (string, error)
	SetLastReset(ctx context.Context, date string) error
	GetOperatorConfig(ctx context.Context) (entities.OperatorConfig, error)
	SaveOperatorConfig(ctx context.Context, cfg entities.OperatorConfig) error
}

type settingsRepository struct {
	storage     *sql.DB
	defaultDesk string
	logger      *zap.Logger
}

func NewSettingsRepository(storage *sql.DB, defaultDesk string, logger *zap.Logger) SettingsRepositoryInterface {
	return &settingsRepository{storage: storage, defaultDesk: defaultDesk, logger: logger}
}

func (r *settingsRepository) get(ctx context.Context, key string) (string, error) {
	query, args, err := sq.Select("value").From(settingsTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}
	var value string
	err = r.storage.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *settingsRepository) set(ctx context.Context, key, value string) error {
	_, err := r.storage.ExecContext(ctx,
		"INSERT INTO "+settingsTable+" (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// GetLastReset возвращает дату последнего сброса ("2006-01-02") или пустую
// строку, если маркера ещё нет.
func (r *settingsRepository) GetLastReset(ctx context.Context) (string, error) {
	return r.get(ctx, lastResetKey)
}

func (r *settingsRepository) SetLastReset(ctx context.Context, date string) error {
	return r.set(ctx, lastResetKey, date)
}

// GetOperatorConfig читает конфиг контекста. Отсутствие или мусор в записи
// означает конфиг по умолчанию, а не ошибку.
func (r *settingsRepository) GetOperatorConfig(ctx context.Context) (entities.OperatorConfig, error) {
	fallback := entities.OperatorConfig{DeskID: r.defaultDesk}

	raw, err := r.get(ctx, operatorConfigKey)
	if err != nil {
		return fallback, err
	}
	if raw == "" {
		return fallback, nil
	}

	var cfg entities.OperatorConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		r.logger.Warn("повреждённый конфиг оператора, используем значения по умолчанию", zap.Error(err))
		return fallback, nil
	}
	if cfg.DeskID == "" {
		cfg.DeskID = r.defaultDesk
	}
	return cfg, nil
}

func (r *settingsRepository) SaveOperatorConfig(ctx context.Context, cfg entities.OperatorConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.set(ctx, operatorConfigKey, string(raw))
}
