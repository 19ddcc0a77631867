// Package metrics предоставляет metrics handle: Prometheus метрики доменных
// операций и пула соединений, отправляемые в Pushgateway при освобождении.
package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kargones/handlekit/internal/pkg/logging"
)

// Collector собирает метрики в пределах scope metrics handle.
// Реализации: PrometheusCollector и no-op для выключенных метрик.
type Collector interface {
	// RecordOperation записывает завершение доменной операции.
	RecordOperation(operation string, duration time.Duration, success bool)

	// RecordDroppedRecords добавляет n к счётчику записей лога,
	// отклонённых sink-ами.
	RecordDroppedRecords(n uint64)

	// RegisterPool регистрирует коллектор статистики пула соединений.
	// Пул должен жить не меньше Collector-а.
	RegisterPool(name string, db *sql.DB)

	// Push отправляет метрики в Pushgateway.
	// Ошибка отправки логируется реализацией, возвращается nil.
	Push(ctx context.Context) error
}

// NewCollector выбирает реализацию по Config.Enabled.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return nopCollector{}, nil
	}
	return NewPrometheusCollector(config, logger)
}

type nopCollector struct{}

func (nopCollector) RecordOperation(string, time.Duration, bool) {}
func (nopCollector) RecordDroppedRecords(uint64)                 {}
func (nopCollector) RegisterPool(string, *sql.DB)                {}
func (nopCollector) Push(context.Context) error                  { return nil }
