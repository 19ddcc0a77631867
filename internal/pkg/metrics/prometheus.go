package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/urlutil"
)

const namespace = "handlekit"

// PrometheusCollector реализует Collector с Prometheus метриками.
// Отправляет метрики в Pushgateway при вызове Push().
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	operationTotal    *prometheus.CounterVec
	droppedRecords    prometheus.Counter

	instance string
}

// NewPrometheusCollector создаёт PrometheusCollector с указанной конфигурацией.
// Регистрирует метрики:
//   - handlekit_operation_duration_seconds (histogram)
//   - handlekit_operation_total (counter, label status)
//   - handlekit_log_dropped_records_total (counter)
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для metrics instance label, используется 'unknown'",
				"error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	// Buckets покрывают диапазон от единичного запроса до пакетной загрузки.
	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of domain operations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"operation", "status"},
	)
	operationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_total",
			Help:      "Total number of domain operations by status",
		},
		[]string{"operation", "status"},
	)
	droppedRecords := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_dropped_records_total",
			Help:      "Total number of log records rejected by sinks",
		},
	)

	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{operationDuration, operationTotal, droppedRecords} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}

	return &PrometheusCollector{
		config:            config,
		logger:            logger,
		registry:          registry,
		operationDuration: operationDuration,
		operationTotal:    operationTotal,
		droppedRecords:    droppedRecords,
		instance:          instance,
	}, nil
}

// maxLabelLength - максимальная длина значения label для защиты от cardinality explosion.
const maxLabelLength = 128

// sanitizeLabel обрезает значение label до допустимой длины (по рунам) и заменяет
// контрольные символы, которые могут нарушить Prometheus text format.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	runes := []rune(clean)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordOperation обновляет histogram длительности и счётчик операций.
func (c *PrometheusCollector) RecordOperation(operation string, duration time.Duration, success bool) {
	operation = sanitizeLabel(operation)
	status := statusLabel(success)

	c.operationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
	c.operationTotal.WithLabelValues(operation, status).Inc()

	c.logger.Debug("metrics: операция записана",
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
		"success", success,
	)
}

// RecordDroppedRecords добавляет n к счётчику отклонённых записей лога.
func (c *PrometheusCollector) RecordDroppedRecords(n uint64) {
	c.droppedRecords.Add(float64(n))
}

// RegisterPool регистрирует коллектор статистики пула (go_sql_* метрики).
// Повторная регистрация пула с тем же именем логируется и игнорируется.
func (c *PrometheusCollector) RegisterPool(name string, db *sql.DB) {
	if err := c.registry.Register(collectors.NewDBStatsCollector(db, sanitizeLabel(name))); err != nil {
		c.logger.Warn("metrics: не удалось зарегистрировать коллектор пула",
			"pool", name,
			"error", err.Error(),
		)
	}
}

// Push отправляет метрики в Pushgateway одним PUT-запросом с группировкой
// по job и instance. Ошибка отправки логируется на уровне WARN, возвращается nil.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if c.config.PushgatewayURL == "" {
		c.logger.Debug("metrics: pushgateway URL не задан, отправка пропущена")
		return nil
	}

	select {
	case <-ctx.Done():
		c.logger.Debug("metrics push отменён")
		return nil
	default:
	}

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Warn("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry для тестирования.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
