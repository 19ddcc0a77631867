package metrics

import (
	"context"

	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// Open строит Collector по Config. Реализует scope.Opener
// с зависимостью от logging handle.
//
// При освобождении в счётчик переносятся записи, отклонённые sink-ами
// за время жизни handle, и метрики однократно отправляются в Pushgateway.
// Ошибка отправки логируется и не возвращается.
func Open(ctx context.Context, cfg Config, log *logging.Handle) (Collector, scope.Releaser, error) {
	collector, err := NewCollector(cfg, log)
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrTelemetryInit,
			"некорректная конфигурация метрик", err)
	}

	droppedAtOpen := log.Dropped()
	release := func() error {
		if dropped := log.Dropped() - droppedAtOpen; dropped > 0 {
			collector.RecordDroppedRecords(dropped)
		}
		return collector.Push(context.WithoutCancel(ctx))
	}
	return collector, release, nil
}

// WithHandle строит Collector, вызывает fn и отправляет метрики после её возврата.
func WithHandle[T any](ctx context.Context, cfg Config, log *logging.Handle, fn func(Collector) (T, error)) (T, error) {
	return scope.WithHandle(ctx, Open, cfg, log, fn)
}
