package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// TracerName - имя инструментирующей библиотеки для span-ов приложения.
const TracerName = "github.com/Kargones/handlekit"

// Open строит tracing handle. Реализует scope.Opener с зависимостью
// от logging handle.
//
// Выключенный трейсинг даёт no-op Tracer без ресурсов. Включённый регистрирует
// TracerProvider глобально на время scope; освобождение завершает provider
// (с отправкой накопленных span-ов) и возвращает прежний глобальный provider.
func Open(ctx context.Context, cfg Config, log *logging.Handle) (trace.Tracer, scope.Releaser, error) {
	return open(ctx, cfg, log)
}

// WithHandle строит tracing handle, вызывает fn и завершает provider после её возврата.
func WithHandle[T any](ctx context.Context, cfg Config, log *logging.Handle, fn func(trace.Tracer) (T, error)) (T, error) {
	return scope.WithHandle(ctx, Open, cfg, log, fn)
}

func open(ctx context.Context, cfg Config, log *logging.Handle, opts ...sdktrace.TracerProviderOption) (trace.Tracer, scope.Releaser, error) {
	if !cfg.Enabled {
		log.Debug("трейсинг выключен, используется nop provider")
		return noop.NewTracerProvider().Tracer(TracerName), scope.Noop, nil
	}

	tp, err := NewTracerProvider(ctx, cfg, opts...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrTelemetryInit,
			"не удалось инициализировать трейсинг", err)
	}

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	log.Info("OpenTelemetry трейсинг инициализирован",
		"endpoint", cfg.Endpoint,
		"service_name", cfg.ServiceName,
		"environment", cfg.Environment,
		"sampling_rate", cfg.SamplingRate,
	)

	release := func() error {
		otel.SetTracerProvider(prev)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Timeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("ошибка завершения TracerProvider", "error", err.Error())
			return apperrors.NewAppError(apperrors.ErrTelemetryInit,
				"не удалось завершить трейсинг", err)
		}
		log.Debug("TracerProvider завершён")
		return nil
	}
	return tp.Tracer(TracerName), release, nil
}
