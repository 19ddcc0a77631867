// Package app связывает живые handle-ы в composite handle и содержит
// прикладную логику, работающую через него.
package app

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/metrics"
	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// Config - описание запуска, передаваемое в composite scope целиком.
type Config struct {
	// Name - имя приложения.
	Name string
	// Version - версия приложения.
	Version string
	// Endpoint - endpoint пула соединений (для логов маскируется).
	Endpoint string
}

// Deps - живые handle-ы, из которых собирается composite handle.
// Все зависимости заимствуются и должны пережить Handle.
type Deps struct {
	Log     *logging.Handle
	DB      *sqlpool.Handle
	Metrics metrics.Collector
	Tracer  trace.Tracer
}

// Handle - composite handle: набор заимствованных ссылок без собственных ресурсов.
type Handle struct {
	Config  Config
	Log     *logging.Handle
	DB      *sqlpool.Handle
	Metrics metrics.Collector
	Tracer  trace.Tracer
}

// Open собирает Handle из зависимостей. Освобождать нечего.
func Open(_ context.Context, cfg Config, deps Deps) (*Handle, scope.Releaser, error) {
	return &Handle{
		Config:  cfg,
		Log:     deps.Log,
		DB:      deps.DB,
		Metrics: deps.Metrics,
		Tracer:  deps.Tracer,
	}, scope.Noop, nil
}

// WithHandle собирает composite handle и вызывает fn.
func WithHandle[T any](ctx context.Context, cfg Config, deps Deps, fn func(*Handle) (T, error)) (T, error) {
	return scope.WithHandle(ctx, Open, cfg, deps, fn)
}
