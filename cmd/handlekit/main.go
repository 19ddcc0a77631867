// Package main содержит точку входа handlekit: загрузка конфигурации,
// построение вложенных handle-ов и выполнение прикладного сценария.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/app"
	"github.com/Kargones/handlekit/internal/config"
	"github.com/Kargones/handlekit/internal/constants"
	"github.com/Kargones/handlekit/internal/di"
	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/metrics"
	"github.com/Kargones/handlekit/internal/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

// run возвращает код завершения процесса.
// Ошибки до построения logging handle пишутся bootstrap логгером в stderr.
func run(ctx context.Context, stderr io.Writer) int {
	boot := logging.NewLoggerWithWriter(logging.LevelInfo, logging.FormatText, stderr)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		boot.Error("Не удалось загрузить конфигурацию приложения",
			"error", err.Error(),
			"error_code", apperrors.CodeOf(err),
			constants.MsgErrProcessing, constants.MsgAppExit,
		)
		return constants.ExitConfigFailed
	}

	configs, err := di.InitializeConfigs(cfg)
	if err != nil {
		boot.Error("Не удалось построить конфигурацию handle-ов",
			"error", err.Error(),
			"error_code", apperrors.CodeOf(err),
			constants.MsgErrProcessing, constants.MsgAppExit,
		)
		return constants.ExitConstructFailed
	}

	if err := compose(ctx, configs); err != nil {
		boot.Error("Приложение завершилось с ошибкой",
			"error", err.Error(),
			"error_code", apperrors.CodeOf(err),
			constants.MsgErrProcessing, constants.MsgAppExit,
		)
		return constants.ExitConstructFailed
	}
	return constants.ExitOK
}

// compose строит handle-ы в порядке logging → tracing → metrics → sqlpool → app
// и выполняет app.Run внутри самого вложенного scope. Освобождение идёт
// в обратном порядке при любом исходе.
func compose(ctx context.Context, c *di.Configs) error {
	_, err := logging.WithHandle(ctx, c.Logging, func(log *logging.Handle) (struct{}, error) {
		log.Debug("Информация о сборке", "version", constants.Version, "app", c.App.Name)

		return tracing.WithHandle(ctx, c.Tracing, log, func(tracer trace.Tracer) (struct{}, error) {
			return metrics.WithHandle(ctx, c.Metrics, log, func(m metrics.Collector) (struct{}, error) {
				return sqlpool.WithHandle(ctx, c.Database, log, func(db *sqlpool.Handle) (struct{}, error) {
					m.RegisterPool(c.App.Name, db.DB())

					deps := app.Deps{Log: log, DB: db, Metrics: m, Tracer: tracer}
					return app.WithHandle(ctx, c.App, deps, func(h *app.Handle) (struct{}, error) {
						return struct{}{}, app.Run(ctx, h)
					})
				})
			})
		})
	})
	return err
}
