package app

import (
	"context"
	"time"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/tracing"
	"github.com/Kargones/handlekit/internal/pkg/urlutil"
)

// OpCreateUser - имя операции создания пользователя в логах и метриках.
const OpCreateUser = "create_user"

// Run выполняет прикладной сценарий: создаёт пользователя {1, Sherlock}.
//
// Ошибка доменной операции уже залогирована пулом на уровне ERROR;
// здесь она отмечается и не возвращается. Повторов нет.
func Run(ctx context.Context, h *Handle) error {
	traceID := tracing.GenerateTraceID()
	ctx = tracing.WithTraceID(ctx, traceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, traceID)

	log := h.Log.With("trace_id", traceID)
	log.Info("запуск прикладного сценария",
		"app", h.Config.Name,
		"version", h.Config.Version,
		"endpoint", urlutil.MaskDSN(h.Config.Endpoint),
	)

	ctx, span := h.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()
	users, err := h.DB.CreateUser(ctx, sqlpool.User{ID: "1", Name: "Sherlock"})
	h.Metrics.RecordOperation(OpCreateUser, time.Since(start), err == nil)
	if err != nil {
		log.Warn("операция не выполнена, сценарий продолжен",
			"operation", OpCreateUser,
			"error_code", apperrors.CodeOf(err),
		)
		return nil
	}

	log.Info("прикладной сценарий завершён", "operation", OpCreateUser, "created", len(users))
	return nil
}
