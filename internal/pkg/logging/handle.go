package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// Compile-time проверка реализации интерфейса
var _ Logger = (*Handle)(nil)

// Handle - живой logging handle: fan-out по sink-ам и порог severity.
//
// Handle не копируется и принадлежит scope, в котором создан (WithHandle).
// Зависимые handle-ы заимствуют его по указателю на время своего scope.
// Безопасен для одновременной эмиссии из нескольких горутин.
type Handle struct {
	guard  scope.Guard
	cfg    Config
	sinks  int
	fan    *fanout
	logger slogLogger
}

// Open строит Handle из Config: открывает по sink-у на каждое описание
// и объединяет их в fan-out. Реализует scope.Opener без зависимостей.
//
// Если открыть sink не удалось, уже открытые sink-и закрываются в обратном
// порядке, и возвращается AppError с кодом LOGGING.SINK_OPEN_FAILED.
func Open(_ context.Context, cfg Config, _ scope.None) (*Handle, scope.Releaser, error) {
	cfg = cfg.Clone()

	var stack scope.Stack
	handlers := make([]slog.Handler, 0, len(cfg.Sinks))
	for i, sc := range cfg.Sinks {
		h, release, err := openSink(sc)
		if err != nil {
			_ = stack.Release() //nolint:errcheck // construction error is more important
			return nil, nil, apperrors.NewAppError(apperrors.ErrLoggingSinkOpen,
				fmt.Sprintf("не удалось открыть sink #%d (%s)", i, sc.Kind), err)
		}
		stack.Push(release)
		handlers = append(handlers, h)
	}

	h := newHandle(cfg, handlers)
	return h, h.releaser(&stack), nil
}

// OpenHandlers строит Handle поверх готовых slog.Handler-ов.
// Используется для тестирования и для встраивания сторонних sink-ов;
// владение ресурсами handler-ов остаётся у вызывающего.
func OpenHandlers(level string, sinks ...slog.Handler) (*Handle, scope.Releaser) {
	h := newHandle(Config{Level: level}, sinks)
	return h, h.releaser(&scope.Stack{})
}

// WithHandle строит Handle, вызывает fn и освобождает sink-и после её возврата.
func WithHandle[T any](ctx context.Context, cfg Config, fn func(*Handle) (T, error)) (T, error) {
	return scope.WithHandle(ctx, Open, cfg, scope.None{}, fn)
}

func newHandle(cfg Config, sinks []slog.Handler) *Handle {
	h := &Handle{cfg: cfg, sinks: len(sinks)}
	if len(sinks) == 0 {
		// Логирование не обязательно: без sink-ов handle всё равно строится.
		sinks = []slog.Handler{slog.DiscardHandler}
	}
	h.fan = newFanout(sinks, parseLevel(cfg.Level), &h.guard)
	h.logger = wrapSlog(slog.New(h.fan))
	return h
}

func (h *Handle) releaser(sinks *scope.Stack) scope.Releaser {
	return func() error {
		if !h.fan.close() {
			return nil
		}
		return sinks.Release()
	}
}

// Debug записывает сообщение уровня DEBUG.
func (h *Handle) Debug(msg string, args ...any) { h.logger.Debug(msg, args...) }

// Info записывает сообщение уровня INFO.
func (h *Handle) Info(msg string, args ...any) { h.logger.Info(msg, args...) }

// Warn записывает сообщение уровня WARN.
func (h *Handle) Warn(msg string, args ...any) { h.logger.Warn(msg, args...) }

// Error записывает сообщение уровня ERROR. Не фильтруется порогом.
func (h *Handle) Error(msg string, args ...any) { h.logger.Error(msg, args...) }

// Failure записывает значение ошибки на уровне ERROR.
// Сообщение записи - текст ошибки; для AppError добавляется error_code.
func (h *Handle) Failure(err error, args ...any) {
	if err == nil {
		return
	}
	if code := apperrors.CodeOf(err); code != "" {
		args = append(args, "error_code", code)
	}
	h.logger.Error(err.Error(), args...)
}

// With возвращает Logger с добавленными атрибутами.
// Производный Logger пишет в те же sink-и и живёт не дольше Handle.
func (h *Handle) With(args ...any) Logger { return h.logger.With(args...) }

// Slog возвращает *slog.Logger поверх fan-out для библиотек,
// принимающих стандартный логгер.
func (h *Handle) Slog() *slog.Logger { return h.logger.l }

// Threshold возвращает порог severity.
func (h *Handle) Threshold() Severity { return h.fan.threshold }

// Sinks возвращает количество sink-ов в fan-out (discard sink не считается).
func (h *Handle) Sinks() int { return h.sinks }

// Dropped возвращает количество записей, отклонённых sink-ами.
// Каждый отказ одного sink-а считается отдельно.
func (h *Handle) Dropped() uint64 { return h.fan.dropped.Load() }

// Alive сообщает, находится ли handle внутри своего scope.
func (h *Handle) Alive() bool { return h.guard.Alive() }
