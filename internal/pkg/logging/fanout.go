package logging

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// fanout - slog.Handler, пересылающий каждую принятую запись во все sink-и.
//
// Фильтр по severity применяется один раз, до fan-out: sink-и получают
// запись только если accepts(level, threshold). Ошибки отдельных sink-ов
// не возвращаются вызывающему, а считаются в dropped.
//
// После освобождения handle (guard закрыт) записи молча отбрасываются.
// Запись в sink-и идёт под gate.RLock, а закрытие guard под gate.Lock:
// release дожидается записей, уже прошедших проверку guard, и sink-и
// закрываются только после них.
type fanout struct {
	sinks     []slog.Handler
	threshold Severity
	guard     *scope.Guard
	gate      *sync.RWMutex
	dropped   *atomic.Uint64
}

func newFanout(sinks []slog.Handler, threshold Severity, guard *scope.Guard) *fanout {
	return &fanout{
		sinks:     sinks,
		threshold: threshold,
		guard:     guard,
		gate:      &sync.RWMutex{},
		dropped:   &atomic.Uint64{},
	}
}

// Enabled реализует slog.Handler.
func (f *fanout) Enabled(_ context.Context, level slog.Level) bool {
	return accepts(level, f.threshold) && f.guard.Alive()
}

// Handle реализует slog.Handler. Всегда возвращает nil.
func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	f.gate.RLock()
	defer f.gate.RUnlock()
	if !f.Enabled(ctx, r.Level) {
		return nil
	}
	for _, sink := range f.sinks {
		if err := sink.Handle(ctx, r.Clone()); err != nil {
			f.dropped.Add(1)
		}
	}
	return nil
}

// WithAttrs реализует slog.Handler.
func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, 0, len(f.sinks))
	for _, sink := range f.sinks {
		sinks = append(sinks, sink.WithAttrs(attrs))
	}
	return &fanout{sinks: sinks, threshold: f.threshold, guard: f.guard, gate: f.gate, dropped: f.dropped}
}

// WithGroup реализует slog.Handler.
func (f *fanout) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, 0, len(f.sinks))
	for _, sink := range f.sinks {
		sinks = append(sinks, sink.WithGroup(name))
	}
	return &fanout{sinks: sinks, threshold: f.threshold, guard: f.guard, gate: f.gate, dropped: f.dropped}
}

// close закрывает guard, дождавшись записей, которые уже пишутся в sink-и.
// Возвращает false, если guard был закрыт ранее.
func (f *fanout) close() bool {
	f.gate.Lock()
	defer f.gate.Unlock()
	return f.guard.Close()
}
