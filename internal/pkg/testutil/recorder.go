package testutil

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrSinkWrite возвращается RecordingHandler, настроенным на отказ записи.
var ErrSinkWrite = errors.New("testutil: sink write failed")

// Entry - запись, принятая RecordingHandler.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// RecordingHandler - slog.Handler, сохраняющий все принятые записи.
// Служит тестовым sink-ом: позволяет проверять fan-out, фильтрацию
// по severity и порядок записей внутри одного sink.
//
// Handler принимает записи любого уровня: фильтрация - забота handle.
type RecordingHandler struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
	fail    bool
}

// NewRecordingHandler создаёт пустой RecordingHandler.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

// NewFailingHandler создаёт handler, который отклоняет каждую запись
// с ErrSinkWrite, но всё равно сохраняет её (для подсчёта попыток).
func NewFailingHandler() *RecordingHandler {
	h := NewRecordingHandler()
	h.fail = true
	return h
}

// Enabled всегда возвращает true.
func (h *RecordingHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle сохраняет запись.
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	*h.entries = append(*h.entries, e)
	h.mu.Unlock()

	if h.fail {
		return ErrSinkWrite
	}
	return nil
}

// WithAttrs возвращает handler, разделяющий хранилище записей с исходным.
func (h *RecordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup не поддерживает группы: атрибуты остаются плоскими.
func (h *RecordingHandler) WithGroup(string) slog.Handler { return h }

// Entries возвращает копию принятых записей.
func (h *RecordingHandler) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(*h.entries))
	copy(out, *h.entries)
	return out
}

// Messages возвращает сообщения принятых записей в порядке приёма.
func (h *RecordingHandler) Messages() []string {
	entries := h.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
