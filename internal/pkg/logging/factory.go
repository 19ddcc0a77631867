package logging

import (
	"io"
	"log/slog"
)

// NewLoggerWithWriter создаёт Logger с одним writer-ом, без scope.
// Используется для bootstrap-логирования до построения Handle
// (загрузка конфигурации) и в тестах.
//
// Для работы приложения используйте WithHandle(),
// который строит fan-out по описаниям sink-ов.
func NewLoggerWithWriter(level, format string, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return FromSlog(slog.New(handler))
}
