// Package logging реализует logging handle: fan-out структурированных записей
// по независимо настроенным sink-ам с общим порогом severity.
package logging

import (
	"context"
	"log/slog"
)

// Logger - интерфейс структурированного логирования, через который
// handle-ы пишут записи. Аргументы - пары key-value:
//
//	log.Info("создание пользователя", "user_id", u.ID, "user_name", u.Name)
//
// Реализации: *Handle, логгер поверх *slog.Logger (FromSlog) и Discard.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает Logger, добавляющий атрибуты к каждой записи.
	With(args ...any) Logger
}

// Discard - Logger без вывода. Используется в тестах и там, где
// logging handle ещё не построен.
var Discard Logger = discard{}

// FromSlog оборачивает *slog.Logger в Logger.
// nil заменяется логгером без вывода.
func FromSlog(l *slog.Logger) Logger {
	return wrapSlog(l)
}

func wrapSlog(l *slog.Logger) slogLogger {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return slogLogger{l: l}
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) emit(level slog.Level, msg string, args []any) {
	s.l.Log(context.Background(), level, msg, args...)
}

func (s slogLogger) Debug(msg string, args ...any) { s.emit(slog.LevelDebug, msg, args) }
func (s slogLogger) Info(msg string, args ...any)  { s.emit(slog.LevelInfo, msg, args) }
func (s slogLogger) Warn(msg string, args ...any)  { s.emit(slog.LevelWarn, msg, args) }
func (s slogLogger) Error(msg string, args ...any) { s.emit(slog.LevelError, msg, args) }

func (s slogLogger) With(args ...any) Logger {
	return slogLogger{l: s.l.With(args...)}
}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}

func (d discard) With(...any) Logger { return d }
