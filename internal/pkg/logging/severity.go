package logging

import (
	"log/slog"
	"strings"
)

// Severity - уровень записи. Упорядочен: Debug < Info < Warn < Error < Silent.
type Severity = slog.Level

// Уровни записей. Silent используется только как порог:
// он отбрасывает всё, кроме ошибок.
const (
	SeverityDebug  Severity = slog.LevelDebug
	SeverityInfo   Severity = slog.LevelInfo
	SeverityWarn   Severity = slog.LevelWarn
	SeverityError  Severity = slog.LevelError
	SeveritySilent Severity = slog.LevelError + 4
)

// parseLevel конвертирует строковый уровень в Severity.
// При неизвестном значении возвращает SeverityInfo.
func parseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case LevelDebug:
		return SeverityDebug
	case LevelInfo:
		return SeverityInfo
	case LevelWarn, "warning":
		return SeverityWarn
	case LevelError:
		return SeverityError
	case LevelSilent:
		return SeveritySilent
	default:
		// Неизвестный уровень → используем info как безопасный default
		return SeverityInfo
	}
}

// accepts решает, уходит ли запись уровня level в sink-и при пороге threshold.
// Ошибки проходят всегда, независимо от порога.
func accepts(level, threshold Severity) bool {
	return level >= SeverityError || level >= threshold
}
