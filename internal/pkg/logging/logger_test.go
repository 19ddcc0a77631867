package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlog_Levels(t *testing.T) {
	tests := []struct {
		name  string
		emit  func(l Logger)
		level string
		msg   string
	}{
		{"debug", func(l Logger) { l.Debug("пул соединений закрыт", "driver", "sqlserver") }, "level=DEBUG", "пул соединений закрыт"},
		{"info", func(l Logger) { l.Info("создание пользователя", "user_id", "1") }, "level=INFO", "создание пользователя"},
		{"warn", func(l Logger) { l.Warn("ошибка закрытия соединения") }, "level=WARN", "ошибка закрытия соединения"},
		{"error", func(l Logger) { l.Error("ошибка выполнения запроса", "error_code", "DATABASE.QUERY_FAILED") }, "level=ERROR", "ошибка выполнения запроса"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			tt.emit(FromSlog(slog.New(handler)))

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}
}

func TestFromSlog_NilIsSilent(t *testing.T) {
	l := FromSlog(nil)

	assert.NotPanics(t, func() { l.With("k", "v").Error("ничего не пишется") })
}

func TestFromSlog_WithAccumulatesAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := FromSlog(slog.New(slog.NewJSONHandler(&buf, nil)))

	l.With("trace_id", "abc").With("user_id", "1").Info("создание пользователя")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "abc", entry["trace_id"])
	assert.Equal(t, "1", entry["user_id"])
	assert.Equal(t, "создание пользователя", entry["msg"])
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Debug("debug", "key", "value")
		Discard.Info("info")
		Discard.Warn("warn")
		Discard.Error("error")
	})
	assert.Equal(t, Discard, Discard.With("key", "value"))
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelInfo, FormatText, &buf)

	logger.Debug("не должно попасть в вывод")
	logger.Info("должно попасть в вывод")

	assert.NotContains(t, buf.String(), "не должно попасть в вывод")
	assert.Contains(t, buf.String(), "должно попасть в вывод")
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(LevelError, FormatJSON, &buf).Error("сбой", "error_code", "CONFIG.LOAD_FAILED")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "CONFIG.LOAD_FAILED", entry["error_code"])
}
