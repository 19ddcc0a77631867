// Package tracing предоставляет tracing handle на OpenTelemetry
// и trace ID для корреляции записей лога одного запуска.
//
// Формат trace ID: 32-символьный hex string (16 байт), совместимый
// с W3C Trace Context:
//
//	traceID := tracing.GenerateTraceID()
//	ctx = tracing.WithTraceID(ctx, traceID)
//	log.With("trace_id", tracing.TraceIDFromContext(ctx)).Info("операция началась")
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var fallbackCounter atomic.Uint64

// GenerateTraceID генерирует уникальный trace ID через crypto/rand.
// При недоступности crypto/rand возвращает ID из времени и счётчика.
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// fallbackTraceID всегда возвращает ровно 32 hex символа:
// %016x для uint64 timestamp и uint64 счётчика.
func fallbackTraceID() string {
	counter := fallbackCounter.Add(1)
	timestamp := uint64(time.Now().UnixNano())
	return fmt.Sprintf("%016x%016x", timestamp, counter)
}

type traceIDKey struct{}

// WithTraceID возвращает context с trace ID. Предыдущее значение перезаписывается.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext извлекает trace ID из context.
// Возвращает пустую строку если trace ID не установлен или ctx == nil.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
