// Package sqlpooltest предоставляет тестовые утилиты для пакета sqlpool:
// регистрацию mock-endpoint-ов go-sqlmock, доступных через database/sql.
package sqlpooltest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
)

// Driver - имя драйвера database/sql, под которым регистрируется go-sqlmock.
const Driver = "sqlmock"

var seq atomic.Uint64

// NewMock регистрирует уникальный mock endpoint и возвращает его DSN вместе
// с объектом ожиданий. Пул, открытый по этому DSN, получает соединения mock-а.
func NewMock(t testing.TB) (string, sqlmock.Sqlmock) {
	t.Helper()
	return NewMockDSN(t, fmt.Sprintf("mock://%s/%d", t.Name(), seq.Add(1)))
}

// NewMockDSN регистрирует mock endpoint с указанным DSN.
// DSN должен быть уникален в пределах процесса.
func NewMockDSN(t testing.TB, dsn string) (string, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.NewWithDSN(dsn)
	if err != nil {
		t.Fatalf("sqlmock: не удалось зарегистрировать endpoint %s: %v", dsn, err)
	}
	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // собственное соединение mock-а не ожидается тестом
	})
	return dsn, mock
}

// Config возвращает sqlpool.Config, указывающий на mock endpoint.
func Config(dsn string) sqlpool.Config {
	cfg := sqlpool.DefaultConfig()
	cfg.Driver = Driver
	cfg.DSN = dsn
	return cfg
}
