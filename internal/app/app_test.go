package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/adapter/sqlpool/sqlpooltest"
	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/testutil"
)

const insertPattern = `INSERT INTO users \(id, name\) OUTPUT INSERTED\.id, INSERTED\.name`

// operationRecorder - Collector, запоминающий вызовы RecordOperation.
type operationRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *operationRecorder) RecordOperation(op string, _ time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "success"
	if !success {
		status = "error"
	}
	r.ops = append(r.ops, op+":"+status)
}
func (r *operationRecorder) RecordDroppedRecords(uint64)  {}
func (r *operationRecorder) RegisterPool(string, *sql.DB) {}
func (r *operationRecorder) Push(context.Context) error   { return nil }

// compose вкладывает logging → sqlpool → app и выполняет fn внутри.
func compose(t *testing.T, dsn, level string, m *operationRecorder, fn func(*Handle) error) (*testutil.RecordingHandler, error) {
	t.Helper()
	rec := testutil.NewRecordingHandler()
	log, releaseLog := logging.OpenHandlers(level, rec)
	defer func() { _ = releaseLog() }()

	_, err := sqlpool.WithHandle(context.Background(), sqlpooltest.Config(dsn), log,
		func(db *sqlpool.Handle) (struct{}, error) {
			deps := Deps{Log: log, DB: db, Metrics: m, Tracer: noop.NewTracerProvider().Tracer("test")}
			return WithHandle(context.Background(), Config{Name: "handlekit", Endpoint: dsn}, deps,
				func(h *Handle) (struct{}, error) {
					return struct{}{}, fn(h)
				})
		})
	return rec, err
}

func TestRun_EndToEnd(t *testing.T) {
	dsn, mock := sqlpooltest.NewMockDSN(t, "mock://ok")
	mock.ExpectQuery(insertPattern).
		WithArgs("1", "Sherlock").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("1", "Sherlock"))
	mock.ExpectClose()

	m := &operationRecorder{}
	rec, err := compose(t, dsn, logging.LevelInfo, m, func(h *Handle) error {
		return Run(context.Background(), h)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	var before, after []testutil.Entry
	for _, e := range rec.Entries() {
		switch e.Message {
		case "создание пользователя":
			before = append(before, e)
		case "пользователь создан":
			after = append(after, e)
		}
		assert.NotEqual(t, slog.LevelError, e.Level, "ошибок быть не должно: %s", e.Message)
		assert.NotEqual(t, slog.LevelDebug, e.Level, "порог Info отсекает Debug: %s", e.Message)
	}
	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.Equal(t, slog.LevelInfo, before[0].Level)
	assert.Equal(t, slog.LevelInfo, after[0].Level)
	assert.Equal(t, []sqlpool.User{{ID: "1", Name: "Sherlock"}}, after[0].Attrs["records"])
	assert.Equal(t, []string{"create_user:success"}, m.ops)
}

func TestCreateUser_ThroughCompositeHandle(t *testing.T) {
	dsn, mock := sqlpooltest.NewMock(t)
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("1", "Sherlock"))
	mock.ExpectClose()

	var users []sqlpool.User
	_, err := compose(t, dsn, logging.LevelInfo, &operationRecorder{}, func(h *Handle) error {
		var err error
		users, err = h.DB.CreateUser(context.Background(), sqlpool.User{ID: "1", Name: "Sherlock"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []sqlpool.User{{ID: "1", Name: "Sherlock"}}, users)
}

func TestRun_DomainFailureIsSwallowed(t *testing.T) {
	dsn, mock := sqlpooltest.NewMock(t)
	mock.ExpectQuery(insertPattern).WillReturnError(errors.New("insert rejected"))
	mock.ExpectClose()

	m := &operationRecorder{}
	rec, err := compose(t, dsn, logging.LevelInfo, m, func(h *Handle) error {
		return Run(context.Background(), h)
	})
	require.NoError(t, err, "доменная ошибка не выходит за пределы Run")
	require.NoError(t, mock.ExpectationsWereMet(), "пул закрыт и после ошибки")

	var infoBefore, errorsAfter int
	for _, e := range rec.Entries() {
		if e.Message == "создание пользователя" {
			infoBefore++
		}
		if e.Level == slog.LevelError {
			errorsAfter++
			assert.Contains(t, e.Message, "insert rejected")
			assert.Equal(t, apperrors.ErrDatabaseQuery, e.Attrs["error_code"])
		}
	}
	assert.Equal(t, 1, infoBefore)
	assert.Equal(t, 1, errorsAfter)
	assert.NotContains(t, rec.Messages(), "пользователь создан")
	assert.Equal(t, []string{"create_user:error"}, m.ops)
}

func TestRun_LogsWithTraceID(t *testing.T) {
	dsn, mock := sqlpooltest.NewMock(t)
	mock.ExpectQuery(insertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("1", "Sherlock"))
	mock.ExpectClose()

	rec, err := compose(t, dsn, logging.LevelDebug, &operationRecorder{}, func(h *Handle) error {
		return Run(context.Background(), h)
	})
	require.NoError(t, err)

	var traced int
	for _, e := range rec.Entries() {
		if id, ok := e.Attrs["trace_id"].(string); ok {
			assert.Len(t, id, 32)
			traced++
		}
	}
	assert.Equal(t, 2, traced, "начало и конец сценария несут trace_id")
}

func TestComposition_ReleaseOrder(t *testing.T) {
	dsn, mock := sqlpooltest.NewMock(t)
	mock.ExpectClose()

	rec, err := compose(t, dsn, logging.LevelDebug, &operationRecorder{}, func(h *Handle) error {
		h.Log.Info("внутри composite scope")
		return nil
	})
	require.NoError(t, err)

	msgs := rec.Messages()
	open := indexOf(msgs, "пул соединений открыт")
	inside := indexOf(msgs, "внутри composite scope")
	closed := indexOf(msgs, "пул соединений закрыт")
	require.GreaterOrEqual(t, open, 0)
	assert.Greater(t, inside, open)
	// пул освобождается раньше logging handle: его последняя запись ещё доставлена
	assert.Greater(t, closed, inside)
}

func TestOpen_BorrowsDependencies(t *testing.T) {
	log, release := logging.OpenHandlers(logging.LevelDebug)
	defer func() { _ = release() }()
	m := &operationRecorder{}
	tr := noop.NewTracerProvider().Tracer("test")

	h, releaseApp, err := Open(context.Background(), Config{Name: "x"}, Deps{Log: log, Metrics: m, Tracer: tr})
	require.NoError(t, err)
	assert.Same(t, log, h.Log)
	assert.Equal(t, "x", h.Config.Name)
	assert.NoError(t, releaseApp())
	assert.True(t, log.Alive(), "composite handle не освобождает зависимости")
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}
