package sqlpool

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/scope"
	"github.com/Kargones/handlekit/internal/pkg/urlutil"
)

// Handle - живой пул соединений. Заимствует logging handle,
// который обязан пережить пул (пул строится внутри scope логирования).
type Handle struct {
	guard    scope.Guard
	db       *sql.DB
	log      *logging.Handle
	driver   string
	endpoint string
	acquire  time.Duration
}

// Open строит пул по Config и проверяет его доступность.
// Реализует scope.Opener с единственной зависимостью - logging handle.
//
// Ошибка построения возвращается как AppError с кодом DATABASE.CONNECT_FAILED;
// к моменту возврата пул уже закрыт.
func Open(ctx context.Context, cfg Config, log *logging.Handle) (*Handle, scope.Releaser, error) {
	driver, dsn, err := cfg.endpoint()
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrDatabaseConnect,
			"некорректный endpoint пула соединений", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrDatabaseConnect,
			"не удалось создать пул соединений", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // ping error is more important
		if ctx.Err() != nil {
			err = fmt.Errorf("context cancelled during ping: %w", ctx.Err())
		}
		return nil, nil, apperrors.NewAppError(apperrors.ErrDatabaseConnect,
			"пул соединений недоступен", err)
	}

	h := &Handle{
		db:       db,
		log:      log,
		driver:   driver,
		endpoint: urlutil.MaskDSN(dsn),
		acquire:  cfg.AcquireTimeout,
	}
	log.Info("пул соединений открыт",
		"driver", driver,
		"endpoint", h.endpoint,
		"max_open_conns", cfg.MaxOpenConns,
	)
	return h, h.release, nil
}

// WithHandle строит пул, вызывает fn и закрывает пул после её возврата.
func WithHandle[T any](ctx context.Context, cfg Config, log *logging.Handle, fn func(*Handle) (T, error)) (T, error) {
	return scope.WithHandle(ctx, Open, cfg, log, fn)
}

func (h *Handle) release() error {
	if !h.guard.Close() {
		return nil
	}
	err := h.db.Close()
	if err != nil {
		h.log.Warn("ошибка закрытия пула соединений", "error", err)
		return apperrors.NewAppError(apperrors.ErrDatabaseConnect,
			"не удалось закрыть пул соединений", err)
	}
	h.log.Debug("пул соединений закрыт", "endpoint", h.endpoint)
	return nil
}

// WithConn берёт соединение из пула на время fn и возвращает его в пул
// после её возврата. Ошибка fn возвращается без изменений.
func (h *Handle) WithConn(ctx context.Context, fn func(*sql.Conn) error) error {
	if err := h.guard.Check(); err != nil {
		return apperrors.NewAppError(apperrors.ErrDatabaseAcquire,
			"пул соединений уже закрыт", err)
	}

	acqCtx := ctx
	if h.acquire > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, h.acquire)
		defer cancel()
	}
	conn, err := h.db.Conn(acqCtx)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrDatabaseAcquire,
			"не удалось получить соединение из пула", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			h.log.Warn("ошибка возврата соединения в пул", "error", closeErr)
		}
	}()

	return fn(conn)
}

// Stats возвращает статистику пула.
func (h *Handle) Stats() sql.DBStats { return h.db.Stats() }

// DB возвращает пул для регистрации коллекторов метрик.
// Пул принадлежит Handle; вызывающий не должен его закрывать.
func (h *Handle) DB() *sql.DB { return h.db }

// Driver возвращает имя драйвера database/sql.
func (h *Handle) Driver() string { return h.driver }

// Endpoint возвращает endpoint пула с замаскированными учётными данными.
func (h *Handle) Endpoint() string { return h.endpoint }

// Alive сообщает, находится ли handle внутри своего scope.
func (h *Handle) Alive() bool { return h.guard.Alive() }
