package sqlpool

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Kargones/handlekit/internal/pkg/apperrors"
)

const tracerName = "github.com/Kargones/handlekit/internal/adapter/sqlpool"

const (
	createUserQuery = `INSERT INTO users (id, name) OUTPUT INSERTED.id, INSERTED.name VALUES (@p1, @p2)`
	listUsersQuery  = `SELECT id, name FROM users`
)

// User - запись таблицы users.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateUser вставляет запись пользователя и возвращает вставленные строки.
//
// Операция логируется до и после выполнения через заимствованный logging handle.
// Ошибки - AppError с кодом DATABASE.ACQUIRE_FAILED (нет соединения)
// или DATABASE.QUERY_FAILED (ошибка выполнения запроса).
func (h *Handle) CreateUser(ctx context.Context, u User) ([]User, error) {
	if err := h.guard.Check(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrDatabaseAcquire,
			"пул соединений уже закрыт", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "sqlpool.CreateUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", u.ID))

	h.log.Info("создание пользователя", "user_id", u.ID, "user_name", u.Name)

	var users []User
	err := h.WithConn(ctx, func(conn *sql.Conn) error {
		var qErr error
		users, qErr = queryUsers(ctx, conn, createUserQuery, u.ID, u.Name)
		return qErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		h.log.Failure(err, "operation", "create_user", "user_id", u.ID)
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows", len(users)))
	h.log.Info("пользователь создан", "user_id", u.ID, "records", users)
	return users, nil
}

// ListUsers возвращает все записи таблицы users.
func (h *Handle) ListUsers(ctx context.Context) ([]User, error) {
	if err := h.guard.Check(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrDatabaseAcquire,
			"пул соединений уже закрыт", err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "sqlpool.ListUsers")
	defer span.End()

	var users []User
	err := h.WithConn(ctx, func(conn *sql.Conn) error {
		var qErr error
		users, qErr = queryUsers(ctx, conn, listUsersQuery)
		return qErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list users failed")
		h.log.Failure(err, "operation", "list_users")
		return nil, err
	}

	h.log.Debug("получен список пользователей", "count", len(users))
	return users, nil
}

// queryUsers выполняет запрос, возвращающий столбцы (id, name).
func queryUsers(ctx context.Context, conn *sql.Conn, query string, args ...any) ([]User, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryError(err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err() is checked below

	users := make([]User, 0, 1)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, queryError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	return users, nil
}

func queryError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewAppError(apperrors.ErrDatabaseQuery, "превышен таймаут запроса", err)
	}
	return apperrors.NewAppError(apperrors.ErrDatabaseQuery, "ошибка выполнения запроса", err)
}
