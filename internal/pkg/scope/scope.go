// Package scope реализует дисциплину scoped-владения ресурсами:
// handle строится из конфигурации и набора уже живых зависимостей,
// передаётся в continuation и освобождается сразу после её возврата -
// и при успехе, и при ошибке.
//
// Вложенность вызовов WithHandle задаёт порядок захвата, а defer -
// обратный (LIFO) порядок освобождения:
//
//	logging.WithHandle(ctx, logCfg, func(log *logging.Handle) (struct{}, error) {
//	    return sqlpool.WithHandle(ctx, dbCfg, log, func(db *sqlpool.Handle) (struct{}, error) {
//	        return app.WithHandle(ctx, app.Deps{Log: log, DB: db}, run)
//	    })
//	})
package scope

import (
	"context"
	"errors"
)

// None - пустой набор зависимостей для handle без зависимостей.
type None struct{}

// Releaser освобождает ресурсы, которыми владеет handle.
// Вызывается ровно один раз при выходе из scope.
type Releaser func() error

// Noop - Releaser для handle без собственных ресурсов.
func Noop() error { return nil }

// Opener строит handle H из конфигурации C и набора зависимостей D.
//
// D - единая форма для любой арности: None для нуля зависимостей,
// указатель на handle для одной, обычная структура из указателей для N.
// Зависимости заимствуются только на время вызова continuation.
//
// При ошибке Opener обязан сам освободить всё, что успел захватить,
// и вернуть nil Releaser.
type Opener[C, D, H any] func(ctx context.Context, cfg C, deps D) (H, Releaser, error)

// WithHandle строит handle через open, вызывает fn ровно один раз и
// освобождает handle до возврата управления вызывающему.
//
// Ошибка построения возвращается без вызова fn. Ошибка освобождения
// объединяется с результатом fn через errors.Join. Освобождение
// выполняется и при panic внутри fn.
func WithHandle[C, D, H, T any](ctx context.Context, open Opener[C, D, H], cfg C, deps D, fn func(H) (T, error)) (result T, err error) {
	handle, release, err := open(ctx, cfg, deps)
	if err != nil {
		return result, err
	}
	if release == nil {
		release = Noop
	}

	defer func() {
		if relErr := release(); relErr != nil {
			err = errors.Join(err, relErr)
		}
	}()

	return fn(handle)
}

// Run - WithHandle для continuation без значения результата.
func Run[C, D, H any](ctx context.Context, open Opener[C, D, H], cfg C, deps D, fn func(H) error) error {
	_, err := WithHandle(ctx, open, cfg, deps, func(h H) (struct{}, error) {
		return struct{}{}, fn(h)
	})
	return err
}
