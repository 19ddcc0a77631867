package scope

import (
	"errors"
	"sync/atomic"
)

// ErrReleased возвращается при обращении к handle после выхода из его scope.
var ErrReleased = errors.New("scope: handle used after release")

// Guard отслеживает живость handle. Встраивается в handle и
// закрывается его Releaser-ом; операции handle начинаются с Check().
//
// Нулевое значение - живой handle.
type Guard struct {
	released atomic.Bool
}

// Alive сообщает, находится ли handle внутри своего scope.
func (g *Guard) Alive() bool {
	return !g.released.Load()
}

// Check возвращает ErrReleased, если handle уже освобождён.
func (g *Guard) Check() error {
	if g.released.Load() {
		return ErrReleased
	}
	return nil
}

// Close помечает handle освобождённым. Возвращает false,
// если handle уже был освобождён ранее.
func (g *Guard) Close() bool {
	return g.released.CompareAndSwap(false, true)
}
