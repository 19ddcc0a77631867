package scope

import (
	"errors"
	"sync"
)

// Stack накапливает Releaser-ы захваченных ресурсов и освобождает их
// в обратном порядке. Используется внутри Opener, который владеет
// несколькими подресурсами (например, logging handle с K sink-ами).
//
// Нулевое значение готово к использованию.
type Stack struct {
	mu       sync.Mutex
	releases []Releaser
	done     bool
}

// Push добавляет Releaser на вершину стека.
// nil игнорируется.
func (s *Stack) Push(r Releaser) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases = append(s.releases, r)
}

// Len возвращает количество ещё не освобождённых ресурсов.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

// Release освобождает все ресурсы от последнего к первому.
// Ошибки не прерывают освобождение остальных ресурсов и собираются
// через errors.Join. Повторный вызов ничего не делает.
func (s *Stack) Release() error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil
	}
	s.done = true
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()

	var errs []error
	for i := len(releases) - 1; i >= 0; i-- {
		if err := releases[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
