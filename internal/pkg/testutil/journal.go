package testutil

import (
	"fmt"
	"sync"
)

// Journal - инструментированный коллаборатор, записывающий события
// жизненного цикла handle-ов в порядке их возникновения.
// Используется для проверки LIFO-порядка захвата и освобождения.
type Journal struct {
	mu     sync.Mutex
	events []string
}

// Record добавляет событие в журнал.
func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

// Events возвращает копию записанных событий.
func (j *Journal) Events() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.events))
	copy(out, j.events)
	return out
}

// Count возвращает количество событий, равных event.
func (j *Journal) Count(event string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.events {
		if e == event {
			n++
		}
	}
	return n
}
