package portal

import "sync"

// classLimiter сериализует замены расписания в рамках одного класса;
// метки приходят уже нормализованными.
type classLimiter struct {
	mu      sync.Mutex
	byLabel map[string]*sync.Mutex
}

func newClassLimiter() *classLimiter {
	return &classLimiter{byLabel: make(map[string]*sync.Mutex)}
}

func (l *classLimiter) lock(label string) func() {
	l.mu.Lock()
	m, ok := l.byLabel[label]
	if !ok {
		m = &sync.Mutex{}
		l.byLabel[label] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}
