package prosafe

import "sync"

// Locks serializes exchanges that bind the same reply endpoint. Every
// exchange binds the broadcast address on a fixed port, so with the default
// transport all exchanges share one lock whatever interface they go through.
// The zero value is ready to use.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Do runs fn while holding the lock of key, usually Switch.LockKey.
func (l *Locks) Do(key string, fn func()) {
	m := l.get(key)
	m.Lock()
	defer m.Unlock()
	fn()
}

func (l *Locks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
