package lock

import (
	"context"
	"sync"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

// MemoryLocker serialises work per (tenant, staff) inside one process.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

func (l *MemoryLocker) Lock(ctx context.Context, tenantID, staffID string) (func(), error) {
	key := Key(tenantID, staffID)

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Key is the lock name of one staff calendar.
func Key(tenantID, staffID string) string {
	return "salon:lock:staff:" + tenantID + ":" + staffID
}

var _ domain.StaffLocker = (*MemoryLocker)(nil)
