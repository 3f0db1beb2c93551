package attempts

import (
	"sync"
)

// userLocks serializes the attempt check-then-create critical sections per
// (tenant, user) pair. The store operations themselves are atomic documents;
// the single-active-attempt and attempt-limit invariants span several of
// them, so the engine holds this lock across the whole sequence. The map only
// ever grows, but one mutex per seen (tenant, user) pair is cheap.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the (tenant, user) pair and returns the unlock function.
func (l *userLocks) acquire(tenantID, userID string) func() {
	key := tenantID + "/" + userID

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
