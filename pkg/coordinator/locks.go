package coordinator

import "sync"

// targetLocks serializes mutations per target so concurrent requests never
// interleave snapshot and write for the same file. Unrelated targets do
// not block each other.
type targetLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTargetLocks() *targetLocks {
	return &targetLocks{locks: make(map[string]*sync.Mutex)}
}

func (t *targetLocks) lockFor(target string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[target]
	if !ok {
		l = &sync.Mutex{}
		t.locks[target] = l
	}
	return l
}
