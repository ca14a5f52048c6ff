package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"village-server/internal/shared/errors"
)

// MemoryLocker keeps one single-slot channel per player. It is the fallback
// when Redis is disabled and is only correct for a single server process.
type MemoryLocker struct {
	timeout time.Duration
	mu      sync.Mutex
	slots   map[string]chan struct{}
}

func NewMemoryLocker(timeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		timeout: timeout,
		slots:   make(map[string]chan struct{}),
	}
}

func (l *MemoryLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *MemoryLocker) Acquire(ctx context.Context, playerIDs ...string) (Release, error) {
	keys := orderedKeys(playerIDs)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range keys {
		s := l.slot(key)
		select {
		case s <- struct{}{}:
			held = append(held, s)
		case <-ctx.Done():
			release()
			slog.Debug("Player lock acquisition timed out",
				"component", "memory_locker",
				"player_id", key,
				"timeout", l.timeout)
			return nil, errors.Busyf("player %s is busy, retry shortly", key)
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}
