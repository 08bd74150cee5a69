package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
)

// Locker implements ports.DistributedLocker in memory.
// It only coordinates controllers inside one process, e.g. several daemons embedded in
// one program. Safe for concurrent use.
type Locker struct {
	mu     sync.Mutex
	held   map[string]*lease
	poll   time.Duration
	now    func() time.Time
	serial uint64
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]*lease),
		poll: 20 * time.Millisecond,
		now:  time.Now,
	}
}

// Lock blocks until key is free or has expired, or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.Lease, error) {
	for {
		if ls := l.tryLock(key, ttl); ls != nil {
			return ls, nil
		}
		t := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (l *Locker) tryLock(key string, ttl time.Duration) *lease {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.held[key]; ok && l.now().Before(cur.expires) {
		return nil
	}
	l.serial++
	ls := &lease{locker: l, key: key, serial: l.serial, expires: l.now().Add(ttl)}
	l.held[key] = ls
	return ls
}

type lease struct {
	locker  *Locker
	key     string
	serial  uint64
	expires time.Time
}

func (ls *lease) owned() bool {
	cur, ok := ls.locker.held[ls.key]
	return ok && cur.serial == ls.serial && ls.locker.now().Before(cur.expires)
}

func (ls *lease) Refresh(_ context.Context, ttl time.Duration) error {
	ls.locker.mu.Lock()
	defer ls.locker.mu.Unlock()
	if !ls.owned() {
		return domain.ErrLockHeld
	}
	ls.expires = ls.locker.now().Add(ttl)
	return nil
}

func (ls *lease) Release(_ context.Context) error {
	ls.locker.mu.Lock()
	defer ls.locker.mu.Unlock()
	if cur, ok := ls.locker.held[ls.key]; ok && cur.serial == ls.serial {
		delete(ls.locker.held, ls.key)
	}
	return nil
}
