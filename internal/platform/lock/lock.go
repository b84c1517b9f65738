// Package lock serializes scheduler runs per scheduling date. Two runs for
// the same date executing concurrently would race on capacity and driver
// state, so a run must hold the date's lock for its whole duration.
package lock

import (
	"context"
	"fmt"
	"sync"
)

// RunLock guards a scheduling date against concurrent runs.
type RunLock interface {
	// Acquire takes the lock for the given key or fails immediately when
	// another run holds it.
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// ErrHeld is returned when the lock is already taken by another run.
type ErrHeld struct{ Key string }

func (e *ErrHeld) Error() string {
	return fmt.Sprintf("run lock %q is held by another scheduler run", e.Key)
}

// LocalLock is an in-process RunLock for single-node deployments and tests.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]bool)}
}

func (l *LocalLock) Acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return &ErrHeld{Key: key}
	}
	l.held[key] = true
	return nil
}

func (l *LocalLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
