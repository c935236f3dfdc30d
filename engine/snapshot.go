package engine

import (
	"sync"
	"sync/atomic"
)

// Publisher hands copies of audio-side state to the front-end without ever
// blocking the audio goroutine. The audio side calls TryPublish after a block
// in which the state changed; if the front-end happens to hold the lock right
// then, the copy is simply retried after the next block, so the snapshot can
// be at most one block stale but the audio thread never waits.
type Publisher[T any] struct {
	mu       sync.Mutex
	snapshot T
	dirty    atomic.Bool
}

func NewPublisher[T any](initial T) *Publisher[T] {
	p := &Publisher[T]{snapshot: initial}
	return p
}

// MarkDirty records that the live state has diverged from the snapshot.
func (p *Publisher[T]) MarkDirty() {
	p.dirty.Store(true)
}

// TryPublish copies state into the snapshot if it is dirty and the lock is
// free. Audio goroutine only.
func (p *Publisher[T]) TryPublish(state *T) bool {
	if !p.dirty.Load() {
		return false
	}
	if !p.mu.TryLock() {
		return false
	}
	p.snapshot = *state
	p.mu.Unlock()
	p.dirty.Store(false)
	return true
}

// Get returns the latest published snapshot.
func (p *Publisher[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}
