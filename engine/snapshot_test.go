package engine

import "testing"

func TestPublisherPublishesOnlyWhenDirty(t *testing.T) {
	p := NewPublisher(1)
	state := 2
	if p.TryPublish(&state) {
		t.Errorf("clean publisher should not copy")
	}
	if got := p.Get(); got != 1 {
		t.Errorf("expected the initial snapshot, got %d", got)
	}
	p.MarkDirty()
	if !p.TryPublish(&state) {
		t.Errorf("dirty publisher should copy")
	}
	if got := p.Get(); got != 2 {
		t.Errorf("expected the published state, got %d", got)
	}
	if p.TryPublish(&state) {
		t.Errorf("publish should clear the dirty flag")
	}
}

func TestPublisherSkipsWhenReaderHoldsLock(t *testing.T) {
	p := NewPublisher(1)
	state := 2
	p.MarkDirty()
	p.mu.Lock()
	if p.TryPublish(&state) {
		t.Errorf("publish should back off while the reader holds the lock")
	}
	p.mu.Unlock()
	if !p.TryPublish(&state) {
		t.Errorf("publish should succeed once the lock is free")
	}
	if got := p.Get(); got != 2 {
		t.Errorf("expected the published state, got %d", got)
	}
}
