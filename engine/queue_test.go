package engine

import (
	"testing"

	"github.com/jtaival/groovebox"
)

func TestQueueFIFO(t *testing.T) {
	q := NewCommandQueue(4, 16)
	for i := 0; i < 3; i++ {
		ok := q.Push(groovebox.Command{Type: groovebox.CmdUpdateVelocity, Track: i, Step: i, Value: float32(i)})
		if !ok {
			t.Fatalf("push %d dropped", i)
		}
	}
	var got []groovebox.Command
	n := q.Drain(func(cmd groovebox.Command) { got = append(got, cmd) })
	if n != 3 || len(got) != 3 {
		t.Fatalf("expected 3 drained commands, got %d", n)
	}
	for i, cmd := range got {
		if cmd.Track != i {
			t.Errorf("command %d out of order: track %d", i, cmd.Track)
		}
	}
	if n := q.Drain(func(groovebox.Command) {}); n != 0 {
		t.Errorf("second drain should be empty, got %d", n)
	}
}

func TestQueueDropsOutOfRange(t *testing.T) {
	q := NewCommandQueue(4, 16)
	bad := []groovebox.Command{
		{Type: groovebox.CmdToggleStep, Track: 4, Step: 0},
		{Type: groovebox.CmdToggleStep, Track: -1, Step: 0},
		{Type: groovebox.CmdToggleStep, Track: 0, Step: 16},
		{Type: groovebox.CmdUpdateProbability, Track: 0, Step: -1},
	}
	for i, cmd := range bad {
		if q.Push(cmd) {
			t.Errorf("command %d should have been rejected", i)
		}
	}
	if n := q.Drain(func(groovebox.Command) {}); n != 0 {
		t.Errorf("rejected commands leaked into the queue: %d", n)
	}
	// transport commands carry no grid address and always pass
	if !q.Push(groovebox.Command{Type: groovebox.CmdNoteOn, Note: 36, Value: 1}) {
		t.Errorf("note command should not be range checked")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewCommandQueue(4, 16)
	for i := 0; i < QueueCapacity; i++ {
		if !q.Push(groovebox.Command{Type: groovebox.CmdToggleStep}) {
			t.Fatalf("push %d dropped before the ring was full", i)
		}
	}
	if q.Push(groovebox.Command{Type: groovebox.CmdToggleStep}) {
		t.Errorf("push into a full ring should report a drop")
	}
	if n := q.Drain(func(groovebox.Command) {}); n != QueueCapacity {
		t.Errorf("expected %d commands, got %d", QueueCapacity, n)
	}
	if !q.Push(groovebox.Command{Type: groovebox.CmdToggleStep}) {
		t.Errorf("ring should accept again after a drain")
	}
}

func TestQueueSingleProducerSingleConsumer(t *testing.T) {
	q := NewCommandQueue(4, 16)
	const total = 10000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; {
			if q.Push(groovebox.Command{Type: groovebox.CmdUpdateVelocity, Value: float32(i)}) {
				i++
			}
		}
	}()
	received := 0
	next := float32(0)
	for received < total {
		received += q.Drain(func(cmd groovebox.Command) {
			if cmd.Value != next {
				t.Errorf("expected value %f, got %f", next, cmd.Value)
			}
			next++
		})
	}
	<-done
}
