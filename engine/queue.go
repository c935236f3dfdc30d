// Package engine runs the sequencers. The rhythm and melody engines each own
// a command queue (front-end to audio), a snapshot publisher (audio to
// front-end) and their sequencer state; the Session ties them to a transport
// and a broker so the whole thing can run standalone behind an audio
// callback.
package engine

import (
	"sync/atomic"

	"github.com/jtaival/groovebox"
)

// QueueCapacity is the command ring size. At a typical 512 sample block it
// gives the front-end over a thousand edits per ~12 ms, far beyond any
// realistic burst.
const QueueCapacity = 1024

// CommandQueue is a single-producer single-consumer lock-free ring. The
// front-end goroutine calls Push, the audio goroutine calls Drain; neither
// ever blocks. When the ring is full or a command addresses a cell outside
// the grid, the command is dropped and Push reports it, but the audio side is
// never involved.
type CommandQueue struct {
	buf      [QueueCapacity]groovebox.Command
	read     atomic.Uint64
	write    atomic.Uint64
	maxTrack int
	maxStep  int
}

func NewCommandQueue(maxTrack, maxStep int) *CommandQueue {
	return &CommandQueue{maxTrack: maxTrack, maxStep: maxStep}
}

func (q *CommandQueue) valid(cmd groovebox.Command) bool {
	switch cmd.Type {
	case groovebox.CmdToggleStep, groovebox.CmdUpdateVelocity,
		groovebox.CmdUpdateProbability, groovebox.CmdSetModifier,
		groovebox.CmdSetEvent:
		return cmd.Track >= 0 && cmd.Track < q.maxTrack &&
			cmd.Step >= 0 && cmd.Step < q.maxStep
	}
	return true
}

// Push enqueues a command, returning false if it was dropped.
func (q *CommandQueue) Push(cmd groovebox.Command) bool {
	if !q.valid(cmd) {
		return false
	}
	w := q.write.Load()
	if w-q.read.Load() >= QueueCapacity {
		return false
	}
	q.buf[w%QueueCapacity] = cmd
	q.write.Store(w + 1)
	return true
}

// Drain applies every pending command in FIFO order and returns how many
// there were. Only the audio goroutine calls this.
func (q *CommandQueue) Drain(apply func(groovebox.Command)) int {
	r := q.read.Load()
	w := q.write.Load()
	for i := r; i < w; i++ {
		apply(q.buf[i%QueueCapacity])
	}
	q.read.Store(w)
	return int(w - r)
}
