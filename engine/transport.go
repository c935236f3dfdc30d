package engine

import (
	"math"
	"sync/atomic"

	"github.com/jtaival/groovebox"
)

// Transport is the clock when running standalone, filling the role a plugin
// host's playhead would. The front-end goroutine starts and stops it and sets
// the tempo; the audio goroutine calls Next once per block to get the
// TimeInfo for that block and advance the position.
type Transport struct {
	sampleRate float64
	bpmBits    atomic.Uint64
	playing    atomic.Bool
	pos        atomic.Int64
}

func NewTransport(sampleRate, bpm float64) *Transport {
	t := &Transport{sampleRate: sampleRate}
	if t.sampleRate <= 0 {
		t.sampleRate = 44100
	}
	t.SetBPM(bpm)
	return t
}

func (t *Transport) SetBPM(bpm float64) {
	if bpm < 20 {
		bpm = 20
	} else if bpm > 999 {
		bpm = 999
	}
	t.bpmBits.Store(math.Float64bits(bpm))
}

func (t *Transport) BPM() float64 {
	return math.Float64frombits(t.bpmBits.Load())
}

// Play starts playback from the beginning.
func (t *Transport) Play() {
	t.pos.Store(0)
	t.playing.Store(true)
}

func (t *Transport) Stop() {
	t.playing.Store(false)
	t.pos.Store(0)
}

func (t *Transport) Toggle() {
	if t.Playing() {
		t.Stop()
	} else {
		t.Play()
	}
}

func (t *Transport) Playing() bool {
	return t.playing.Load()
}

// Next returns the transport state at the start of the coming block and
// advances the position past it. Audio goroutine only.
func (t *Transport) Next(frames int) groovebox.TimeInfo {
	bpm := t.BPM()
	pos := t.pos.Load()
	info := groovebox.TimeInfo{
		Playing:   t.playing.Load(),
		BPM:       bpm,
		SamplePos: pos,
		PPQ:       float64(pos) / t.sampleRate * bpm / 60,
	}
	if info.Playing {
		t.pos.Store(pos + int64(frames))
	}
	return info
}
