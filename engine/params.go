package engine

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float32 stored as its bit pattern, so parameter knobs can
// be turned from any goroutine and read lock-free on the audio side.
type AtomicFloat struct {
	bits atomic.Uint32
}

func (f *AtomicFloat) Store(v float32) { f.bits.Store(math.Float32bits(v)) }
func (f *AtomicFloat) Load() float32   { return math.Float32frombits(f.bits.Load()) }

// RhythmParams are the live controls of the rhythm engine. The engine reads
// them exactly once per block into a RhythmParamValues, so every sample of a
// block sees one coherent set of values.
type RhythmParams struct {
	KickFreq  AtomicFloat // Hz, 40..150
	KickDecay AtomicFloat // seconds, 0.1..1
	KickClick AtomicFloat // 0..1

	BassCutoff AtomicFloat // Hz, 20..2000
	BassDrive  AtomicFloat // 0..1
	BassAttack AtomicFloat // seconds
	BassDecay  AtomicFloat // seconds

	Sidechain AtomicFloat // 0..1, how hard the kick ducks the bass

	Stutter  AtomicFloat // punch-in, engaged above 0.5
	Sweep    AtomicFloat // punch-in, sweep position, engaged above 0.01
	Bitcrush AtomicFloat // punch-in, engaged above 0.5
}

type RhythmParamValues struct {
	KickFreq, KickDecay, KickClick float32
	BassCutoff, BassDrive          float32
	BassAttack, BassDecay          float32
	Sidechain                      float32
	Stutter, Sweep, Bitcrush       float32
}

func NewRhythmParams() *RhythmParams {
	p := &RhythmParams{}
	p.KickFreq.Store(60)
	p.KickDecay.Store(0.4)
	p.KickClick.Store(0.3)
	p.BassCutoff.Store(200)
	p.BassDrive.Store(0.3)
	p.BassAttack.Store(0.01)
	p.BassDecay.Store(0.4)
	p.Sidechain.Store(0.5)
	return p
}

func (p *RhythmParams) Values() RhythmParamValues {
	return RhythmParamValues{
		KickFreq:   p.KickFreq.Load(),
		KickDecay:  p.KickDecay.Load(),
		KickClick:  p.KickClick.Load(),
		BassCutoff: p.BassCutoff.Load(),
		BassDrive:  p.BassDrive.Load(),
		BassAttack: p.BassAttack.Load(),
		BassDecay:  p.BassDecay.Load(),
		Sidechain:  p.Sidechain.Load(),
		Stutter:    p.Stutter.Load(),
		Sweep:      p.Sweep.Load(),
		Bitcrush:   p.Bitcrush.Load(),
	}
}

// MelodyParams are the live controls of the wavetable synth.
type MelodyParams struct {
	Attack   AtomicFloat // seconds
	Decay    AtomicFloat // seconds
	Morph    AtomicFloat // 0 = osc1, 1 = osc2
	Cutoff   AtomicFloat // Hz
	LFORate  AtomicFloat // Hz
	LFODepth AtomicFloat // 0..1
}

type MelodyParamValues struct {
	Attack, Decay, Morph, Cutoff, LFORate, LFODepth float32
}

func NewMelodyParams() *MelodyParams {
	p := &MelodyParams{}
	p.Attack.Store(0.01)
	p.Decay.Store(0.4)
	p.Morph.Store(0.5)
	p.Cutoff.Store(2000)
	p.LFORate.Store(2)
	p.LFODepth.Store(0.2)
	return p
}

func (p *MelodyParams) Values() MelodyParamValues {
	return MelodyParamValues{
		Attack:   p.Attack.Load(),
		Decay:    p.Decay.Load(),
		Morph:    p.Morph.Load(),
		Cutoff:   p.Cutoff.Load(),
		LFORate:  p.LFORate.Load(),
		LFODepth: p.LFODepth.Load(),
	}
}
