package dsp

import "math"

type envelopeState int

const (
	envIdle envelopeState = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

const envSilence = 1e-3

// Envelope is a linear-attack, exponential-decay envelope. With SetAD it is a
// one-shot drum envelope that decays straight to silence; with SetADSR it
// holds at the sustain level until NoteOff. Level is advanced one sample at a
// time by Next.
type Envelope struct {
	state       envelopeState
	level       float32
	attackRate  float32
	decayCoeff  float32
	sustain     float32
	releaseCoef float32
	oneShot     bool
	sampleRate  float64
}

func (e *Envelope) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	e.sampleRate = sampleRate
}

// SetAD configures a one-shot envelope: linear rise over attack seconds, then
// exponential decay to silence.
func (e *Envelope) SetAD(attack, decay float64) {
	e.oneShot = true
	e.sustain = 0
	e.attackRate = float32(1 / (attack*e.rate() + 1))
	e.decayCoeff = expCoeff(decay, e.rate())
	e.releaseCoef = e.decayCoeff
}

// SetADSR configures a gated envelope with a sustain plateau and a separate
// release time.
func (e *Envelope) SetADSR(attack, decay, sustain, release float64) {
	e.oneShot = false
	e.sustain = float32(sustain)
	e.attackRate = float32(1 / (attack*e.rate() + 1))
	e.decayCoeff = expCoeff(decay, e.rate())
	e.releaseCoef = expCoeff(release, e.rate())
}

func (e *Envelope) rate() float64 {
	if e.sampleRate <= 0 {
		return 44100
	}
	return e.sampleRate
}

// expCoeff is the per-sample multiplier of a one-pole decay with the given
// time constant in seconds.
func expCoeff(seconds, sampleRate float64) float32 {
	if seconds <= 0 {
		return 0
	}
	return float32(math.Exp(-1 / (seconds * sampleRate)))
}

// Trigger restarts the envelope from zero.
func (e *Envelope) Trigger() {
	e.state = envAttack
	e.level = 0
}

// NoteOff moves a gated envelope into its release phase. One-shot envelopes
// ignore it.
func (e *Envelope) NoteOff() {
	if !e.oneShot && e.state != envIdle {
		e.state = envRelease
	}
}

func (e *Envelope) Active() bool { return e.state != envIdle }

func (e *Envelope) Level() float32 { return e.level }

func (e *Envelope) Next() float32 {
	switch e.state {
	case envAttack:
		e.level += e.attackRate
		if e.level >= 1 {
			e.level = 1
			e.state = envDecay
		}
	case envDecay:
		if e.oneShot {
			e.level *= e.decayCoeff
			if e.level < envSilence {
				e.level = 0
				e.state = envIdle
			}
		} else {
			e.level = e.sustain + (e.level-e.sustain)*e.decayCoeff
			if e.level-e.sustain < envSilence {
				if e.sustain < envSilence {
					e.level = 0
					e.state = envIdle
				} else {
					e.level = e.sustain
					e.state = envSustain
				}
			}
		}
	case envSustain:
		e.level = e.sustain
	case envRelease:
		e.level *= e.releaseCoef
		if e.level < envSilence {
			e.level = 0
			e.state = envIdle
		}
	}
	return e.level
}
