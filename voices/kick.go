// Package voices has the sound generators the engines trigger: the four drum
// voices of the rhythm side and the wavetable synth of the melody side. The
// drum voices render one sample at a time so the rhythm engine can couple
// them (the bass ducks against the kick envelope inside the same sample
// loop); the wavetable voice renders block ranges so the melody engine can
// split a block at a step boundary.
package voices

import (
	"math"

	"github.com/jtaival/groovebox/dsp"
)

// Kick is a sine with an exponential pitch drop and a short noise click on
// top. The pitch envelope multiplies the base frequency by up to 4x at the
// start of the hit.
type Kick struct {
	phasor     dsp.Phasor
	ampEnv     dsp.Envelope
	pitchEnv   dsp.Envelope
	clickEnv   dsp.Envelope
	rng        dsp.Rand
	sampleRate float64
	velocity   float32
	click      float32
}

func NewKick() *Kick {
	return &Kick{rng: dsp.NewRand(1), click: 0.3}
}

func (k *Kick) Prepare(sampleRate float64) {
	k.sampleRate = sampleRate
	for _, e := range []*dsp.Envelope{&k.ampEnv, &k.pitchEnv, &k.clickEnv} {
		e.SetSampleRate(sampleRate)
	}
	k.pitchEnv.SetAD(0.0001, 0.05)
	k.clickEnv.SetAD(0.0001, 0.005)
	k.ampEnv.SetAD(0.005, 0.4)
}

// SetDecay sets the amp envelope decay in seconds.
func (k *Kick) SetDecay(decay float64) {
	k.ampEnv.SetAD(0.005, decay)
}

// SetClick sets the click noise amount, 0..1.
func (k *Kick) SetClick(amount float32) {
	k.click = amount
}

// TriggerStep restarts the hit from phase zero. The note is ignored, a kick
// has a fixed tuning set by the engine's frequency parameter.
func (k *Kick) TriggerStep(note int, velocity float32) {
	k.phasor.Reset()
	k.ampEnv.Trigger()
	k.pitchEnv.Trigger()
	k.clickEnv.Trigger()
	k.velocity = velocity
}

// Next renders one sample at the given base frequency and also returns the
// amp envelope level, which the engine feeds into the bass sidechain.
func (k *Kick) Next(freq float32) (out, env float32) {
	pitch := k.pitchEnv.Next()
	amp := k.ampEnv.Next()
	click := k.clickEnv.Next()
	f := float64(freq) * (1 + 3*float64(pitch))
	phase := k.phasor.Advance(f, k.sampleRate)
	s := float32(math.Sin(2*math.Pi*phase)) + k.rng.Noise()*click*k.click
	return s * amp * k.velocity, amp
}

func (k *Kick) Active() bool { return k.ampEnv.Active() }
