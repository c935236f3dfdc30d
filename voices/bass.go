package voices

import (
	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/dsp"
)

// Bass is a sawtooth through a one-pole lowpass, with a filter envelope on
// top of the base cutoff, then a drive stage into a soft clipper. The engine
// passes in the sidechain duck factor derived from the kick envelope.
type Bass struct {
	phasor     dsp.Phasor
	ampEnv     dsp.Envelope
	filtEnv    dsp.Envelope
	filter     dsp.OnePole
	sampleRate float64
	freq       float64
	velocity   float32
	envAmount  float64
}

func NewBass() *Bass {
	return &Bass{envAmount: 0.5}
}

func (b *Bass) Prepare(sampleRate float64) {
	b.sampleRate = sampleRate
	b.ampEnv.SetSampleRate(sampleRate)
	b.filtEnv.SetSampleRate(sampleRate)
	b.ampEnv.SetAD(0.01, 0.4)
	b.filtEnv.SetAD(0.01, 0.3)
	b.filter.Reset()
}

// SetEnvelope sets the amp envelope attack and decay in seconds.
func (b *Bass) SetEnvelope(attack, decay float64) {
	b.ampEnv.SetAD(attack, decay)
}

// SetEnvAmount sets how much the filter envelope opens the cutoff.
func (b *Bass) SetEnvAmount(amount float64) {
	b.envAmount = amount
}

func (b *Bass) TriggerStep(note int, velocity float32) {
	b.freq = groovebox.MidiNoteToHz(float64(note))
	b.ampEnv.Trigger()
	b.filtEnv.Trigger()
	b.velocity = velocity
}

// TriggerHz is TriggerStep with the frequency given directly, for live MIDI
// input that has already converted the note.
func (b *Bass) TriggerHz(freq float64, velocity float32) {
	b.freq = freq
	b.ampEnv.Trigger()
	b.filtEnv.Trigger()
	b.velocity = velocity
}

// Next renders one sample. cutoff is the smoothed base cutoff in Hz, drive
// 0..1, duck the sidechain gain 0..1.
func (b *Bass) Next(cutoff, drive, duck float32) float32 {
	phase := b.phasor.Advance(b.freq, b.sampleRate)
	saw := float32(2*phase - 1)
	fe := b.filtEnv.Next()
	mod := float64(cutoff) * (1 + 5*float64(fe)*b.envAmount)
	if mod > 20000 {
		mod = 20000
	}
	filtered := b.filter.LowPass(saw, mod, b.sampleRate)
	x := filtered * b.ampEnv.Next() * b.velocity
	x *= 1 + 9*drive
	return dsp.SoftClip(x) * duck
}

func (b *Bass) Active() bool { return b.ampEnv.Active() }
