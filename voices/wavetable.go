package voices

import (
	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/dsp"
)

// Wavetable is the melodic voice: two wavetable oscillators morphed together,
// an ADSR, and a one-pole lowpass whose cutoff wobbles with an LFO. It is
// monophonic; a new note steals the voice, and a Glide note slides the pitch
// there without retriggering the envelope.
type Wavetable struct {
	osc1, osc2 dsp.Oscillator
	lfo        dsp.Oscillator
	env        dsp.Envelope
	filter     dsp.OnePole
	freq       dsp.Smoother
	morph      dsp.Smoother
	cutoff     dsp.Smoother
	lfoRate    dsp.Smoother
	lfoDepth   dsp.Smoother
	sampleRate float64
	velocity   float32
	remaining  int
}

func NewWavetable() *Wavetable {
	w := &Wavetable{}
	w.osc1.SetWaveform(dsp.Saw)
	w.osc2.SetWaveform(dsp.Square)
	w.lfo.SetWaveform(dsp.Sine)
	return w
}

func (w *Wavetable) Prepare(sampleRate float64) {
	w.sampleRate = sampleRate
	w.env.SetSampleRate(sampleRate)
	w.env.SetADSR(0.01, 0.4, 0, 0.1)
	w.freq.Reset(sampleRate, 0.05, 0)
	w.morph.Reset(sampleRate, 0.05, 0.5)
	w.cutoff.Reset(sampleRate, 0.05, 2000)
	w.lfoRate.Reset(sampleRate, 0.05, 2)
	w.lfoDepth.Reset(sampleRate, 0.05, 0.2)
	w.filter.Reset()
}

// SetParams applies the current parameter snapshot. Called once per block;
// each control ramps to its new value over the smoothing time, so a knob jump
// never lands as a hard step inside the audio.
func (w *Wavetable) SetParams(attack, decay, morph, cutoff, lfoRate, lfoDepth float64) {
	w.env.SetADSR(attack, decay, 0, 0.1)
	w.morph.SetTarget(float32(morph))
	w.cutoff.SetTarget(float32(cutoff))
	w.lfoRate.SetTarget(float32(lfoRate))
	w.lfoDepth.SetTarget(float32(lfoDepth))
}

// NoteOn starts a note that releases itself after durationSamples. With glide
// true while a note is still sounding, the pitch slides there and the
// envelope and oscillator phases are left running.
func (w *Wavetable) NoteOn(note int, velocity float32, durationSamples int, glide bool) {
	f := float32(groovebox.MidiNoteToHz(float64(note)))
	if glide && w.env.Active() {
		w.freq.SetTarget(f)
	} else {
		w.freq.Snap(f)
		w.osc1.Reset()
		w.osc2.Reset()
		w.env.Trigger()
	}
	w.velocity = velocity
	w.remaining = durationSamples
}

// Render adds the voice into buffer[from:to].
func (w *Wavetable) Render(buffer groovebox.AudioBuffer, from, to int) {
	if !w.env.Active() {
		return
	}
	for i := from; i < to; i++ {
		f := float64(w.freq.Next())
		w.osc1.SetFrequency(f, w.sampleRate)
		w.osc2.SetFrequency(f, w.sampleRate)
		morph := w.morph.Next()
		s := (1-morph)*w.osc1.Next() + morph*w.osc2.Next()
		e := w.env.Next()
		w.lfo.SetFrequency(float64(w.lfoRate.Next()), w.sampleRate)
		mod := float64(w.cutoff.Next()) * (1 + float64(w.lfo.Next()*w.lfoDepth.Next()))
		if mod < 20 {
			mod = 20
		} else if mod > 20000 {
			mod = 20000
		}
		out := w.filter.LowPass(s*e, mod, w.sampleRate) * 0.5 * w.velocity
		buffer[i][0] += out
		buffer[i][1] += out
		if w.remaining > 0 {
			w.remaining--
			if w.remaining == 0 {
				w.env.NoteOff()
			}
		}
	}
}

func (w *Wavetable) Active() bool { return w.env.Active() }
