// Package dsp has the small signal-processing primitives the voices are built
// from: phase accumulators, envelopes, wavetable oscillators, one-pole
// filters, parameter smoothers and the punch-in performance effects. Nothing
// in this package allocates after construction, so all of it is safe to call
// from the audio goroutine.
package dsp

// Phasor is a phase accumulator in [0, 1). Advance steps it by freq/sampleRate
// and wraps by subtraction, so the fractional position is preserved across the
// wrap. Non-positive frequency or sample rate leaves the phase untouched.
type Phasor struct {
	phase float64
}

func (p *Phasor) Advance(freq, sampleRate float64) float64 {
	if freq > 0 && sampleRate > 0 {
		p.phase += freq / sampleRate
		if p.phase >= 1 {
			p.phase -= 1
		}
	}
	return p.phase
}

func (p *Phasor) Phase() float64 { return p.phase }

func (p *Phasor) Reset() { p.phase = 0 }
