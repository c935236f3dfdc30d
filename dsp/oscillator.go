package dsp

import "math"

const tableSize = 2048

// Waveform selects one of the precomputed wavetables.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
	numWaveforms
)

var wavetables [numWaveforms][tableSize + 1]float32

// The tables carry one guard sample at the end so the interpolation never
// needs a modulo on the second index.
func init() {
	for i := 0; i < tableSize; i++ {
		t := float64(i) / tableSize
		wavetables[Sine][i] = float32(math.Sin(2 * math.Pi * t))
		wavetables[Saw][i] = float32(1 - 2*t)
		if t < 0.5 {
			wavetables[Square][i] = 1
		} else {
			wavetables[Square][i] = -1
		}
		wavetables[Triangle][i] = float32(2*math.Abs(2*(t-math.Floor(t+0.5)))) - 1
	}
	for w := Waveform(0); w < numWaveforms; w++ {
		wavetables[w][tableSize] = wavetables[w][0]
	}
}

// Oscillator reads a wavetable with linear interpolation.
type Oscillator struct {
	wave  Waveform
	phase float64
	inc   float64
}

func (o *Oscillator) SetWaveform(w Waveform) { o.wave = w }

func (o *Oscillator) SetFrequency(freq, sampleRate float64) {
	if sampleRate <= 0 || freq < 0 {
		o.inc = 0
		return
	}
	o.inc = freq / sampleRate
}

func (o *Oscillator) Reset() { o.phase = 0 }

// Next returns the current sample and advances the phase by one sample.
func (o *Oscillator) Next() float32 {
	pos := o.phase * tableSize
	idx := int(pos)
	frac := float32(pos - float64(idx))
	table := &wavetables[o.wave]
	s := table[idx] + frac*(table[idx+1]-table[idx])
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= 1
	}
	return s
}
