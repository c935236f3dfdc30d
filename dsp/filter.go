package dsp

import "math"

// OnePole is a one-pole lowpass. The same state can be driven either with a
// precomputed coefficient (Process) or with a cutoff in Hz (LowPass). A
// highpass is obtained by subtracting the lowpass from the input.
type OnePole struct {
	z1 float32
}

// Process runs one sample through the filter with coefficient c in [0, 1].
func (f *OnePole) Process(in, c float32) float32 {
	f.z1 += c * (in - f.z1)
	return f.z1
}

// LowPass runs one sample through the filter with the given cutoff frequency.
func (f *OnePole) LowPass(in float32, cutoff, sampleRate float64) float32 {
	return f.Process(in, Coeff(cutoff, sampleRate))
}

func (f *OnePole) Reset() { f.z1 = 0 }

// Coeff converts a cutoff frequency to a one-pole coefficient.
func Coeff(cutoff, sampleRate float64) float32 {
	if sampleRate <= 0 {
		return 1
	}
	c := 1 - math.Exp(-2*math.Pi*cutoff/sampleRate)
	if c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}
	return float32(c)
}

// SoftClip is the x/(1+|x|) waveshaper used on the bass drive stage.
func SoftClip(x float32) float32 {
	if x < 0 {
		return x / (1 - x)
	}
	return x / (1 + x)
}
