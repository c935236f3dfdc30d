package dsp

// Rand is the 16007 multiplicative congruential noise generator. It is cheap
// enough to call per sample and deterministic, which the tests rely on.
type Rand struct {
	seed uint32
}

func NewRand(seed uint32) Rand {
	if seed == 0 {
		seed = 1
	}
	return Rand{seed: seed}
}

// Noise returns a sample in (-1, 1).
func (r *Rand) Noise() float32 {
	r.seed *= 16007
	return float32(int32(r.seed)) / -(1 << 31)
}

// Float32 returns a value in [0, 1).
func (r *Rand) Float32() float32 {
	f := (r.Noise() + 1) / 2
	if f >= 1 {
		f = 0
	}
	return f
}
