package voices

import "github.com/jtaival/groovebox/dsp"

// Noise is the shared implementation of the clap and hat: white noise through
// a fixed one-pole, either the lowpass output (clap) or the residual above it
// (hat), shaped by a one-shot envelope.
type Noise struct {
	env      dsp.Envelope
	filter   dsp.OnePole
	rng      dsp.Rand
	coeff    float32
	highpass bool
	attack   float64
	decay    float64
	velocity float32
}

// NewClap is a darker burst: lowpass with a slow coefficient and a longer
// decay.
func NewClap() *Noise {
	return &Noise{coeff: 0.2, attack: 0.001, decay: 0.2, rng: dsp.NewRand(187)}
}

// NewHat keeps only what the lowpass removes, which leaves the bright top
// end.
func NewHat() *Noise {
	return &Noise{coeff: 0.8, highpass: true, attack: 0.001, decay: 0.05, rng: dsp.NewRand(7777)}
}

func (n *Noise) Prepare(sampleRate float64) {
	n.env.SetSampleRate(sampleRate)
	n.env.SetAD(n.attack, n.decay)
	n.filter.Reset()
}

func (n *Noise) TriggerStep(note int, velocity float32) {
	n.env.Trigger()
	n.velocity = velocity
}

func (n *Noise) Next() float32 {
	s := n.rng.Noise()
	lp := n.filter.Process(s, n.coeff)
	if n.highpass {
		s -= lp
	} else {
		s = lp
	}
	return s * n.env.Next() * n.velocity
}

func (n *Noise) Active() bool { return n.env.Active() }
