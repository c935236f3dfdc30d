package dsp

import "math"

// Punch-in performance effects. Each one sits in the master chain permanently
// and is a pass-through until engaged, so toggling them costs nothing but the
// parameter write.

// Division is the musical length of a stutter loop.
type Division int

const (
	DivQuarter Division = iota
	DivEighth
	DivSixteenth
)

func (d Division) divisor() float64 {
	switch d {
	case DivEighth:
		return 2
	case DivSixteenth:
		return 4
	}
	return 1
}

// Stutter records one beat-synced slice of the signal and then loops it in
// place of the input until released. While the slice is still being captured
// the input passes through, so engaging it is click-free.
type Stutter struct {
	ring      RingBuffer[[2]float32]
	loopLen   int
	captured  int
	playPos   int
	capturing bool
	playing   bool
}

func (s *Stutter) Prepare(sampleRate float64) {
	n := int(sampleRate)
	if n < 1 {
		n = 44100
	}
	s.ring = RingBuffer[[2]float32]{Buffer: make([][2]float32, n)}
	s.Deactivate()
}

// Activate starts capturing a loop of the given division at the given tempo.
// Re-activating while already running is a no-op so held keys do not restart
// the loop.
func (s *Stutter) Activate(div Division, bpm float64) {
	if s.capturing || s.playing {
		return
	}
	if bpm <= 0 {
		bpm = 120
	}
	// the ring holds one second of audio, so its length is the sample rate
	samplesPerBeat := float64(len(s.ring.Buffer)) * 60 / bpm
	loopLen := int(samplesPerBeat / div.divisor())
	if loopLen < 1 {
		loopLen = 1
	}
	if loopLen > len(s.ring.Buffer) {
		loopLen = len(s.ring.Buffer)
	}
	s.loopLen = loopLen
	s.captured = 0
	s.capturing = true
	s.playing = false
}

func (s *Stutter) Deactivate() {
	s.capturing = false
	s.playing = false
	s.captured = 0
	s.playPos = 0
}

func (s *Stutter) Active() bool { return s.capturing || s.playing }

func (s *Stutter) Process(buffer [][2]float32) {
	if !s.Active() {
		return
	}
	for i := range buffer {
		if s.capturing {
			s.ring.WriteWrapSingle(buffer[i])
			s.captured++
			if s.captured >= s.loopLen {
				s.capturing = false
				s.playing = true
				s.playPos = 0
			}
			continue
		}
		buffer[i] = s.ring.At(s.loopLen - 1 - s.playPos)
		s.playPos++
		if s.playPos >= s.loopLen {
			s.playPos = 0
		}
	}
}

// SweepMode selects the sweep filter topology.
type SweepMode int

const (
	SweepOff SweepMode = iota
	SweepHighPass
	SweepLowPass
)

// SweepFilter is a one-pole filter whose cutoff is swept exponentially by a
// single 0..1 position control. Highpass sweeps up from 20 Hz, lowpass sweeps
// down from 20 kHz.
type SweepFilter struct {
	mode       SweepMode
	filters    [2]OnePole
	sampleRate float64
}

func (f *SweepFilter) Prepare(sampleRate float64) {
	f.sampleRate = sampleRate
	f.filters[0].Reset()
	f.filters[1].Reset()
}

func (f *SweepFilter) SetMode(mode SweepMode) {
	if mode != f.mode {
		f.filters[0].Reset()
		f.filters[1].Reset()
	}
	f.mode = mode
}

func (f *SweepFilter) Process(buffer [][2]float32, position float32) {
	if f.mode == SweepOff || position <= 0 {
		return
	}
	if position > 1 {
		position = 1
	}
	var cutoff float64
	if f.mode == SweepHighPass {
		cutoff = 20 * math.Pow(500, float64(position))
	} else {
		cutoff = 20000 * math.Pow(0.01, float64(position))
	}
	c := Coeff(cutoff, f.sampleRate)
	for i := range buffer {
		for chn := 0; chn < 2; chn++ {
			lp := f.filters[chn].Process(buffer[i][chn], c)
			if f.mode == SweepHighPass {
				buffer[i][chn] -= lp
			} else {
				buffer[i][chn] = lp
			}
		}
	}
}

// Bitcrush quantizes the signal to 2^bits levels and holds each value for
// downsample samples.
type Bitcrush struct {
	bits       int
	downsample int
	hold       [2]float32
	counter    int
}

func (b *Bitcrush) Set(bits, downsample int) {
	if bits < 1 {
		bits = 1
	}
	if downsample < 1 {
		downsample = 1
	}
	b.bits = bits
	b.downsample = downsample
}

func (b *Bitcrush) Process(buffer [][2]float32) {
	levels := float64(int(1) << b.bits)
	for i := range buffer {
		if b.counter == 0 {
			for chn := 0; chn < 2; chn++ {
				b.hold[chn] = float32(math.Round(float64(buffer[i][chn])*levels) / levels)
			}
		}
		buffer[i] = b.hold
		b.counter++
		if b.counter >= b.downsample {
			b.counter = 0
		}
	}
}
