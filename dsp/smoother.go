package dsp

// Smoother ramps a control value linearly to its target over a fixed time,
// removing zipper noise from parameter changes. Reset configures the ramp
// length and snaps to the value; SetTarget starts a new ramp from the current
// value.
type Smoother struct {
	current   float32
	target    float32
	step      float32
	remaining int
	rampLen   int
}

func (s *Smoother) Reset(sampleRate, rampSeconds float64, value float32) {
	s.rampLen = int(rampSeconds * sampleRate)
	if s.rampLen < 1 {
		s.rampLen = 1
	}
	s.current = value
	s.target = value
	s.remaining = 0
}

func (s *Smoother) SetTarget(value float32) {
	if value == s.target {
		return
	}
	s.target = value
	s.step = (value - s.current) / float32(s.rampLen)
	s.remaining = s.rampLen
}

// Snap jumps straight to the value without ramping.
func (s *Smoother) Snap(value float32) {
	s.current = value
	s.target = value
	s.remaining = 0
}

func (s *Smoother) Next() float32 {
	if s.remaining > 0 {
		s.current += s.step
		s.remaining--
		if s.remaining == 0 {
			s.current = s.target
		}
	}
	return s.current
}

func (s *Smoother) Value() float32 { return s.current }
