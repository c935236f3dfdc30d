package dsp

import "testing"

func TestEnvelopeAttackMonotonic(t *testing.T) {
	var e Envelope
	e.SetSampleRate(44100)
	e.SetAD(0.01, 0.1)
	e.Trigger()
	prev := float32(0)
	reached := false
	for i := 0; i < 1000; i++ {
		level := e.Next()
		if level < prev {
			t.Fatalf("attack not monotonic at sample %d: %f after %f", i, level, prev)
		}
		prev = level
		if level >= 1 {
			reached = true
			break
		}
	}
	if !reached {
		t.Errorf("attack never reached full level, stopped at %f", prev)
	}
}

func TestEnvelopeDecayToIdle(t *testing.T) {
	var e Envelope
	e.SetSampleRate(44100)
	e.SetAD(0.001, 0.05)
	e.Trigger()
	prev := float32(2)
	decaying := false
	for i := 0; i < 44100; i++ {
		level := e.Next()
		if decaying && level > prev {
			t.Fatalf("decay not monotonic at sample %d", i)
		}
		if level >= 1 {
			decaying = true
		}
		prev = level
		if decaying && !e.Active() {
			if level != 0 {
				t.Errorf("idle level should be exactly 0, got %f", level)
			}
			return
		}
	}
	t.Errorf("one-shot envelope never went idle, level %f", prev)
}

func TestEnvelopeSustainAndRelease(t *testing.T) {
	var e Envelope
	e.SetSampleRate(44100)
	e.SetADSR(0.001, 0.01, 0.5, 0.02)
	e.Trigger()
	var level float32
	for i := 0; i < 22050; i++ {
		level = e.Next()
	}
	if level < 0.49 || level > 0.51 {
		t.Fatalf("expected to be holding at sustain 0.5, got %f", level)
	}
	e.NoteOff()
	for i := 0; i < 44100 && e.Active(); i++ {
		next := e.Next()
		if next > level {
			t.Fatalf("release not monotonic: %f after %f", next, level)
		}
		level = next
	}
	if e.Active() {
		t.Errorf("envelope still active long after release, level %f", level)
	}
}

func TestEnvelopeRetrigger(t *testing.T) {
	var e Envelope
	e.SetSampleRate(44100)
	e.SetAD(0.01, 0.1)
	e.Trigger()
	for i := 0; i < 2000; i++ {
		e.Next()
	}
	e.Trigger()
	if level := e.Next(); level > 0.1 {
		t.Errorf("retrigger should restart from zero, got %f", level)
	}
}

func TestRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 1000; i++ {
		x, y := a.Noise(), b.Noise()
		if x != y {
			t.Fatalf("same seed diverged at sample %d", i)
		}
		if x < -1 || x >= 1 {
			t.Fatalf("noise %f outside [-1,1)", x)
		}
		f := a.Float32()
		b.Float32()
		if f < 0 || f >= 1 {
			t.Fatalf("float %f outside [0,1)", f)
		}
	}
}

func TestSmootherRampsToTarget(t *testing.T) {
	var s Smoother
	s.Reset(1000, 0.05, 0) // 50 samples of ramp
	s.SetTarget(1)
	var v float32
	for i := 0; i < 50; i++ {
		next := s.Next()
		if next < v {
			t.Fatalf("ramp not monotonic at sample %d", i)
		}
		v = next
	}
	if v != 1 {
		t.Errorf("expected to land exactly on the target, got %f", v)
	}
	if s.Next() != 1 {
		t.Errorf("value should hold at the target")
	}
}
