package dsp

import (
	"math"
	"testing"
)

func TestStutterLoopsCapturedAudio(t *testing.T) {
	var s Stutter
	s.Prepare(48000)
	s.Activate(DivSixteenth, 120)
	// a sixteenth at 120 BPM and 48 kHz is 6000 samples
	const loopLen = 6000
	input := make([][2]float32, 2*loopLen)
	for i := range input {
		input[i] = [2]float32{float32(i), -float32(i)}
	}
	buffer := make([][2]float32, len(input))
	copy(buffer, input)
	s.Process(buffer)
	for i := 0; i < loopLen; i++ {
		if buffer[i] != input[i] {
			t.Fatalf("capture phase should pass input through, sample %d changed", i)
		}
	}
	for i := 0; i < loopLen; i++ {
		if buffer[loopLen+i] != input[i] {
			t.Fatalf("loop phase should replay the captured slice, sample %d got %v want %v",
				loopLen+i, buffer[loopLen+i], input[i])
		}
	}
	if !s.Active() {
		t.Errorf("stutter should still be active")
	}
	s.Deactivate()
	if s.Active() {
		t.Errorf("stutter should be inactive after release")
	}
}

func TestStutterActivateWhileRunningIsNoop(t *testing.T) {
	var s Stutter
	s.Prepare(48000)
	s.Activate(DivSixteenth, 120)
	s.Activate(DivQuarter, 120)
	if s.loopLen != 6000 {
		t.Errorf("re-activation changed the loop length to %d", s.loopLen)
	}
}

func TestSweepHighPassRemovesDC(t *testing.T) {
	var f SweepFilter
	f.Prepare(44100)
	f.SetMode(SweepHighPass)
	buffer := make([][2]float32, 4096)
	for i := range buffer {
		buffer[i] = [2]float32{1, 1}
	}
	f.Process(buffer, 1)
	last := buffer[len(buffer)-1][0]
	if float64(last) > 0.1 {
		t.Errorf("a fully swept highpass should kill DC, last sample still %f", last)
	}
}

func TestSweepOffIsPassThrough(t *testing.T) {
	var f SweepFilter
	f.Prepare(44100)
	buffer := [][2]float32{{0.5, -0.5}, {0.25, 0.75}}
	f.Process(buffer, 1)
	if buffer[0] != [2]float32{0.5, -0.5} || buffer[1] != [2]float32{0.25, 0.75} {
		t.Errorf("off mode should not touch the signal")
	}
}

func TestBitcrushQuantizes(t *testing.T) {
	var b Bitcrush
	b.Set(2, 1)
	buffer := [][2]float32{{0.3, -0.3}, {0.9, 0.1}}
	b.Process(buffer)
	for i, want := range [][2]float32{{0.25, -0.25}, {1, 0}} {
		if buffer[i] != want {
			t.Errorf("sample %d: got %v, want %v", i, buffer[i], want)
		}
	}
}

func TestBitcrushDownsampleHolds(t *testing.T) {
	var b Bitcrush
	b.Set(8, 4)
	buffer := make([][2]float32, 8)
	for i := range buffer {
		buffer[i] = [2]float32{float32(i) / 8, 0}
	}
	b.Process(buffer)
	for i := 1; i < 4; i++ {
		if buffer[i] != buffer[0] {
			t.Errorf("sample %d should hold the value of sample 0", i)
		}
	}
	if buffer[4] == buffer[0] {
		t.Errorf("sample 4 should start a new hold period")
	}
}

func TestOnePoleConvergesToInput(t *testing.T) {
	var f OnePole
	var out float32
	for i := 0; i < 10000; i++ {
		out = f.LowPass(1, 1000, 44100)
	}
	if math.Abs(float64(out)-1) > 1e-3 {
		t.Errorf("lowpass should converge to a DC input, got %f", out)
	}
}

func TestSoftClipBounded(t *testing.T) {
	for _, x := range []float32{-100, -1, -0.1, 0, 0.1, 1, 100} {
		y := SoftClip(x)
		if y <= -1 || y >= 1 {
			t.Errorf("softClip(%f) = %f escaped (-1,1)", x, y)
		}
		if (x > 0) != (y > 0) && x != 0 {
			t.Errorf("softClip(%f) = %f changed sign", x, y)
		}
	}
}
