package engine

import (
	"testing"

	"github.com/jtaival/groovebox"
)

type countingVoice struct {
	notes []int
	vels  []float32
}

func (c *countingVoice) TriggerStep(note int, velocity float32) {
	c.notes = append(c.notes, note)
	c.vels = append(c.vels, velocity)
}

func newTestRhythm(t *testing.T) *RhythmEngine {
	t.Helper()
	e := NewRhythmEngine(NewBroker(), NewRhythmParams())
	e.Prepare(48000, 512)
	return e
}

// playBars runs the engine through whole bars at 120 bpm and 48 kHz, where one
// 16th step is exactly 6000 samples.
func playBars(e *RhythmEngine, bars int) {
	const blockSize = 500
	total := bars * groovebox.NumSteps * 6000
	buffer := make(groovebox.AudioBuffer, blockSize)
	for pos := 0; pos < total; pos += blockSize {
		buffer.Zero()
		e.Process(buffer, groovebox.TimeInfo{Playing: true, BPM: 120, SamplePos: int64(pos)})
	}
}

// singleStepPattern has one active kick step and nothing else.
func singleStepPattern(step int, velocity, probability float32, mod groovebox.StepModifier) groovebox.Pattern {
	var p groovebox.Pattern
	p.Tracks[groovebox.TrackKick].MidiNote = 36
	p.Tracks[groovebox.TrackKick].Steps[step] = groovebox.Step{
		Active:      true,
		Velocity:    velocity,
		Probability: probability,
		Modifier:    mod,
	}
	return p
}

func TestFourOnTheFloor(t *testing.T) {
	e := newTestRhythm(t)
	stub := &countingVoice{}
	e.triggers[groovebox.TrackKick] = stub
	playBars(e, 1)
	if len(stub.notes) != 4 {
		t.Fatalf("expected 4 kick triggers in one bar, got %d", len(stub.notes))
	}
	for i, note := range stub.notes {
		if note != 36 {
			t.Errorf("trigger %d: expected note 36, got %d", i, note)
		}
		if stub.vels[i] != 0.8 {
			t.Errorf("trigger %d: expected velocity 0.8, got %f", i, stub.vels[i])
		}
	}
}

func TestRatchetSubdivisions(t *testing.T) {
	for _, tc := range []struct {
		mod  groovebox.StepModifier
		want int
	}{
		{groovebox.ModRatchet2, 2},
		{groovebox.ModRatchet4, 4},
	} {
		t.Run(tc.mod.String(), func(t *testing.T) {
			e := newTestRhythm(t)
			e.SetPattern(singleStepPattern(0, 0.7, 1, tc.mod))
			stub := &countingVoice{}
			e.triggers[groovebox.TrackKick] = stub
			// exactly one step of audio
			buffer := make(groovebox.AudioBuffer, 500)
			for pos := 0; pos < 6000; pos += len(buffer) {
				buffer.Zero()
				e.Process(buffer, groovebox.TimeInfo{Playing: true, BPM: 120, SamplePos: int64(pos)})
			}
			if len(stub.notes) != tc.want {
				t.Fatalf("expected %d triggers, got %d", tc.want, len(stub.notes))
			}
			for i, v := range stub.vels {
				if v != 0.7 {
					t.Errorf("refire %d should reuse the step velocity, got %f", i, v)
				}
			}
		})
	}
}

func TestSkipCycleFiresAlternateBars(t *testing.T) {
	e := newTestRhythm(t)
	e.SetPattern(singleStepPattern(0, 0.8, 1, groovebox.ModSkipCycle))
	stub := &countingVoice{}
	e.triggers[groovebox.TrackKick] = stub
	playBars(e, 4)
	if len(stub.notes) != 2 {
		t.Errorf("expected triggers on bars 1 and 3 only, got %d", len(stub.notes))
	}
}

func TestOnlyFirstCycleFiresOnce(t *testing.T) {
	e := newTestRhythm(t)
	e.SetPattern(singleStepPattern(0, 0.8, 1, groovebox.ModOnlyFirstCycle))
	stub := &countingVoice{}
	e.triggers[groovebox.TrackKick] = stub
	playBars(e, 4)
	if len(stub.notes) != 1 {
		t.Errorf("expected a single trigger on the first bar, got %d", len(stub.notes))
	}
}

func TestZeroProbabilityNeverFires(t *testing.T) {
	e := newTestRhythm(t)
	e.SetPattern(singleStepPattern(0, 0.8, 0, groovebox.ModRatchet4))
	stub := &countingVoice{}
	e.triggers[groovebox.TrackKick] = stub
	playBars(e, 4)
	if len(stub.notes) != 0 {
		t.Errorf("probability 0 fired %d times", len(stub.notes))
	}
}

func TestEditCommandsThroughQueue(t *testing.T) {
	e := newTestRhythm(t)
	e.Enqueue(groovebox.Command{Type: groovebox.CmdToggleStep, Track: int(groovebox.TrackKick), Step: 1})
	e.Enqueue(groovebox.Command{Type: groovebox.CmdUpdateVelocity, Track: int(groovebox.TrackKick), Step: 1, Value: 1.5})
	e.Enqueue(groovebox.Command{Type: groovebox.CmdUpdateProbability, Track: int(groovebox.TrackKick), Step: 1, Value: -0.5})
	e.Enqueue(groovebox.Command{Type: groovebox.CmdSetModifier, Track: int(groovebox.TrackKick), Step: 1, Modifier: groovebox.ModGlide})
	buffer := make(groovebox.AudioBuffer, 64)
	e.Process(buffer, groovebox.TimeInfo{})
	step := e.Snapshot().Tracks[groovebox.TrackKick].Steps[1]
	if !step.Active {
		t.Errorf("toggle should have activated the step")
	}
	if step.Velocity != 1 {
		t.Errorf("velocity should clamp to 1, got %f", step.Velocity)
	}
	if step.Probability != 0 {
		t.Errorf("probability should clamp to 0, got %f", step.Probability)
	}
	if step.Modifier != groovebox.ModGlide {
		t.Errorf("modifier not applied, got %v", step.Modifier)
	}
	// toggling again flips it back off
	e.Enqueue(groovebox.Command{Type: groovebox.CmdToggleStep, Track: int(groovebox.TrackKick), Step: 1})
	e.Process(buffer, groovebox.TimeInfo{})
	if e.Snapshot().Tracks[groovebox.TrackKick].Steps[1].Active {
		t.Errorf("second toggle should have deactivated the step")
	}
}

func TestStopResetsPlayhead(t *testing.T) {
	e := newTestRhythm(t)
	stub := &countingVoice{}
	e.triggers[groovebox.TrackKick] = stub
	buffer := make(groovebox.AudioBuffer, 512)
	e.Process(buffer, groovebox.TimeInfo{Playing: true, BPM: 120, SamplePos: 0})
	if e.CurrentStep() != 0 {
		t.Fatalf("expected playhead on step 0, got %d", e.CurrentStep())
	}
	if len(stub.notes) != 1 {
		t.Fatalf("expected the downbeat to fire immediately, got %d triggers", len(stub.notes))
	}
	buffer.Zero()
	e.Process(buffer, groovebox.TimeInfo{})
	if e.CurrentStep() != -1 {
		t.Errorf("stopped playhead should read -1, got %d", e.CurrentStep())
	}
	// restarting from zero fires the downbeat again
	buffer.Zero()
	e.Process(buffer, groovebox.TimeInfo{Playing: true, BPM: 120, SamplePos: 0})
	if len(stub.notes) != 2 {
		t.Errorf("expected a fresh downbeat after restart, got %d triggers", len(stub.notes))
	}
}

type recordingBass struct {
	freqs []float64
	vels  []float32
}

func (b *recordingBass) TriggerHz(freq float64, velocity float32) {
	b.freqs = append(b.freqs, freq)
	b.vels = append(b.vels, velocity)
}

func TestLiveNoteRouting(t *testing.T) {
	e := newTestRhythm(t)
	kick := &countingVoice{}
	bass := &recordingBass{}
	e.triggers[groovebox.TrackKick] = kick
	e.liveBass = bass
	e.Enqueue(groovebox.Command{Type: groovebox.CmdNoteOn, Note: 36, Value: 1})
	e.Enqueue(groovebox.Command{Type: groovebox.CmdNoteOn, Note: 60, Value: 0.5})
	e.Enqueue(groovebox.Command{Type: groovebox.CmdNoteOn, Note: 40, Value: 1}) // unmapped
	buffer := make(groovebox.AudioBuffer, 64)
	e.Process(buffer, groovebox.TimeInfo{})
	if len(kick.notes) != 1 || kick.notes[0] != 36 || kick.vels[0] != 1 {
		t.Errorf("note 36 should hit the kick once, got %v %v", kick.notes, kick.vels)
	}
	if len(bass.freqs) != 1 {
		t.Fatalf("expected one bass note, got %d", len(bass.freqs))
	}
	if want := groovebox.MidiNoteToHz(60); bass.freqs[0] != want {
		t.Errorf("note 60 should reach the bass as %f Hz, got %f", want, bass.freqs[0])
	}
	if bass.vels[0] != 0.5 {
		t.Errorf("expected bass velocity 0.5, got %f", bass.vels[0])
	}
}

func TestProcessRecoversFromPanic(t *testing.T) {
	broker := NewBroker()
	e := NewRhythmEngine(broker, NewRhythmParams())
	e.Prepare(48000, 512)
	e.triggers[groovebox.TrackKick] = panickingVoice{}
	buffer := make(groovebox.AudioBuffer, 512)
	e.Process(buffer, groovebox.TimeInfo{Playing: true, BPM: 120, SamplePos: 0})
	for {
		select {
		case msg := <-broker.ToUI:
			alert, ok := msg.Data.(*Alert)
			if !ok {
				continue // playhead or level traffic
			}
			if alert.Priority != Error {
				t.Errorf("expected error priority, got %v", alert.Priority)
			}
			return
		default:
			t.Fatalf("expected an alert on the broker channel")
		}
	}
}

type panickingVoice struct{}

func (panickingVoice) TriggerStep(int, float32) { panic("boom") }
