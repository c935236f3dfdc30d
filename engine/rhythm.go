package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/dsp"
	"github.com/jtaival/groovebox/voices"
)

// Triggerable is what the step loop needs from a voice. Keeping the trigger
// path behind this interface makes the loop generic over the track roles and
// lets tests count triggers with a stub.
type Triggerable interface {
	TriggerStep(note int, velocity float32)
}

// bassVoice is the live-MIDI path into the bass, which takes a frequency
// instead of a grid note.
type bassVoice interface {
	TriggerHz(freq float64, velocity float32)
}

// Track mix gains.
const (
	kickGain = 1.0
	bassGain = 0.7
	clapGain = 0.6
	hatGain  = 0.4
)

// RhythmEngine is the 4 track x 16 step drum machine. It owns the
// authoritative Pattern; front-ends edit it through the command queue and
// observe it through the snapshot publisher. Process is the audio callback
// entry point and is the only place the pattern is read or written after
// playback starts.
type RhythmEngine struct {
	queue  *CommandQueue
	pub    *Publisher[groovebox.Pattern]
	broker *Broker
	params *RhythmParams

	pattern groovebox.Pattern

	kick *voices.Kick
	bass *voices.Bass
	hat  *voices.Noise
	clap *voices.Noise

	triggers [groovebox.NumTracks]Triggerable
	liveBass bassVoice

	sampleRate float64

	// transport state, audio goroutine only
	lastTime        float64 // absolute sample time of the previous sample, -1 when stopped
	lastStepForLoop int
	loopCount       int
	ratchet         [groovebox.NumTracks]int
	fired           [groovebox.NumTracks]bool
	firedVel        [groovebox.NumTracks]float32

	smoothKickFreq   dsp.Smoother
	smoothBassCutoff dsp.Smoother
	smoothDrive      dsp.Smoother
	smoothSidechain  dsp.Smoother

	stutter dsp.Stutter
	sweep   dsp.SweepFilter
	crush   dsp.Bitcrush
	rng     dsp.Rand
	meter   LevelMeter

	currentStep atomic.Int32
}

func NewRhythmEngine(broker *Broker, params *RhythmParams) *RhythmEngine {
	e := &RhythmEngine{
		queue:           NewCommandQueue(groovebox.NumTracks, groovebox.NumSteps),
		broker:          broker,
		params:          params,
		pattern:         groovebox.DefaultPattern(),
		kick:            voices.NewKick(),
		bass:            voices.NewBass(),
		hat:             voices.NewHat(),
		clap:            voices.NewClap(),
		rng:             dsp.NewRand(42),
		lastTime:        -1,
		lastStepForLoop: -1,
	}
	e.triggers = [groovebox.NumTracks]Triggerable{
		groovebox.TrackKick: e.kick,
		groovebox.TrackBass: e.bass,
		groovebox.TrackHat:  e.hat,
		groovebox.TrackClap: e.clap,
	}
	e.liveBass = e.bass
	e.pub = NewPublisher(e.pattern)
	e.currentStep.Store(-1)
	return e
}

// Prepare sizes everything for the given sample rate and block size. Must be
// called before the first Process and not concurrently with it.
func (e *RhythmEngine) Prepare(sampleRate float64, blockSize int) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	e.sampleRate = sampleRate
	e.kick.Prepare(sampleRate)
	e.bass.Prepare(sampleRate)
	e.hat.Prepare(sampleRate)
	e.clap.Prepare(sampleRate)
	p := e.params.Values()
	e.smoothKickFreq.Reset(sampleRate, 0.05, p.KickFreq)
	e.smoothBassCutoff.Reset(sampleRate, 0.05, p.BassCutoff)
	e.smoothDrive.Reset(sampleRate, 0.05, p.BassDrive)
	e.smoothSidechain.Reset(sampleRate, 0.05, p.Sidechain)
	e.stutter.Prepare(sampleRate)
	e.sweep.Prepare(sampleRate)
	e.meter.Prepare(blockSize)
}

// SetPattern replaces the pattern wholesale, e.g. when loading a project.
// Not safe while Process is being called; use the command queue for live
// edits.
func (e *RhythmEngine) SetPattern(p groovebox.Pattern) {
	e.pattern = p
	e.pub.MarkDirty()
	e.pub.TryPublish(&e.pattern)
}

// Enqueue pushes an edit command, returning false if it was dropped. Called
// from the front-end goroutine.
func (e *RhythmEngine) Enqueue(cmd groovebox.Command) bool {
	return e.queue.Push(cmd)
}

// Snapshot returns a copy of the latest published pattern.
func (e *RhythmEngine) Snapshot() groovebox.Pattern {
	return e.pub.Get()
}

// CurrentStep is the playhead position, -1 when stopped.
func (e *RhythmEngine) CurrentStep() int {
	return int(e.currentStep.Load())
}

// Process renders one block, adding the drum mix into buffer. The punch-in
// effects run over the whole buffer afterwards, so the rhythm engine should
// be the first renderer in the chain.
func (e *RhythmEngine) Process(buffer groovebox.AudioBuffer, ti groovebox.TimeInfo) {
	defer func() {
		if err := recover(); err != nil {
			TrySend(e.broker.ToUI, MsgToUI{Data: &Alert{
				Name:     "RhythmPanic",
				Message:  fmt.Sprintf("rhythm engine: %v", err),
				Priority: Error,
			}})
		}
	}()
	e.queue.Drain(e.apply)

	p := e.params.Values()
	e.kick.SetDecay(float64(p.KickDecay))
	e.kick.SetClick(p.KickClick)
	e.bass.SetEnvelope(float64(p.BassAttack), float64(p.BassDecay))
	e.smoothKickFreq.SetTarget(p.KickFreq)
	e.smoothBassCutoff.SetTarget(p.BassCutoff)
	e.smoothDrive.SetTarget(p.BassDrive)
	e.smoothSidechain.SetTarget(p.Sidechain)

	bpm := ti.BPM
	if bpm <= 0 {
		bpm = 120
	}
	samplesPerStep := (60 / bpm) * e.sampleRate / 4

	if !ti.Playing && e.lastTime >= 0 {
		e.lastTime = -1
		e.loopCount = 0
		e.lastStepForLoop = -1
		e.currentStep.Store(-1)
		TrySend(e.broker.ToUI, MsgToUI{HasRhythmStep: true, RhythmStep: -1})
	}

	for s := range buffer {
		if ti.Playing {
			t := float64(ti.SamplePos + int64(s))
			stepAbs := math.Floor(t / samplesPerStep)
			if stepAbs > math.Floor(e.lastTime/samplesPerStep) {
				e.enterStep(int(stepAbs) % groovebox.NumSteps)
			}
			e.checkRatchets(int(stepAbs)%groovebox.NumSteps, t-stepAbs*samplesPerStep, samplesPerStep)
			e.lastTime = t
		}

		kFreq := e.smoothKickFreq.Next()
		bCutoff := e.smoothBassCutoff.Next()
		bDrive := e.smoothDrive.Next()
		scAmt := e.smoothSidechain.Next()

		kickOut, kEnv := e.kick.Next(kFreq)
		duck := 1 - kEnv*scAmt
		if duck < 0 {
			duck = 0
		}
		bassOut := e.bass.Next(bCutoff, bDrive, duck)
		clapOut := e.clap.Next()
		hatOut := e.hat.Next()

		out := kickOut*kickGain + bassOut*bassGain + clapOut*clapGain + hatOut*hatGain
		buffer[s][0] += out
		buffer[s][1] += out
	}

	// punch-in FX over the whole block
	if p.Stutter > 0.5 {
		if !e.stutter.Active() {
			e.stutter.Activate(dsp.DivSixteenth, bpm)
		}
		e.stutter.Process(buffer)
	} else {
		e.stutter.Deactivate()
	}
	if p.Sweep > 0.01 {
		e.sweep.SetMode(dsp.SweepHighPass)
		e.sweep.Process(buffer, p.Sweep)
	} else {
		e.sweep.SetMode(dsp.SweepOff)
	}
	if p.Bitcrush > 0.5 {
		e.crush.Set(4, 4)
		e.crush.Process(buffer)
	}

	e.pub.TryPublish(&e.pattern)
	levels := e.meter.Measure(buffer)
	TrySend(e.broker.ToUI, MsgToUI{HasLevels: true, Levels: levels})
}

func (e *RhythmEngine) apply(cmd groovebox.Command) {
	switch cmd.Type {
	case groovebox.CmdToggleStep:
		step := &e.pattern.Tracks[cmd.Track].Steps[cmd.Step]
		step.Active = !step.Active
		e.pub.MarkDirty()
	case groovebox.CmdUpdateVelocity:
		e.pattern.Tracks[cmd.Track].Steps[cmd.Step].Velocity = clamp01(cmd.Value)
		e.pub.MarkDirty()
	case groovebox.CmdUpdateProbability:
		e.pattern.Tracks[cmd.Track].Steps[cmd.Step].Probability = clamp01(cmd.Value)
		e.pub.MarkDirty()
	case groovebox.CmdSetModifier:
		e.pattern.Tracks[cmd.Track].Steps[cmd.Step].Modifier = cmd.Modifier
		e.pub.MarkDirty()
	case groovebox.CmdNoteOn:
		// live MIDI: note 36 hits the kick, anything from C3 up plays the bass
		if cmd.Note == 36 {
			e.triggers[groovebox.TrackKick].TriggerStep(cmd.Note, cmd.Value)
		}
		if cmd.Note >= 48 {
			e.liveBass.TriggerHz(groovebox.MidiNoteToHz(float64(cmd.Note)), cmd.Value)
		}
	}
}

// enterStep fires the triggers for a new step boundary.
func (e *RhythmEngine) enterStep(step int) {
	if step == 0 && e.lastStepForLoop == groovebox.NumSteps-1 {
		e.loopCount++
	}
	e.lastStepForLoop = step
	e.currentStep.Store(int32(step))
	TrySend(e.broker.ToUI, MsgToUI{HasRhythmStep: true, RhythmStep: step})

	for t := range e.pattern.Tracks {
		e.ratchet[t] = 0
		e.fired[t] = false
		st := e.pattern.Tracks[t].Steps[step]
		if !st.Active {
			continue
		}
		if !e.gatePasses(st.Modifier) {
			continue
		}
		if e.rng.Float32() > st.Probability {
			continue
		}
		e.fired[t] = true
		e.firedVel[t] = st.Velocity
		e.triggers[t].TriggerStep(e.pattern.Tracks[t].MidiNote, st.Velocity)
	}
}

// gatePasses evaluates the loop-cycle logic gates. The gate runs before the
// probability draw, so a gated-out step never consumes randomness.
func (e *RhythmEngine) gatePasses(mod groovebox.StepModifier) bool {
	switch mod {
	case groovebox.ModSkipCycle:
		return e.loopCount%2 == 0
	case groovebox.ModOnlyFirstCycle:
		return e.loopCount == 0
	}
	return true
}

// checkRatchets refires ratcheted steps on sub-step boundaries. It uses the
// same step index the main trigger loop used, and only refires steps whose
// main trigger actually happened, so gates and probability apply to the whole
// ratchet burst.
func (e *RhythmEngine) checkRatchets(step int, posInStep, samplesPerStep float64) {
	for t := range e.pattern.Tracks {
		st := e.pattern.Tracks[t].Steps[step]
		var divisions int
		switch st.Modifier {
		case groovebox.ModRatchet2:
			divisions = 2
		case groovebox.ModRatchet4:
			divisions = 4
		default:
			continue
		}
		if !st.Active || !e.fired[t] {
			continue
		}
		sub := int(posInStep / (samplesPerStep / float64(divisions)))
		// the first sub-step is the main trigger, not re-fired
		if sub > e.ratchet[t] && sub < divisions {
			e.ratchet[t] = sub
			e.triggers[t].TriggerStep(e.pattern.Tracks[t].MidiNote, e.firedVel[t])
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
