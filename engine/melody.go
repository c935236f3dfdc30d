package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/dsp"
	"github.com/jtaival/groovebox/voices"
)

// MelodyEngine plays the 64 step phrase through the wavetable voice. Unlike
// the rhythm side it tracks position in quarter notes and splits the block
// render around the step boundary, so the note starts on its exact sample
// even though it is decided mid-block.
// melodyVoice is what the melody engine needs from its synth.
type melodyVoice interface {
	Prepare(sampleRate float64)
	SetParams(attack, decay, morph, cutoff, lfoRate, lfoDepth float64)
	NoteOn(note int, velocity float32, durationSamples int, glide bool)
	Render(buffer groovebox.AudioBuffer, from, to int)
	Active() bool
}

type MelodyEngine struct {
	queue  *CommandQueue
	pub    *Publisher[groovebox.Phrase]
	broker *Broker
	params *MelodyParams

	phrase groovebox.Phrase
	synth  melodyVoice
	rng    dsp.Rand

	sampleRate float64
	lastStep   int
	loopCount  int
	playing    bool

	currentStep atomic.Int32
}

func NewMelodyEngine(broker *Broker, params *MelodyParams) *MelodyEngine {
	e := &MelodyEngine{
		queue:    NewCommandQueue(1, groovebox.NumPhraseSteps),
		broker:   broker,
		params:   params,
		phrase:   groovebox.DefaultPhrase(),
		synth:    voices.NewWavetable(),
		rng:      dsp.NewRand(99),
		lastStep: -1,
	}
	e.pub = NewPublisher(e.phrase)
	e.currentStep.Store(-1)
	return e
}

func (e *MelodyEngine) Prepare(sampleRate float64, blockSize int) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	e.sampleRate = sampleRate
	e.synth.Prepare(sampleRate)
}

// SetPhrase replaces the phrase wholesale, e.g. when loading a project. Not
// safe while Process is being called.
func (e *MelodyEngine) SetPhrase(p groovebox.Phrase) {
	if p.ScaleName == "" {
		p.ScaleName = groovebox.DefaultScale
	}
	e.phrase = p
	e.pub.MarkDirty()
	e.pub.TryPublish(&e.phrase)
}

func (e *MelodyEngine) Enqueue(cmd groovebox.Command) bool {
	return e.queue.Push(cmd)
}

func (e *MelodyEngine) Snapshot() groovebox.Phrase {
	return e.pub.Get()
}

func (e *MelodyEngine) CurrentStep() int {
	return int(e.currentStep.Load())
}

// Process renders one block, adding the synth into buffer.
func (e *MelodyEngine) Process(buffer groovebox.AudioBuffer, ti groovebox.TimeInfo) {
	defer func() {
		if err := recover(); err != nil {
			TrySend(e.broker.ToUI, MsgToUI{Data: &Alert{
				Name:     "MelodyPanic",
				Message:  fmt.Sprintf("melody engine: %v", err),
				Priority: Error,
			}})
		}
	}()
	e.queue.Drain(e.apply)

	p := e.params.Values()
	e.synth.SetParams(float64(p.Attack), float64(p.Decay), float64(p.Morph),
		float64(p.Cutoff), float64(p.LFORate), float64(p.LFODepth))

	if !ti.Playing || ti.BPM <= 0 {
		if e.playing {
			e.playing = false
			e.lastStep = -1
			e.loopCount = 0
			e.currentStep.Store(-1)
			TrySend(e.broker.ToUI, MsgToUI{HasMelodyStep: true, MelodyStep: -1})
		}
		// keep rendering so release tails ring out
		e.synth.Render(buffer, 0, len(buffer))
		e.pub.TryPublish(&e.phrase)
		return
	}
	e.playing = true

	// position in 16th-note steps; one step is a quarter of a quarter note
	currentSteps := ti.PPQ * 4
	stepIdx := int(math.Floor(currentSteps)) % groovebox.NumPhraseSteps
	samplesPerBeat := e.sampleRate * 60 / ti.BPM
	nextStepPPQ := math.Ceil(currentSteps) / 4
	samplesToNext := int((nextStepPPQ - ti.PPQ) * samplesPerBeat)

	if samplesToNext >= 0 && samplesToNext < len(buffer) {
		e.synth.Render(buffer, 0, samplesToNext)
		next := (stepIdx + 1) % groovebox.NumPhraseSteps
		if next == 0 && e.lastStep == groovebox.NumPhraseSteps-1 {
			e.loopCount++
		}
		e.lastStep = next
		e.trigger(next, ti.BPM)
		e.currentStep.Store(int32(next))
		TrySend(e.broker.ToUI, MsgToUI{HasMelodyStep: true, MelodyStep: next})
		e.synth.Render(buffer, samplesToNext, len(buffer))
	} else {
		e.currentStep.Store(int32(stepIdx))
		e.synth.Render(buffer, 0, len(buffer))
	}

	e.pub.TryPublish(&e.phrase)
}

func (e *MelodyEngine) trigger(step int, bpm float64) {
	ev := e.phrase.Events[step]
	if !ev.Active {
		return
	}
	switch ev.Modifier {
	case groovebox.ModSkipCycle:
		if e.loopCount%2 != 0 {
			return
		}
	case groovebox.ModOnlyFirstCycle:
		if e.loopCount != 0 {
			return
		}
	}
	if e.rng.Float32() > ev.Probability {
		return
	}
	note := groovebox.QuantizeToScale(int(ev.Pitch), e.phrase.RootNote, e.phrase.ScaleName)
	duration := int(float64(ev.Duration) * 60 / bpm * e.sampleRate)
	e.synth.NoteOn(note, ev.Velocity, duration, ev.Modifier == groovebox.ModGlide)
}

func (e *MelodyEngine) apply(cmd groovebox.Command) {
	switch cmd.Type {
	case groovebox.CmdSetEvent:
		e.phrase.Events[cmd.Step] = cmd.Event
		e.pub.MarkDirty()
	case groovebox.CmdSetRoot:
		if cmd.Note >= 0 && cmd.Note <= 127 {
			e.phrase.RootNote = cmd.Note
			e.pub.MarkDirty()
		}
	case groovebox.CmdSetScale:
		e.phrase.ScaleName = cmd.Scale
		e.pub.MarkDirty()
	}
}
