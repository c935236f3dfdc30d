package groovebox

import (
	"errors"
	"fmt"
	"math"
)

// Grid dimensions. The rhythm side is a 4 track x 16 step drum grid, the
// melody side a single 64 step phrase. These are fixed so that all sequencer
// state lives in fixed-size arrays and the audio goroutine never allocates.
const (
	NumTracks      = 4
	NumSteps       = 16
	NumPhraseSteps = 64
)

// TrackID enumerates the rhythm tracks in their fixed order.
type TrackID int

const (
	TrackKick TrackID = iota
	TrackBass
	TrackHat
	TrackClap
)

func (t TrackID) String() string {
	switch t {
	case TrackKick:
		return "Kick"
	case TrackBass:
		return "Bass"
	case TrackHat:
		return "Hat"
	case TrackClap:
		return "Clap"
	}
	return fmt.Sprintf("Track%d", int(t))
}

// StepModifier alters how a step fires: ratchets subdivide the step into
// retriggers, Glide makes a melodic step legato, and the cycle modifiers gate
// the step based on the pattern loop count.
type StepModifier int

const (
	ModNone StepModifier = iota
	ModRatchet2
	ModRatchet4
	ModGlide
	ModSkipCycle
	ModOnlyFirstCycle
	numModifiers
)

func (m StepModifier) String() string {
	switch m {
	case ModNone:
		return "None"
	case ModRatchet2:
		return "Ratchet2"
	case ModRatchet4:
		return "Ratchet4"
	case ModGlide:
		return "Glide"
	case ModSkipCycle:
		return "SkipCycle"
	case ModOnlyFirstCycle:
		return "OnlyFirstCycle"
	}
	return fmt.Sprintf("StepModifier(%d)", int(m))
}

// Next cycles to the following modifier, wrapping back to ModNone. Used by
// front-ends to step through the modifier list on a key press.
func (m StepModifier) Next() StepModifier {
	return (m + 1) % numModifiers
}

type (
	// Step is one cell of the rhythm grid.
	Step struct {
		Active      bool         `yaml:"active" json:"active"`
		Velocity    float32      `yaml:"velocity" json:"velocity"`
		Probability float32      `yaml:"probability" json:"probability"`
		Modifier    StepModifier `yaml:"modifier" json:"modifier"`
	}

	// Track is one row of the rhythm grid. MidiNote is the note the track
	// responds to when triggered over MIDI.
	Track struct {
		Name     string         `yaml:"name" json:"name"`
		MidiNote int            `yaml:"midiNote" json:"midiNote"`
		Steps    [NumSteps]Step `yaml:"steps" json:"steps"`
	}

	// Pattern is the whole rhythm grid.
	Pattern struct {
		Tracks [NumTracks]Track `yaml:"tracks" json:"tracks"`
	}

	// NoteEvent is one step of the melodic phrase. Pitch is a raw MIDI note
	// before scale quantization; Duration is in beats.
	NoteEvent struct {
		Active      bool         `yaml:"active" json:"active"`
		Pitch       float32      `yaml:"pitch" json:"pitch"`
		Velocity    float32      `yaml:"velocity" json:"velocity"`
		Duration    float32      `yaml:"duration" json:"duration"`
		Probability float32      `yaml:"probability" json:"probability"`
		Modifier    StepModifier `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	}

	// Phrase is the 64 step melodic sequence. Pitches are quantized to the
	// scale at trigger time, so RootNote and ScaleName changes take effect on
	// the next step.
	Phrase struct {
		RootNote  int
		ScaleName string
		Events    [NumPhraseSteps]NoteEvent
	}

	// Project bundles everything one session edits, for save/load.
	Project struct {
		BPM     float64 `yaml:"bpm" json:"bpm"`
		Pattern Pattern `yaml:"pattern" json:"pattern"`
		Phrase  Phrase  `yaml:"phrase" json:"phrase"`
	}
)

var (
	ErrTrackOutOfRange = errors.New("track index out of range")
	ErrStepOutOfRange  = errors.New("step index out of range")
)

// ValidIndex reports whether (track, step) addresses a cell of the grid.
func (p *Pattern) ValidIndex(track, step int) bool {
	return track >= 0 && track < NumTracks && step >= 0 && step < NumSteps
}

func (p *Pattern) Validate() error {
	for t := range p.Tracks {
		for s, step := range p.Tracks[t].Steps {
			if step.Velocity < 0 || step.Velocity > 1 {
				return fmt.Errorf("track %d step %d: velocity %f not in [0,1]", t, s, step.Velocity)
			}
			if step.Probability < 0 || step.Probability > 1 {
				return fmt.Errorf("track %d step %d: probability %f not in [0,1]", t, s, step.Probability)
			}
		}
	}
	return nil
}

// Copy returns a deep copy. The arrays are values so plain assignment copies
// them; the method exists to keep call sites explicit about the copy.
func (p *Pattern) Copy() Pattern { return *p }

func (p *Phrase) Copy() Phrase { return *p }

// MidiNoteToHz converts a MIDI note number to a frequency, A4 = 69 = 440 Hz.
func MidiNoteToHz(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}
