package groovebox

// DefaultPattern is a basic four-on-the-floor house pattern: kick on the
// quarters, clap on 2 and 4, hats and bass on the offbeats.
func DefaultPattern() Pattern {
	var p Pattern
	p.Tracks[TrackKick] = Track{Name: "Kick", MidiNote: 36}
	p.Tracks[TrackBass] = Track{Name: "Bass", MidiNote: 36}
	p.Tracks[TrackHat] = Track{Name: "Hat", MidiNote: 42}
	p.Tracks[TrackClap] = Track{Name: "Clap", MidiNote: 38}
	for t := range p.Tracks {
		for s := range p.Tracks[t].Steps {
			p.Tracks[t].Steps[s] = Step{Velocity: 0.8, Probability: 1}
		}
	}
	activate := func(track TrackID, steps ...int) {
		for _, s := range steps {
			p.Tracks[track].Steps[s].Active = true
		}
	}
	activate(TrackKick, 0, 4, 8, 12)
	activate(TrackBass, 2, 6, 10, 14)
	activate(TrackHat, 2, 6, 10, 14)
	activate(TrackClap, 4, 12)
	return p
}

// DefaultPhrase is a minor triad arpeggio over middle C, one note on every
// even step.
func DefaultPhrase() Phrase {
	p := Phrase{RootNote: 60, ScaleName: DefaultScale}
	triad := [4]int{0, 3, 7, 12}
	for i := 0; i < NumPhraseSteps; i += 2 {
		p.Events[i] = NoteEvent{
			Active:      true,
			Pitch:       float32(60 + triad[(i/2)%4]),
			Velocity:    0.8,
			Duration:    0.25,
			Probability: 1,
		}
	}
	return p
}

func DefaultProject() Project {
	return Project{
		BPM:     120,
		Pattern: DefaultPattern(),
		Phrase:  DefaultPhrase(),
	}
}
