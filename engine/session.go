package engine

import "github.com/jtaival/groovebox"

// Session wires a transport, both engines and their parameters together
// behind a single Render callback, which is what the audio output pulls on.
// The rhythm engine runs first so its punch-in effects only chew on the drum
// mix, then the melody synth is layered on top.
type Session struct {
	Broker       *Broker
	Transport    *Transport
	Rhythm       *RhythmEngine
	Melody       *MelodyEngine
	RhythmParams *RhythmParams
	MelodyParams *MelodyParams
}

func NewSession(sampleRate float64, blockSize int, project groovebox.Project) *Session {
	broker := NewBroker()
	rp := NewRhythmParams()
	mp := NewMelodyParams()
	s := &Session{
		Broker:       broker,
		Transport:    NewTransport(sampleRate, project.BPM),
		Rhythm:       NewRhythmEngine(broker, rp),
		Melody:       NewMelodyEngine(broker, mp),
		RhythmParams: rp,
		MelodyParams: mp,
	}
	s.Rhythm.Prepare(sampleRate, blockSize)
	s.Melody.Prepare(sampleRate, blockSize)
	s.Rhythm.SetPattern(project.Pattern)
	s.Melody.SetPhrase(project.Phrase)
	return s
}

// Render produces one block into buffer. The buffer is expected to be zeroed
// by the caller.
func (s *Session) Render(buffer groovebox.AudioBuffer) {
	ti := s.Transport.Next(len(buffer))
	s.Rhythm.Process(buffer, ti)
	s.Melody.Process(buffer, ti)
}

// Project captures the current editable state for saving.
func (s *Session) Project() groovebox.Project {
	return groovebox.Project{
		BPM:     s.Transport.BPM(),
		Pattern: s.Rhythm.Snapshot(),
		Phrase:  s.Melody.Snapshot(),
	}
}
