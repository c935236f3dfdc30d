package groovebox_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jtaival/groovebox"
)

func testProject() groovebox.Project {
	p := groovebox.DefaultProject()
	p.BPM = 128
	p.Pattern.Tracks[groovebox.TrackKick].Steps[3] = groovebox.Step{
		Active:      true,
		Velocity:    0.55,
		Probability: 0.75,
		Modifier:    groovebox.ModRatchet2,
	}
	p.Pattern.Tracks[groovebox.TrackHat].Steps[15].Modifier = groovebox.ModSkipCycle
	p.Phrase.RootNote = 57
	p.Phrase.ScaleName = "Dorian"
	p.Phrase.Events[13] = groovebox.NoteEvent{
		Active:      true,
		Pitch:       62.5,
		Velocity:    0.9,
		Duration:    0.5,
		Probability: 0.25,
		Modifier:    groovebox.ModGlide,
	}
	return p
}

func TestProjectRoundTripYaml(t *testing.T) {
	original := testProject()
	data, err := original.Write()
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := groovebox.ReadProject(data)
	if err != nil {
		t.Fatalf("ReadProject failed: %v", err)
	}
	if !reflect.DeepEqual(original, got) {
		t.Errorf("project did not round trip through yaml\noriginal: %#v\ngot: %#v", original, got)
	}
}

func TestProjectRoundTripJson(t *testing.T) {
	original := testProject()
	data, err := json.Marshal(&original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	got, err := groovebox.ReadProject(data)
	if err != nil {
		t.Fatalf("ReadProject failed: %v", err)
	}
	if !reflect.DeepEqual(original, got) {
		t.Errorf("project did not round trip through json\noriginal: %#v\ngot: %#v", original, got)
	}
}

func TestReadProjectGarbage(t *testing.T) {
	if _, err := groovebox.ReadProject([]byte("\x00\x01\x02 not a project")); err == nil {
		t.Errorf("expected an error for garbage input")
	}
}

func TestReadProjectDefaultsBPM(t *testing.T) {
	p, err := groovebox.ReadProject([]byte("pattern: {}\n"))
	if err != nil {
		t.Fatalf("ReadProject failed: %v", err)
	}
	if p.BPM != 120 {
		t.Errorf("missing tempo should default to 120, got %f", p.BPM)
	}
}

func TestPhraseFileStoresOnlyActiveEvents(t *testing.T) {
	var phrase groovebox.Phrase
	phrase.RootNote = 60
	phrase.ScaleName = "Minor"
	phrase.Events[2] = groovebox.NoteEvent{Active: true, Pitch: 60, Velocity: 0.8, Duration: 0.25, Probability: 1}
	data, err := json.Marshal(phrase)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var decoded struct {
		Events []struct {
			Index int `json:"index"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if len(decoded.Events) != 1 || decoded.Events[0].Index != 2 {
		t.Errorf("expected exactly one stored event with index 2, got %+v", decoded.Events)
	}
}

func TestPatternValidate(t *testing.T) {
	p := groovebox.DefaultPattern()
	if err := p.Validate(); err != nil {
		t.Errorf("default pattern should validate: %v", err)
	}
	p.Tracks[0].Steps[0].Velocity = 1.5
	if err := p.Validate(); err == nil {
		t.Errorf("out-of-range velocity should not validate")
	}
}
