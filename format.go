package groovebox

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Phrase files store only the active events, keyed by step index, so the
// marshaling goes through a compact intermediate form. Loading resets every
// step first, then fills in the listed events.
type (
	phraseEventFile struct {
		Index       int          `yaml:"index" json:"index"`
		Pitch       float32      `yaml:"pitch" json:"pitch"`
		Velocity    float32      `yaml:"velocity" json:"velocity"`
		Duration    float32      `yaml:"duration" json:"duration"`
		Probability float32      `yaml:"probability" json:"probability"`
		Modifier    StepModifier `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	}

	phraseFile struct {
		RootNote  int               `yaml:"rootNote" json:"rootNote"`
		ScaleName string            `yaml:"scaleName" json:"scaleName"`
		Events    []phraseEventFile `yaml:"events" json:"events"`
	}
)

func (p *Phrase) file() phraseFile {
	f := phraseFile{RootNote: p.RootNote, ScaleName: p.ScaleName}
	for i, e := range p.Events {
		if !e.Active {
			continue
		}
		f.Events = append(f.Events, phraseEventFile{
			Index:       i,
			Pitch:       e.Pitch,
			Velocity:    e.Velocity,
			Duration:    e.Duration,
			Probability: e.Probability,
			Modifier:    e.Modifier,
		})
	}
	return f
}

func (p *Phrase) fromFile(f phraseFile) {
	p.RootNote = f.RootNote
	p.ScaleName = f.ScaleName
	if p.ScaleName == "" {
		p.ScaleName = DefaultScale
	}
	p.Events = [NumPhraseSteps]NoteEvent{}
	for _, e := range f.Events {
		if e.Index < 0 || e.Index >= NumPhraseSteps {
			continue
		}
		p.Events[e.Index] = NoteEvent{
			Active:      true,
			Pitch:       e.Pitch,
			Velocity:    e.Velocity,
			Duration:    e.Duration,
			Probability: e.Probability,
			Modifier:    e.Modifier,
		}
	}
}

func (p Phrase) MarshalYAML() (interface{}, error) {
	return p.file(), nil
}

func (p *Phrase) UnmarshalYAML(value *yaml.Node) error {
	var f phraseFile
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("decoding phrase: %w", err)
	}
	p.fromFile(f)
	return nil
}

func (p Phrase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.file())
}

func (p *Phrase) UnmarshalJSON(data []byte) error {
	var f phraseFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding phrase: %w", err)
	}
	p.fromFile(f)
	return nil
}

// ReadProject parses a project from yaml, falling back to json. Missing
// tempo defaults to 120 BPM.
func ReadProject(data []byte) (Project, error) {
	var p Project
	errYaml := yaml.Unmarshal(data, &p)
	if errYaml != nil {
		errJSON := json.Unmarshal(data, &p)
		if errJSON != nil {
			return Project{}, fmt.Errorf("the file could not be parsed as yaml (%v) or json (%v)", errYaml, errJSON)
		}
	}
	if p.BPM <= 0 {
		p.BPM = 120
	}
	if err := p.Pattern.Validate(); err != nil {
		return Project{}, fmt.Errorf("invalid pattern: %w", err)
	}
	return p, nil
}

// Write serializes the project as yaml.
func (p *Project) Write() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling project: %w", err)
	}
	return data, nil
}
