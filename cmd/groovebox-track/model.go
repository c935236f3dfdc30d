package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/engine"
)

type focusArea int

const (
	focusRhythm focusArea = iota
	focusMelody
)

type model struct {
	session  *engine.Session
	filename string

	pattern    groovebox.Pattern
	phrase     groovebox.Phrase
	rhythmStep int
	melodyStep int
	levels     engine.LevelResult

	focus      focusArea
	track      int
	step       int
	phraseStep int

	status   string
	quitting bool
}

type (
	engineMsg  engine.MsgToUI
	refreshMsg struct{}
)

func newModel(session *engine.Session, filename string) model {
	return model{
		session:    session,
		filename:   filename,
		pattern:    session.Rhythm.Snapshot(),
		phrase:     session.Melody.Snapshot(),
		rhythmStep: -1,
		melodyStep: -1,
	}
}

func listenEngine(b *engine.Broker) tea.Cmd {
	return func() tea.Msg {
		return engineMsg(<-b.ToUI)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listenEngine(m.session.Broker), refreshTick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engineMsg:
		if msg.HasRhythmStep {
			m.rhythmStep = msg.RhythmStep
		}
		if msg.HasMelodyStep {
			m.melodyStep = msg.MelodyStep
		}
		if msg.HasLevels {
			m.levels = msg.Levels
		}
		if alert, ok := msg.Data.(*engine.Alert); ok {
			m.status = alert.Message
		}
		return m, listenEngine(m.session.Broker)

	case refreshMsg:
		m.pattern = m.session.Rhythm.Snapshot()
		m.phrase = m.session.Melody.Snapshot()
		return m, refreshTick()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.session.Transport.Stop()
		return m, tea.Quit

	case "tab":
		if m.focus == focusRhythm {
			m.focus = focusMelody
		} else {
			m.focus = focusRhythm
		}

	case "p":
		m.session.Transport.Toggle()

	case "+", "=":
		m.session.Transport.SetBPM(m.session.Transport.BPM() + 5)
	case "-", "_":
		m.session.Transport.SetBPM(m.session.Transport.BPM() - 5)

	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		if m.focus == focusRhythm {
			m.track = (m.track + groovebox.NumTracks - 1) % groovebox.NumTracks
		} else {
			m.adjustPitch(1)
		}
	case "down", "j":
		if m.focus == focusRhythm {
			m.track = (m.track + 1) % groovebox.NumTracks
		} else {
			m.adjustPitch(-1)
		}

	case " ":
		m.toggle()

	case "v":
		m.adjustVelocity(0.1)
	case "V":
		m.adjustVelocity(-0.1)
	case ".":
		m.adjustProbability(0.1)
	case ",":
		m.adjustProbability(-0.1)
	case "m":
		m.cycleModifier()

	case "s":
		m.toggleFX(&m.session.RhythmParams.Stutter, 1)
	case "f":
		m.toggleFX(&m.session.RhythmParams.Sweep, 0.7)
	case "b":
		m.toggleFX(&m.session.RhythmParams.Bitcrush, 1)

	case "r":
		m.setRoot(m.phrase.RootNote + 1)
	case "R":
		m.setRoot(m.phrase.RootNote - 1)
	case "n":
		m.nextScale()

	case "w":
		m.save()
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	if m.focus == focusRhythm {
		m.step = (m.step + delta + groovebox.NumSteps) % groovebox.NumSteps
	} else {
		m.phraseStep = (m.phraseStep + delta + groovebox.NumPhraseSteps) % groovebox.NumPhraseSteps
	}
}

func (m *model) toggle() {
	if m.focus == focusRhythm {
		m.pattern.Tracks[m.track].Steps[m.step].Active = !m.pattern.Tracks[m.track].Steps[m.step].Active
		m.session.Rhythm.Enqueue(groovebox.Command{
			Type:  groovebox.CmdToggleStep,
			Track: m.track,
			Step:  m.step,
		})
		return
	}
	ev := m.phrase.Events[m.phraseStep]
	ev.Active = !ev.Active
	if ev.Active && ev.Pitch == 0 {
		ev.Pitch = float32(m.phrase.RootNote)
		ev.Velocity = 0.8
		ev.Duration = 0.25
		ev.Probability = 1
	}
	m.setEvent(ev)
}

func (m *model) setEvent(ev groovebox.NoteEvent) {
	m.phrase.Events[m.phraseStep] = ev
	m.session.Melody.Enqueue(groovebox.Command{
		Type:  groovebox.CmdSetEvent,
		Step:  m.phraseStep,
		Event: ev,
	})
}

func (m *model) adjustPitch(delta int) {
	ev := m.phrase.Events[m.phraseStep]
	if !ev.Active {
		return
	}
	ev.Pitch += float32(delta)
	if ev.Pitch < 0 {
		ev.Pitch = 0
	} else if ev.Pitch > 127 {
		ev.Pitch = 127
	}
	m.setEvent(ev)
}

func (m *model) adjustVelocity(delta float32) {
	if m.focus == focusMelody {
		ev := m.phrase.Events[m.phraseStep]
		if !ev.Active {
			return
		}
		ev.Velocity = clamp01(ev.Velocity + delta)
		m.setEvent(ev)
		return
	}
	v := clamp01(m.pattern.Tracks[m.track].Steps[m.step].Velocity + delta)
	m.pattern.Tracks[m.track].Steps[m.step].Velocity = v
	m.session.Rhythm.Enqueue(groovebox.Command{
		Type:  groovebox.CmdUpdateVelocity,
		Track: m.track,
		Step:  m.step,
		Value: v,
	})
}

func (m *model) adjustProbability(delta float32) {
	if m.focus == focusMelody {
		ev := m.phrase.Events[m.phraseStep]
		if !ev.Active {
			return
		}
		ev.Probability = clamp01(ev.Probability + delta)
		m.setEvent(ev)
		return
	}
	v := clamp01(m.pattern.Tracks[m.track].Steps[m.step].Probability + delta)
	m.pattern.Tracks[m.track].Steps[m.step].Probability = v
	m.session.Rhythm.Enqueue(groovebox.Command{
		Type:  groovebox.CmdUpdateProbability,
		Track: m.track,
		Step:  m.step,
		Value: v,
	})
}

func (m *model) cycleModifier() {
	if m.focus == focusMelody {
		ev := m.phrase.Events[m.phraseStep]
		if !ev.Active {
			return
		}
		ev.Modifier = ev.Modifier.Next()
		m.setEvent(ev)
		return
	}
	mod := m.pattern.Tracks[m.track].Steps[m.step].Modifier.Next()
	m.pattern.Tracks[m.track].Steps[m.step].Modifier = mod
	m.session.Rhythm.Enqueue(groovebox.Command{
		Type:     groovebox.CmdSetModifier,
		Track:    m.track,
		Step:     m.step,
		Modifier: mod,
	})
}

func (m *model) toggleFX(param *engine.AtomicFloat, on float32) {
	if param.Load() > 0 {
		param.Store(0)
	} else {
		param.Store(on)
	}
}

func (m *model) setRoot(root int) {
	if root < 0 || root > 127 {
		return
	}
	m.phrase.RootNote = root
	m.session.Melody.Enqueue(groovebox.Command{Type: groovebox.CmdSetRoot, Note: root})
}

func (m *model) nextScale() {
	next := groovebox.ScaleNames[0]
	for i, name := range groovebox.ScaleNames {
		if name == m.phrase.ScaleName {
			next = groovebox.ScaleNames[(i+1)%len(groovebox.ScaleNames)]
			break
		}
	}
	m.phrase.ScaleName = next
	m.session.Melody.Enqueue(groovebox.Command{Type: groovebox.CmdSetScale, Scale: next})
}

func (m *model) save() {
	if m.filename == "" {
		m.filename = "project.yml"
	}
	project := m.session.Project()
	project.BPM = m.session.Transport.BPM()
	data, err := project.Write()
	if err != nil {
		m.status = err.Error()
		return
	}
	if err := os.WriteFile(m.filename, data, 0644); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + m.filename
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

var (
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	playheadStyle = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("229"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n int) string {
	return fmt.Sprintf("%s%d", noteNames[((n%12)+12)%12], n/12-1)
}

func modifierLabel(mod groovebox.StepModifier) string {
	switch mod {
	case groovebox.ModRatchet2:
		return "r2"
	case groovebox.ModRatchet4:
		return "r4"
	case groovebox.ModGlide:
		return "gl"
	case groovebox.ModSkipCycle:
		return "sk"
	case groovebox.ModOnlyFirstCycle:
		return "o1"
	}
	return "##"
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var out strings.Builder

	playState := "STOP"
	if m.session.Transport.Playing() {
		playState = "PLAY"
	}
	stepLabel := "--"
	if m.rhythmStep >= 0 {
		stepLabel = fmt.Sprintf("%02d", m.rhythmStep)
	}
	header := accentStyle.Render(fmt.Sprintf("groovebox  %s  %3.0fbpm  step:%s  %s",
		playState, m.session.Transport.BPM(), stepLabel, levelBar(m.levels.Peak)))
	out.WriteString("\n" + header + "\n\n")

	out.WriteString(m.rhythmView())
	out.WriteString("\n")
	out.WriteString(m.melodyView())
	out.WriteString("\n")

	help := dimStyle.Render("space:toggle  hjkl:move  tab:melody  v/V:vel  ,/.:prob  m:mod  p:play  +/-:tempo  s/f/b:fx  r/R:root  n:scale  w:save  q:quit")
	out.WriteString("\n" + help)
	if m.status != "" {
		out.WriteString("\n" + dimStyle.Render(m.status))
	}
	return out.String()
}

func (m model) rhythmView() string {
	var out strings.Builder
	for t := range m.pattern.Tracks {
		track := &m.pattern.Tracks[t]
		out.WriteString(fmt.Sprintf("%-5s", track.Name))
		for s := range track.Steps {
			step := track.Steps[s]
			cell := "··"
			if step.Active {
				cell = "██"
				if step.Modifier != groovebox.ModNone {
					cell = modifierLabel(step.Modifier)
				}
			}
			style := dimStyle
			if step.Active {
				style = activeStyle
			}
			if s == m.rhythmStep {
				style = playheadStyle
			}
			if m.focus == focusRhythm && t == m.track && s == m.step {
				style = cursorStyle
			}
			out.WriteString(style.Render(cell))
			out.WriteString(" ")
		}
		out.WriteString("\n")
	}
	cur := m.pattern.Tracks[m.track].Steps[m.step]
	out.WriteString(dimStyle.Render(fmt.Sprintf("vel:%.1f prob:%.1f mod:%s",
		cur.Velocity, cur.Probability, cur.Modifier)))
	out.WriteString("\n")
	return out.String()
}

func (m model) melodyView() string {
	var out strings.Builder
	out.WriteString(accentStyle.Render(fmt.Sprintf("phrase  root:%s  scale:%s",
		noteName(m.phrase.RootNote), m.phrase.ScaleName)))
	out.WriteString("\n")
	for row := 0; row < 2; row++ {
		out.WriteString("     ")
		for col := 0; col < groovebox.NumPhraseSteps/2; col++ {
			i := row*groovebox.NumPhraseSteps/2 + col
			cell := "·"
			if m.phrase.Events[i].Active {
				cell = "■"
			}
			style := dimStyle
			if m.phrase.Events[i].Active {
				style = activeStyle
			}
			if i == m.melodyStep {
				style = playheadStyle
			}
			if m.focus == focusMelody && i == m.phraseStep {
				style = cursorStyle
			}
			out.WriteString(style.Render(cell))
		}
		out.WriteString("\n")
	}
	ev := m.phrase.Events[m.phraseStep]
	if ev.Active {
		out.WriteString(dimStyle.Render(fmt.Sprintf("step %02d: %s vel:%.1f dur:%.2f prob:%.1f mod:%s",
			m.phraseStep, noteName(int(ev.Pitch)), ev.Velocity, ev.Duration, ev.Probability, ev.Modifier)))
	} else {
		out.WriteString(dimStyle.Render(fmt.Sprintf("step %02d: off", m.phraseStep)))
	}
	out.WriteString("\n")
	return out.String()
}

func levelBar(peak [2]float32) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	bar := func(v float32) rune {
		idx := int(v * float32(len(blocks)))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		return blocks[idx]
	}
	return fmt.Sprintf("L%c R%c", bar(peak[0]), bar(peak[1]))
}
