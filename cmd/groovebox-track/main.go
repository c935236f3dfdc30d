package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/engine"
	"github.com/jtaival/groovebox/midi"
	"github.com/jtaival/groovebox/oto"
	"github.com/jtaival/groovebox/version"
)

const (
	sampleRate = 44100
	blockSize  = 512
)

func main() {
	midiPort := flag.String("midi", "", "Connect to the first MIDI input port whose name contains this string. Empty connects to the first port; \"none\" disables MIDI.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Live step sequencer.\nUsage: %s [flags] [project.yml]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	config := loadConfig()
	project := groovebox.DefaultProject()
	if config.BPM > 0 {
		project.BPM = config.BPM
	}
	filename := config.LastProject
	if flag.NArg() > 0 {
		filename = flag.Arg(0)
	}
	if filename != "" {
		if data, err := os.ReadFile(filename); err == nil {
			if loaded, err := groovebox.ReadProject(data); err == nil {
				project = loaded
			} else {
				fmt.Fprintf(os.Stderr, "ignoring %s: %v\n", filename, err)
				filename = ""
			}
		} else {
			filename = ""
		}
	}

	session := engine.NewSession(sampleRate, blockSize, project)

	ctx, err := oto.NewContext(sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open audio device: %v\n", err)
		os.Exit(1)
	}
	player := ctx.Play(session)
	defer player.Close()

	if *midiPort != "none" {
		if input, err := midi.Open(*midiPort, session.Rhythm); err == nil {
			defer input.Close()
		} else if *midiPort != "" {
			fmt.Fprintf(os.Stderr, "midi: %v\n", err)
		}
	}

	m := newModel(session, filename)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if fm, ok := final.(model); ok {
		config.BPM = fm.session.Transport.BPM()
		config.LastProject = fm.filename
		saveConfig(config)
	}
}
