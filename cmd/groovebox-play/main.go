package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/engine"
	"github.com/jtaival/groovebox/oto"
	"github.com/jtaival/groovebox/version"
)

const (
	sampleRate = 44100
	blockSize  = 512
)

func main() {
	play := flag.Bool("p", false, "Play the project through the audio device (default when no file output is chosen).")
	wavOut := flag.Bool("w", false, "Render the project to a .wav file. By default, saves a stereo float32 buffer.")
	rawOut := flag.Bool("r", false, "Render the project to a headerless .raw file.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	directory := flag.String("o", "", "Directory where to place rendered files. By default, next to the project file.")
	bars := flag.Int("bars", 4, "How many 16-step bars to render for file output.")
	tempo := flag.Float64("bpm", 0, "Override the project tempo.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if !*wavOut && !*rawOut {
		*play = true
	}

	project := groovebox.DefaultProject()
	filename := ""
	if flag.NArg() > 0 {
		filename = flag.Arg(0)
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read %s: %v\n", filename, err)
			os.Exit(1)
		}
		project, err = groovebox.ReadProject(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not parse %s: %v\n", filename, err)
			os.Exit(1)
		}
	}
	if *tempo > 0 {
		project.BPM = *tempo
	}

	session := engine.NewSession(sampleRate, blockSize, project)
	session.Transport.Play()

	if *play {
		ctx, err := oto.NewContext(sampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open audio device: %v\n", err)
			os.Exit(1)
		}
		player := ctx.Play(session)
		fmt.Printf("playing at %.0f BPM, ctrl-c to stop\n", project.BPM)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		player.Close()
		return
	}

	buffer := render(session, project.BPM, *bars)
	output := func(extension string, contents []byte) error {
		dir := *directory
		base := "groovebox"
		if filename != "" {
			base = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
			if dir == "" {
				dir = filepath.Dir(filename)
			}
		}
		if dir != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create directory %s: %w", dir, err)
			}
		}
		path := filepath.Join(dir, base+extension)
		if err := os.WriteFile(path, contents, 0644); err != nil {
			return fmt.Errorf("could not write %s: %w", path, err)
		}
		fmt.Println(path)
		return nil
	}
	if *wavOut {
		data, err := buffer.Wav(sampleRate, *pcm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := output(".wav", data); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if *rawOut {
		data, err := buffer.Raw(*pcm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := output(".raw", data); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

// render runs the session offline for the requested number of bars.
func render(session *engine.Session, bpm float64, bars int) groovebox.AudioBuffer {
	samplesPerStep := 60 / bpm * sampleRate / 4
	total := int(float64(bars*groovebox.NumSteps) * samplesPerStep)
	buffer := make(groovebox.AudioBuffer, total)
	for off := 0; off < total; off += blockSize {
		end := off + blockSize
		if end > total {
			end = total
		}
		session.Render(buffer[off:end])
	}
	return buffer
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Play or render a groovebox project.\nUsage: %s [flags] [project.yml]\nWithout a project file, the default pattern and phrase are used.\n", os.Args[0])
	flag.PrintDefaults()
}
