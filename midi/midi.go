// Package midi feeds external MIDI input into the rhythm engine's command
// queue: note 36 hits the kick, notes from 48 up play the bass. The listener
// runs on the driver's goroutine and only does a lock-free queue push, so it
// cannot stall audio.
package midi

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/engine"
)

type Input struct {
	driver *rtmididrv.Driver
	in     drivers.In
	stop   func()
}

// Open connects to the first input port whose name contains portName (or the
// first port at all if portName is empty) and routes its notes to the engine.
func Open(portName string, rhythm *engine.RhythmEngine) (*Input, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("opening midi driver: %w", err)
	}
	ins, err := driver.Ins()
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("listing midi inputs: %w", err)
	}
	var in drivers.In
	for _, candidate := range ins {
		if portName == "" || strings.Contains(strings.ToLower(candidate.String()), strings.ToLower(portName)) {
			in = candidate
			break
		}
	}
	if in == nil {
		driver.Close()
		return nil, fmt.Errorf("no midi input matching %q", portName)
	}
	if err := in.Open(); err != nil {
		driver.Close()
		return nil, fmt.Errorf("opening midi input %s: %w", in, err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var channel, key, velocity uint8
		if msg.GetNoteOn(&channel, &key, &velocity) {
			rhythm.Enqueue(groovebox.Command{
				Type:  groovebox.CmdNoteOn,
				Note:  int(key),
				Value: float32(velocity) / 127,
			})
		}
	})
	if err != nil {
		in.Close()
		driver.Close()
		return nil, fmt.Errorf("listening to midi input %s: %w", in, err)
	}
	return &Input{driver: driver, in: in, stop: stop}, nil
}

func (i *Input) Name() string {
	return i.in.String()
}

func (i *Input) Close() {
	i.stop()
	i.in.Close()
	i.driver.Close()
}
