// Package oto plays the engine output through the system audio device using
// ebitengine/oto. The oto player pulls: its internal goroutine calls Read,
// which renders a block and packs it as little-endian float32 stereo.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/jtaival/groovebox"
)

// Renderer is the audio callback. Render must fill buffer completely; the
// buffer is zeroed before each call.
type Renderer interface {
	Render(buffer groovebox.AudioBuffer)
}

type Context struct {
	ctx        *oto.Context
	sampleRate int
}

func NewContext(sampleRate int) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

type Player struct {
	player   *oto.Player
	renderer Renderer
	buf      groovebox.AudioBuffer
}

// Play starts pulling audio from the renderer.
func (c *Context) Play(r Renderer) *Player {
	p := &Player{renderer: r, buf: make(groovebox.AudioBuffer, 4096)}
	p.player = c.ctx.NewPlayer(p)
	p.player.Play()
	return p
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Read implements io.Reader for the oto player goroutine. One frame is two
// float32 samples, 8 bytes.
func (p *Player) Read(b []byte) (int, error) {
	frames := len(b) / 8
	if frames == 0 {
		return 0, nil
	}
	if len(p.buf) < frames {
		p.buf = make(groovebox.AudioBuffer, frames)
	}
	buf := p.buf[:frames]
	buf.Zero()
	p.renderer.Render(buf)
	for i, frame := range buf {
		binary.LittleEndian.PutUint32(b[i*8:], math.Float32bits(frame[0]))
		binary.LittleEndian.PutUint32(b[i*8+4:], math.Float32bits(frame[1]))
	}
	return frames * 8, nil
}

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
