package engine

import (
	"math"

	"github.com/jtaival/groovebox"
	"github.com/jtaival/groovebox/dsp"
	"github.com/viterin/vek/vek32"
)

// shortTermBlocks is how many block measurements the sliding short-term
// window averages over.
const shortTermBlocks = 30

// LevelMeter measures per-block peak and RMS levels per channel, plus a
// short-term RMS averaged over a sliding window of recent blocks. The scratch
// slices are sized in Prepare so Measure does not allocate.
type LevelMeter struct {
	tmp     []float32
	tmp2    []float32
	windows [2]dsp.RingBuffer[float32]
}

type LevelResult struct {
	Peak  [2]float32
	RMS   [2]float32
	Short [2]float32
}

func (m *LevelMeter) Prepare(blockSize int) {
	m.tmp = make([]float32, blockSize)
	m.tmp2 = make([]float32, blockSize)
	for chn := range m.windows {
		m.windows[chn] = dsp.RingBuffer[float32]{Buffer: make([]float32, shortTermBlocks)}
	}
}

func (m *LevelMeter) Measure(buffer groovebox.AudioBuffer) LevelResult {
	var res LevelResult
	if len(buffer) == 0 {
		return res
	}
	if len(m.tmp) < len(buffer) {
		m.tmp = make([]float32, len(buffer))
		m.tmp2 = make([]float32, len(buffer))
	}
	for chn := 0; chn < 2; chn++ {
		for i := range buffer {
			m.tmp[i] = buffer[i][chn]
		}
		x := m.tmp[:len(buffer)]
		sq := vek32.Mul_Into(m.tmp2[:len(buffer)], x, x)
		rms := float32(math.Sqrt(float64(vek32.Mean(sq))))
		vek32.Abs_Inplace(x)
		res.Peak[chn] = vek32.Max(x)
		res.RMS[chn] = rms
		m.windows[chn].WriteWrapSingle(rms)
		res.Short[chn] = vek32.Mean(m.windows[chn].Buffer)
	}
	return res
}
