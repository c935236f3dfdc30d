package groovebox

// TimeInfo is the host transport state for one processing block. When running
// standalone the engine.Transport produces it; under a plugin host it would be
// filled from the host callback. The zero value means "no transport": not
// playing, unknown tempo.
type TimeInfo struct {
	Playing   bool
	BPM       float64 // beats per minute; <= 0 means the host gave no tempo
	SamplePos int64   // absolute sample position of the first frame
	PPQ       float64 // musical position of the first frame in quarter notes
}
