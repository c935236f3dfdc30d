package dsp

// RingBuffer is a generic ring buffer with a buffer and a cursor. The stutter
// effect records into one and the level meter keeps its sliding windows in
// them.
type RingBuffer[T any] struct {
	Buffer []T
	Cursor int
}

func (r *RingBuffer[T]) WriteWrapSingle(value T) {
	r.Cursor = (r.Cursor + 1) % len(r.Buffer)
	r.Buffer[r.Cursor] = value
}

// At reads the value offset steps behind the cursor.
func (r *RingBuffer[T]) At(offset int) T {
	n := len(r.Buffer)
	return r.Buffer[((r.Cursor-offset)%n+n)%n]
}
