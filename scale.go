package groovebox

// Scale intervals in semitones from the root. Unknown scale names fall back
// to Minor, so a corrupted project file still produces sensible pitches.
var scales = map[string][]int{
	"Minor":      {0, 2, 3, 5, 7, 8, 10},
	"Dorian":     {0, 2, 3, 5, 7, 9, 10},
	"Mixolydian": {0, 2, 4, 5, 7, 9, 10},
	"Phrygian":   {0, 1, 3, 5, 7, 8, 10},
}

const DefaultScale = "Minor"

// ScaleNames lists the supported scales in a stable order for front-ends.
var ScaleNames = []string{"Minor", "Dorian", "Mixolydian", "Phrygian"}

func scaleIntervals(name string) []int {
	if iv, ok := scales[name]; ok {
		return iv
	}
	return scales[DefaultScale]
}

// QuantizeToScale snaps a MIDI note to the nearest note of the scale rooted at
// root. Distances are measured on the pitch class relative to the root,
// checking across the octave wrap in both directions, so that e.g. a note just
// below the root is as close to it as a note just above. Ties pick the earlier
// scale degree. The result is pulled back within 6 semitones of the input and
// clamped to the MIDI range.
func QuantizeToScale(note, root int, scale string) int {
	intervals := scaleIntervals(scale)
	octave := note / 12
	rel := ((note%12)-(root%12) + 12) % 12
	bestDist := 12
	best := 0
	for _, iv := range intervals {
		for _, cand := range [3]int{iv, iv + 12, iv - 12} {
			dist := rel - cand
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				best = iv
			}
		}
	}
	quantized := octave*12 + root%12 + best
	if d := quantized - note; d > 6 {
		quantized -= 12
	} else if d < -6 {
		quantized += 12
	}
	if quantized < 0 {
		quantized = 0
	} else if quantized > 127 {
		quantized = 127
	}
	return quantized
}
