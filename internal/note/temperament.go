package note

import (
	"fmt"
	"math"
)

// DefaultReferenceFrequency is concert pitch A4.
const DefaultReferenceFrequency = 440.0

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// QuantizeFrequency snaps a frequency to the nearest equal-temperament
// pitch relative to the reference frequency. Non-positive inputs are
// returned unchanged.
func QuantizeFrequency(freq, reference float64) float64 {
	if freq <= 0 {
		return freq
	}
	if reference <= 0 {
		reference = DefaultReferenceFrequency
	}
	semitones := math.Round(12 * math.Log2(freq/reference))
	return reference * math.Pow(2, semitones/12)
}

// NoteName returns a display name like "A4" or "F#3" for a frequency,
// derived relative to A440. Empty for non-positive frequencies.
func NoteName(freq float64) string {
	if freq <= 0 {
		return ""
	}
	midi := int(math.Round(69 + 12*math.Log2(freq/DefaultReferenceFrequency)))
	if midi < 0 || midi > 127 {
		return ""
	}
	return fmt.Sprintf("%s%d", noteNames[midi%12], midi/12-1)
}
