package filters

import (
	"fmt"
	"math"
)

// DefaultPreEmphasis is the usual speech coefficient
const DefaultPreEmphasis = 0.97

// PreEmphasis is the first-order high-pass y[n] = x[n] - a*x[n-1]. It tilts
// the spectrum up by about 6 dB per octave so low-frequency energy does not
// dominate the descriptors of speech or music.
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
type PreEmphasis struct {
	coefficient float64 // a, 0 <= a < 1
	lastSample  float64 // x[n-1]
}

// NewPreEmphasis creates a pre-emphasis filter with coefficient a in [0, 1)
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if math.IsNaN(coefficient) || coefficient < 0 || coefficient >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidCoefficient, coefficient)
	}
	return &PreEmphasis{coefficient: coefficient}, nil
}

// Process filters a single sample
func (pe *PreEmphasis) Process(input float32) float32 {
	x := float64(input)
	y := x - pe.coefficient*pe.lastSample
	pe.lastSample = x
	return float32(y)
}

// ProcessBuffer filters a whole buffer, carrying state across calls
func (pe *PreEmphasis) ProcessBuffer(input []float32) []float32 {
	output := make([]float32, len(input))
	for i, sample := range input {
		output[i] = pe.Process(sample)
	}
	return output
}

// Reset clears x[n-1]. Call it between discontinuous segments.
func (pe *PreEmphasis) Reset() {
	pe.lastSample = 0
}

// Coefficient returns a
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}

// Magnitude returns |1 - a*e^-jw| at the given frequency
func (pe *PreEmphasis) Magnitude(frequency float64, sampleRate int) float64 {
	w := 2.0 * math.Pi * frequency / float64(sampleRate)
	return math.Hypot(1-pe.coefficient*math.Cos(w), pe.coefficient*math.Sin(w))
}
