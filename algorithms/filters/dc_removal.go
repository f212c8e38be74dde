package filters

import (
	"math"
)

// DCRemoval is a one-pole DC blocker used to strip the 0 Hz offset from a
// signal before spectral analysis.
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
//
// Difference equation: y[n] = x[n] - x[n-1] + R*y[n-1]
type DCRemoval struct {
	pole float64 // R, 0 < R < 1

	x1 float64
	y1 float64
}

// NewDCRemoval uses R = 0.995, a cutoff near 8 Hz at 44.1 kHz
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{pole: 0.995}
}

// NewDCRemovalWithCutoff derives R from the -3 dB cutoff as R = 1 - 2*pi*fc/fs,
// clamped into (0, 1).
func NewDCRemovalWithCutoff(sampleRate int, cutoffHz float64) *DCRemoval {
	dc := NewDCRemoval()
	if sampleRate <= 0 || cutoffHz <= 0 {
		return dc
	}

	r := 1.0 - 2.0*math.Pi*cutoffHz/float64(sampleRate)
	dc.pole = min(max(r, 0.001), 0.999)
	return dc
}

// Process filters a single sample
func (dc *DCRemoval) Process(input float32) float32 {
	x := float64(input)
	y := x - dc.x1 + dc.pole*dc.y1
	dc.x1 = x
	dc.y1 = y
	return float32(y)
}

// ProcessBuffer filters a whole buffer, carrying state across calls
func (dc *DCRemoval) ProcessBuffer(input []float32) []float32 {
	output := make([]float32, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter state. Call it between discontinuous segments.
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// Pole returns R
func (dc *DCRemoval) Pole() float64 {
	return dc.pole
}

// CutoffFrequency is the approximate -3 dB point, (1-R)*fs/(2*pi)
func (dc *DCRemoval) CutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1.0 - dc.pole) * float64(sampleRate) / (2.0 * math.Pi)
}

// Magnitude returns |H(e^jw)| at the given frequency, where
// H(e^jw) = (1 - e^-jw) / (1 - R*e^-jw).
func (dc *DCRemoval) Magnitude(frequency float64, sampleRate int) float64 {
	w := 2.0 * math.Pi * frequency / float64(sampleRate)
	cosW, sinW := math.Cos(w), math.Sin(w)

	num := math.Hypot(1-cosW, sinW)
	den := math.Hypot(1-dc.pole*cosW, dc.pole*sinW)
	return num / den
}
