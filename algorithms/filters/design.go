package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-spectra/algorithms/windowing"
)

// MovingAverage returns taps equal coefficients summing to one
func MovingAverage(taps int) ([]float32, error) {
	if taps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTaps, taps)
	}

	coeffs := make([]float32, taps)
	for i := range coeffs {
		coeffs[i] = 1 / float32(taps)
	}
	return coeffs, nil
}

// LowPass designs a linear-phase windowed-sinc low-pass filter. The ideal
// impulse response is tapered with a symmetric window of the given type and
// normalized to unit gain at DC.
func LowPass(taps int, cutoffHz, sampleRate float64, kind windowing.Type) ([]float32, error) {
	if taps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTaps, taps)
	}
	if sampleRate <= 0 || cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return nil, fmt.Errorf("%w: cutoff %g Hz at %g Hz", ErrInvalidCutoff, cutoffHz, sampleRate)
	}

	win, err := windowing.New(kind, taps, true)
	if err != nil {
		return nil, err
	}
	taper := win.GetCoefficients()

	fc := cutoffHz / sampleRate
	centre := float64(taps-1) / 2

	coeffs := make([]float64, taps)
	var sum float64
	for i := range coeffs {
		t := float64(i) - centre
		h := 2 * fc
		if t != 0 {
			h = math.Sin(2*math.Pi*fc*t) / (math.Pi * t)
		}
		coeffs[i] = h * float64(taper[i])
		sum += coeffs[i]
	}

	out := make([]float32, taps)
	for i, c := range coeffs {
		out[i] = float32(c / sum)
	}
	return out, nil
}
