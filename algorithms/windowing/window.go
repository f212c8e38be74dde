package windowing

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
)

// Type names a window shape
type Type string

const (
	TypeSine        Type = "sine"
	TypeRectangular Type = "rectangular"
	TypeHann        Type = "hann"
	TypeHamming     Type = "hamming"
	TypeBartlett    Type = "bartlett"
	TypeBlackman    Type = "blackman"
	TypeFlatTop     Type = "flattop"
)

// ErrUnknownType is returned by New for an unsupported window name
var ErrUnknownType = errors.New("windowing: unknown window type")

// Window is a fixed-size tapering function applied to analysis frames
type Window struct {
	kind         Type
	size         int
	symmetric    bool
	coefficients []float32
}

// New creates a window of the given type. Periodic windows (symmetric == false)
// are the first size points of a size+1 symmetric window, which is the form
// spectral analysis wants.
func New(kind Type, size int, symmetric bool) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("windowing: size must be positive, got %d", size)
	}

	w := &Window{kind: kind, size: size, symmetric: symmetric}

	switch kind {
	case TypeSine:
		w.coefficients = sine(size)
	case TypeRectangular:
		w.coefficients = fromGoDSP(window.Rectangular, size, symmetric)
	case TypeHann:
		w.coefficients = fromGoDSP(window.Hann, size, symmetric)
	case TypeHamming:
		w.coefficients = fromGoDSP(window.Hamming, size, symmetric)
	case TypeBartlett:
		w.coefficients = fromGoDSP(window.Bartlett, size, symmetric)
	case TypeBlackman:
		w.coefficients = fromGoDSP(window.Blackman, size, symmetric)
	case TypeFlatTop:
		w.coefficients = fromGoDSP(window.FlatTop, size, symmetric)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}

	return w, nil
}

// NewSine creates the sine taper sin(pi*(n+0.5)/size), the default STFT window
func NewSine(size int) *Window {
	return &Window{kind: TypeSine, size: size, coefficients: sine(size)}
}

// sine is symmetric by construction: the half-sample offset centres it
func sine(size int) []float32 {
	coeffs := make([]float32, size)
	for n := range size {
		coeffs[n] = float32(math.Sin(math.Pi * (float64(n) + 0.5) / float64(size)))
	}
	return coeffs
}

func fromGoDSP(generate func(int) []float64, size int, symmetric bool) []float32 {
	if size == 1 {
		return []float32{1}
	}

	length := size
	if !symmetric {
		length = size + 1
	}

	raw := generate(length)
	coeffs := make([]float32, size)
	for i := range size {
		coeffs[i] = float32(raw[i])
	}
	return coeffs
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float32) []float32 {
	if len(signal) != w.size {
		return nil
	}

	windowed := make([]float32, w.size)
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float32) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i, c := range w.coefficients {
		signal[i] *= c
	}
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float32 {
	coeffs := make([]float32, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return w.size
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.kind
}

// CoherentGain returns the mean of the coefficients, the amplitude factor a
// windowed sinusoid picks up in its spectral peak
func (w *Window) CoherentGain() float64 {
	sum := 0.0
	for _, c := range w.coefficients {
		sum += float64(c)
	}
	return sum / float64(w.size)
}
