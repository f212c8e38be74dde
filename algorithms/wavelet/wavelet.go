package wavelet

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// DefaultOmega is the Morlet centre frequency (and Mexican hat width) used
// when none is given
const DefaultOmega = 6.0

var (
	// ErrUnknownKind is returned for a wavelet kind outside the closed set
	ErrUnknownKind = errors.New("wavelet: unknown wavelet kind")
	// ErrInvalidOmega is returned for an omega the kind cannot use
	ErrInvalidOmega = errors.New("wavelet: invalid omega")
)

// Kind selects the mother wavelet
type Kind int

const (
	// Morlet is the complex analytic wavelet exp(i*omega*t) * exp(-t^2/2)
	Morlet Kind = iota
	// MexicanHat is the real second derivative of a Gaussian,
	// (1 - (t/omega)^2) * exp(-(t/omega)^2 / 2)
	MexicanHat
)

func (k Kind) String() string {
	switch k {
	case Morlet:
		return "morlet"
	case MexicanHat:
		return "mexican_hat"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "morlet" or "mexican_hat" (also "mexicanhat", "ricker") onto a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "morlet":
		return Morlet, nil
	case "mexican_hat", "mexicanhat", "mexican-hat", "ricker":
		return MexicanHat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Wavelet describes a mother wavelet: its kind plus one shape parameter
type Wavelet struct {
	Kind  Kind    `json:"kind"`
	Omega float32 `json:"omega"`
}

// NewMorlet returns a Morlet wavelet with centre frequency omega
func NewMorlet(omega float32) Wavelet {
	return Wavelet{Kind: Morlet, Omega: omega}
}

// NewMexicanHat returns a Mexican hat wavelet of width omega
func NewMexicanHat(omega float32) Wavelet {
	return Wavelet{Kind: MexicanHat, Omega: omega}
}

// Validate rejects an unknown kind, a non-finite omega, and a Mexican hat
// of zero width
func (w Wavelet) Validate() error {
	omega := float64(w.Omega)
	if math.IsNaN(omega) || math.IsInf(omega, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidOmega, w.Omega)
	}

	switch w.Kind {
	case Morlet:
		return nil
	case MexicanHat:
		if omega == 0 {
			return fmt.Errorf("%w: mexican hat width must be non-zero", ErrInvalidOmega)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, w.Kind)
	}
}

// kernel resolves the wavelet to its sample function once, so the
// per-sample loop does not branch on the kind
func (w Wavelet) kernel() (func(t float64) complex128, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	omega := float64(w.Omega)

	switch w.Kind {
	case Morlet:
		return func(t float64) complex128 {
			gaussian := math.Exp(-0.5 * t * t)
			return cmplx.Exp(complex(0, omega*t)) * complex(gaussian, 0)
		}, nil

	case MexicanHat:
		return func(t float64) complex128 {
			normalized := (t / omega) * (t / omega)
			return complex((1-normalized)*math.Exp(-0.5*normalized), 0)
		}, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, w.Kind)
	}
}

// Generate samples the wavelet at each point of time
func (w Wavelet) Generate(time []float32) ([]complex64, error) {
	psi, err := w.kernel()
	if err != nil {
		return nil, err
	}

	out := make([]complex64, len(time))
	for i, t := range time {
		out[i] = complex64(psi(float64(t)))
	}
	return out, nil
}
