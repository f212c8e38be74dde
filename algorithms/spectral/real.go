package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
)

// ComputeReal computes the full n-point spectrum of a real signal.
//
// The signal is folded into n/2 complex points (even samples on the real
// axis, odd samples on the imaginary axis), transformed at half size, and the
// even/odd half-spectra are separated again using conjugate symmetry. The
// output is identical to lifting the signal to complex and calling Compute.
func (f *FFT) ComputeReal(x []float32) ([]complex64, error) {
	dst := make([]complex128, len(x))
	if err := f.RealTransform(dst, x); err != nil {
		return nil, err
	}
	return common.Narrow(dst), nil
}

// ComputeRealLifted computes the spectrum of a real signal by lifting it onto
// the complex plane and running the complex transform. Kept as the reference
// for ComputeReal.
func (f *FFT) ComputeRealLifted(x []float32) ([]complex64, error) {
	src := common.ToComplex128(x)
	dst := make([]complex128, len(x))
	if err := f.Transform(dst, src); err != nil {
		return nil, err
	}
	return common.Narrow(dst), nil
}

// RealTransform writes the full spectrum of the real signal x into dst
func (f *FFT) RealTransform(dst []complex128, x []float32) error {
	n := len(x)
	if n == 0 {
		return ErrEmptySignal
	}
	if !common.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, n)
	}
	if len(dst) != n {
		return fmt.Errorf("%w: dst has %d points, signal has %d", ErrLengthMismatch, len(dst), n)
	}

	if n == 1 {
		dst[0] = complex(float64(x[0]), 0)
		return nil
	}

	half := n / 2
	packed := make([]complex128, half)
	for m := range half {
		packed[m] = complex(float64(x[2*m]), float64(x[2*m+1]))
	}

	z := dst[half:]
	f.recurse(z, packed, 0, 1, twiddleTable(half), 1, 0)

	// Unfold into the scratch buffer before overwriting z's storage
	for k := range half {
		zk := z[k]
		zc := cmplx.Conj(z[(half-k)%half])
		even := (zk + zc) / 2
		odd := (zk - zc) / complex(0, 2)

		angle := -2 * math.Pi * float64(k) / float64(n)
		t := complex(math.Cos(angle), math.Sin(angle)) * odd

		packed[k] = even - t
		dst[k] = even + t
	}
	copy(dst[half:], packed)

	return nil
}

// ComputeInverseReal inverts a spectrum that originated from a real signal:
// the inverse transform is taken and only the real part is kept.
//
// Conjugate symmetry is not checked. A spectrum without it yields a
// well-defined but meaningless signal; use IsConjugateSymmetric first when
// the origin of the spectrum is unknown.
func (f *FFT) ComputeInverseReal(x []complex64) ([]float32, error) {
	n := len(x)
	src := common.Widen(x)

	dst := make([]complex128, n)
	if err := f.InverseTransform(dst, src); err != nil {
		return nil, err
	}

	out := make([]float32, n)
	for i, v := range dst {
		out[i] = float32(real(v))
	}
	return out, nil
}

// IsConjugateSymmetric reports whether X[n-k] == conj(X[k]) for 1 <= k < n
// and X[0] is real. The tolerance is scaled by the largest magnitude in x
// (when that exceeds 1) so that large spectra are judged at their own
// precision.
func IsConjugateSymmetric(x []complex64, tolerance float64) bool {
	n := len(x)
	if n == 0 {
		return true
	}

	scale := 1.0
	for _, v := range x {
		scale = max(scale, cmplx.Abs(complex128(v)))
	}
	tol := tolerance * scale

	if math.Abs(float64(imag(x[0]))) > tol {
		return false
	}
	for k := 1; k < n; k++ {
		diff := complex128(x[n-k]) - cmplx.Conj(complex128(x[k]))
		if cmplx.Abs(diff) > tol {
			return false
		}
	}
	return true
}
