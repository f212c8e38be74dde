package spectral

import (
	"math"
)

// Naive O(n^2) reference transforms. They accept any length and agree with
// the fast path within floating point tolerance.

// DFT computes the discrete Fourier transform by direct summation
func DFT(x []complex64) ([]complex64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	return directSum(len(x), -1, func(t int) complex128 { return complex128(x[t]) }, 1), nil
}

// IDFT computes the inverse discrete Fourier transform, scaled by 1/n
func IDFT(x []complex64) ([]complex64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	return directSum(len(x), 1, func(t int) complex128 { return complex128(x[t]) }, 1/float64(len(x))), nil
}

// RealDFT computes the discrete Fourier transform of a real signal
func RealDFT(x []float32) ([]complex64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	return directSum(len(x), -1, func(t int) complex128 { return complex(float64(x[t]), 0) }, 1), nil
}

// InverseRealDFT computes the inverse DFT keeping only the real part of each
// term, which assumes x is conjugate symmetric.
func InverseRealDFT(x []complex64) ([]float32, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	full := directSum(len(x), 1, func(t int) complex128 { return complex128(x[t]) }, 1/float64(len(x)))
	out := make([]float32, len(full))
	for i, v := range full {
		out[i] = real(v)
	}
	return out, nil
}

// directSum evaluates scale * sum_t x(t) exp(sign*2*pi*i*k*t/n) for every k
func directSum(n int, sign float64, x func(int) complex128, scale float64) []complex64 {
	result := make([]complex64, n)
	for k := range n {
		var sum complex128
		for t := range n {
			// Reduce k*t modulo n so the angle stays small for large n
			angle := sign * 2 * math.Pi * float64((k*t)%n) / float64(n)
			sum += complex(math.Cos(angle), math.Sin(angle)) * x(t)
		}
		result[k] = complex64(sum * complex(scale, 0))
	}
	return result
}
