package common

import (
	"math"

	"github.com/mjibson/go-dsp/dsputils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the transform packages. Samples travel as float32,
// anything that accumulates is widened to float64 and handed to gonum.

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	if n <= 0 {
		return false
	}
	return dsputils.IsPowerOf2(n)
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1)
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return dsputils.NextPowerOf2(n)
}

// ToFloat64 widens a float32 signal
func ToFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

// ToFloat32 narrows a float64 signal
func ToFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}

// ToComplex128 lifts real samples onto the real axis of a complex128 buffer
func ToComplex128(x []float32) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(float64(v), 0)
	}
	return out
}

// Widen converts complex64 coefficients to complex128
func Widen(x []complex64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex128(v)
	}
	return out
}

// Narrow converts complex128 coefficients to complex64
func Narrow(x []complex128) []complex64 {
	out := make([]complex64, len(x))
	for i, v := range x {
		out[i] = complex64(v)
	}
	return out
}

// Mean calculates the arithmetic mean of a float32 signal using gonum
func Mean(data []float32) float32 {
	if len(data) == 0 {
		return 0
	}
	return float32(stat.Mean(ToFloat64(data), nil))
}

// Energy returns the sum of squared samples
func Energy(data []float32) float64 {
	wide := ToFloat64(data)
	return floats.Dot(wide, wide)
}

// RMS calculates root mean square
func RMS(data []float32) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(Energy(data) / float64(len(data)))
}

// MaxAbsDiff returns the largest elementwise distance between a and b.
// Slices of different length compare as +Inf.
func MaxAbsDiff(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(ToFloat64(a), ToFloat64(b), math.Inf(1))
}

// PeakIndex returns the index of the largest value, -1 when data is empty
func PeakIndex(data []float32) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(ToFloat64(data))
}
