package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
)

// DefaultParallelThreshold is the sub-transform size from which the two
// half-size branches of the recursion run on separate goroutines.
const DefaultParallelThreshold = 1 << 14

// maxParallelDepth bounds goroutine fan-out to 2^maxParallelDepth branches
const maxParallelDepth = 3

// FFT provides the radix-2 decimation-in-time Fast Fourier Transform.
//
// The recursion never copies sub-sequences: every level reads its input
// through an (offset, stride) view of the caller's buffer and writes the
// even and odd half-spectra into the two halves of one output buffer, which
// are then combined in place with the butterfly
//
//	X[k]       = E[k] + w^k O[k]
//	X[k + n/2] = E[k] - w^k O[k],  w = exp(-2*pi*i/n)
//
// Forward transforms are unscaled; the inverse carries the 1/n factor.
type FFT struct {
	parallelThreshold int
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{parallelThreshold: DefaultParallelThreshold}
}

// NewFFTWithParallelThreshold creates an FFT calculator that splits work across
// goroutines for sub-transforms of at least threshold points. A threshold <= 0
// disables parallel evaluation.
func NewFFTWithParallelThreshold(threshold int) *FFT {
	return &FFT{parallelThreshold: threshold}
}

// Compute computes the forward FFT of a complex sequence whose length is a power of two
func (f *FFT) Compute(x []complex64) ([]complex64, error) {
	src := common.Widen(x)
	dst := make([]complex128, len(x))
	if err := f.Transform(dst, src); err != nil {
		return nil, err
	}
	return common.Narrow(dst), nil
}

// ComputeInverse computes the inverse FFT using the conjugate trick:
// conjugate, forward transform, conjugate, divide by n.
func (f *FFT) ComputeInverse(x []complex64) ([]complex64, error) {
	src := common.Widen(x)
	dst := make([]complex128, len(x))
	if err := f.InverseTransform(dst, src); err != nil {
		return nil, err
	}
	return common.Narrow(dst), nil
}

// Transform writes the forward FFT of src into dst. Both buffers must have the
// same power-of-two length and must not overlap. It is the allocation-free
// primitive behind every other transform in this module.
func (f *FFT) Transform(dst, src []complex128) error {
	if err := checkLengths(dst, src); err != nil {
		return err
	}

	n := len(src)
	twiddles := twiddleTable(n)
	f.recurse(dst, src, 0, 1, twiddles, 1, 0)
	return nil
}

// InverseTransform writes the inverse FFT of src into dst
func (f *FFT) InverseTransform(dst, src []complex128) error {
	if err := checkLengths(dst, src); err != nil {
		return err
	}

	n := len(src)
	conj := make([]complex128, n)
	for i, v := range src {
		conj[i] = cmplx.Conj(v)
	}

	f.recurse(dst, conj, 0, 1, twiddleTable(n), 1, 0)

	scale := 1 / float64(n)
	for i, v := range dst {
		dst[i] = complex(real(v)*scale, -imag(v)*scale)
	}
	return nil
}

func checkLengths(dst, src []complex128) error {
	n := len(src)
	if n == 0 {
		return ErrEmptySignal
	}
	if !common.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, n)
	}
	if len(dst) != n {
		return fmt.Errorf("%w: dst has %d points, src has %d", ErrLengthMismatch, len(dst), n)
	}
	return nil
}

// recurse transforms the len(dst) points src[offset], src[offset+stride], ...
// into dst. tstep maps this level's twiddle index onto the top-level table.
func (f *FFT) recurse(dst, src []complex128, offset, stride int, twiddles []complex128, tstep, depth int) {
	n := len(dst)
	if n == 1 {
		dst[0] = src[offset]
		return
	}

	half := n / 2
	even, odd := dst[:half], dst[half:]

	if f.parallelThreshold > 0 && n >= f.parallelThreshold && depth < maxParallelDepth {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.recurse(even, src, offset, stride*2, twiddles, tstep*2, depth+1)
		}()
		f.recurse(odd, src, offset+stride, stride*2, twiddles, tstep*2, depth+1)
		wg.Wait()
	} else {
		f.recurse(even, src, offset, stride*2, twiddles, tstep*2, depth+1)
		f.recurse(odd, src, offset+stride, stride*2, twiddles, tstep*2, depth+1)
	}

	for k := range half {
		t := twiddles[k*tstep] * odd[k]
		e := even[k]
		even[k] = e + t
		odd[k] = e - t
	}
}

// twiddleTable returns exp(-2*pi*i*k/n) for k in [0, n/2)
func twiddleTable(n int) []complex128 {
	table := make([]complex128, max(1, n/2))
	for k := range table {
		angle := -2 * math.Pi * float64(k) / float64(n)
		table[k] = complex(math.Cos(angle), math.Sin(angle))
	}
	return table
}
