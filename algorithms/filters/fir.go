package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/algorithms/spectral"
)

// overlapKernel holds the frequency response of a set of FIR coefficients
// at a fixed transform size, plus the scratch buffers used per block.
type overlapKernel struct {
	taps     int
	fftSize  int
	spectrum []complex128
	fft      *spectral.FFT

	padded  []float32
	product []complex128
	result  []complex128
}

func newOverlapKernel(coeffs []float32, fftSize int) (*overlapKernel, error) {
	k := &overlapKernel{
		taps:     len(coeffs),
		fftSize:  fftSize,
		spectrum: make([]complex128, fftSize),
		fft:      spectral.NewFFT(),
		padded:   make([]float32, fftSize),
		product:  make([]complex128, fftSize),
		result:   make([]complex128, fftSize),
	}

	copy(k.padded, coeffs)
	if err := k.fft.RealTransform(k.spectrum, k.padded); err != nil {
		return nil, fmt.Errorf("filters: kernel transform: %w", err)
	}
	return k, nil
}

// convolve writes the linear convolution of chunk with the kernel into the
// first len(chunk)+taps-1 entries of k.result (real part). chunk must not be
// longer than fftSize-taps+1.
func (k *overlapKernel) convolve(chunk []float32) error {
	clear(k.padded)
	copy(k.padded, chunk)

	if err := k.fft.RealTransform(k.product, k.padded); err != nil {
		return err
	}
	for i, h := range k.spectrum {
		k.product[i] *= h
	}
	return k.fft.InverseTransform(k.result, k.product)
}

// FIRFilter convolves whole signals with a fixed set of coefficients using
// block overlap-add in the frequency domain.
type FIRFilter struct {
	coefficients []float32
	blockLen     int
	kernel       *overlapKernel
}

// NewFIRFilter prepares a filter for the given coefficients. The transform
// size is eight times the next power of two above the number of taps, so
// each block carries fftSize-taps+1 fresh input samples.
func NewFIRFilter(coeffs []float32) (*FIRFilter, error) {
	if len(coeffs) == 0 {
		return nil, ErrEmptyCoefficients
	}

	m := len(coeffs)
	n := 8 * common.NextPowerOfTwo(m)

	kernel, err := newOverlapKernel(coeffs, n)
	if err != nil {
		return nil, err
	}

	return &FIRFilter{
		coefficients: append([]float32(nil), coeffs...),
		blockLen:     n - m + 1,
		kernel:       kernel,
	}, nil
}

// Process returns the full linear convolution of signal with the filter
// coefficients, len(signal)+taps-1 samples long. Block results are summed
// into the output so the tails of adjacent blocks overlap.
//
// A filter is not safe for concurrent use; it reuses scratch buffers.
func (f *FIRFilter) Process(signal []float32) ([]float32, error) {
	m := len(f.coefficients)
	acc := make([]float64, len(signal)+m-1)

	for start := 0; start < len(signal); start += f.blockLen {
		end := min(start+f.blockLen, len(signal))
		if err := f.kernel.convolve(signal[start:end]); err != nil {
			return nil, fmt.Errorf("filters: block at %d: %w", start, err)
		}

		span := min(f.kernel.fftSize, len(acc)-start)
		for i := range span {
			acc[start+i] += real(f.kernel.result[i])
		}
	}

	return common.ToFloat32(acc), nil
}

// Coefficients returns a copy of the filter taps
func (f *FIRFilter) Coefficients() []float32 {
	return append([]float32(nil), f.coefficients...)
}

// FFTSize is the transform size used per block
func (f *FIRFilter) FFTSize() int {
	return f.kernel.fftSize
}

// BlockLength is the number of input samples consumed per block
func (f *FIRFilter) BlockLength() int {
	return f.blockLen
}
