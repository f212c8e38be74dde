// Package stockwell implements the Stockwell transform (S-transform) and its
// inverse.
//
// Reference: R. G. Stockwell, L. Mansinha and R. P. Lowe, "Localization of the
// complex spectrum: the S transform", IEEE Transactions on Signal Processing,
// vol. 44, no. 4, pp. 998-1001, 1996.
package stockwell

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectra/logging"
)

// ErrShapeMismatch is returned by ComputeInverse when the matrix does not have
// n/2+1 rows of n columns each
var ErrShapeMismatch = errors.New("stockwell: matrix shape mismatch")

// STransform computes the S-transform through the convolution theorem: one
// forward FFT of the signal, then per voice a shifted spectrum multiplied by a
// frequency-domain Gaussian and an inverse FFT.
type STransform struct {
	fft    *spectral.FFT
	logger logging.Logger
}

// NewSTransform creates a new S-transform calculator
func NewSTransform() *STransform {
	return NewSTransformWithFFT(spectral.NewFFT())
}

// NewSTransformWithFFT creates an S-transform calculator sharing an existing FFT
func NewSTransformWithFFT(fft *spectral.FFT) *STransform {
	return &STransform{
		fft: fft,
		logger: logging.WithFields(logging.Fields{
			"component": "stockwell",
		}),
	}
}

// Compute returns the (n/2+1) x n S-transform matrix of a signal whose length
// is a power of two. Row 0 holds the signal mean in every column; row f holds
// the complex voice localized around frequency index f.
func (s *STransform) Compute(signal []float32) ([][]complex64, error) {
	n := len(signal)
	if n == 0 {
		return nil, spectral.ErrEmptySignal
	}
	if !common.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: got %d", spectral.ErrNotPowerOfTwo, n)
	}

	logger := s.logger.WithFields(logging.Fields{
		"function":      "Compute",
		"signal_length": n,
		"voices":        n / 2,
	})
	logger.Debug("Computing S-transform")

	spectrum := make([]complex128, n)
	if err := s.fft.RealTransform(spectrum, signal); err != nil {
		return nil, err
	}

	numFreqs := n/2 + 1
	result := make([][]complex64, numFreqs)

	dc := complex(common.Mean(signal), 0)
	result[0] = make([]complex64, n)
	for i := range result[0] {
		result[0][i] = dc
	}

	jobs := make(chan int, numFreqs-1)
	for f := 1; f < numFreqs; f++ {
		jobs <- f
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		voiceErr error
	)
	for range common.WorkerCount(numFreqs - 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gauss := make([]float64, n)
			filtered := make([]complex128, n)
			voice := make([]complex128, n)

			for f := range jobs {
				fillGaussian(gauss, f)

				// Shift the spectrum so the voice's centre frequency sits at bin 0
				for i := range n {
					k := i + f
					if k >= n {
						k -= n
					}
					filtered[i] = spectrum[k] * complex(gauss[i], 0)
				}

				if err := s.fft.InverseTransform(voice, filtered); err != nil {
					errOnce.Do(func() { voiceErr = err })
					continue
				}

				row := make([]complex64, n)
				for i, v := range voice {
					row[i] = complex64(v)
				}
				result[f] = row
			}
		}()
	}
	wg.Wait()

	if voiceErr != nil {
		logger.Error(voiceErr, "S-transform voice failed")
		return nil, fmt.Errorf("stockwell voice: %w", voiceErr)
	}

	logger.Debug("S-transform completed", logging.Fields{
		"rows":    numFreqs,
		"columns": n,
	})

	return result, nil
}

// fillGaussian writes the frequency-domain window exp(-2*pi^2*m^2/f^2) for
// voice f, mirrored about the Nyquist index so that g[n-m] == g[m]
func fillGaussian(g []float64, f int) {
	n := len(g)
	ff := float64(f) * float64(f)

	g[0] = 1
	for m := 1; m <= n/2; m++ {
		v := math.Exp(-2 * math.Pi * math.Pi * float64(m) * float64(m) / ff)
		g[m] = v
		g[n-m] = v
	}
}

// ComputeInverse reconstructs a signal from an S-transform matrix of shape
// (ntimes/2+1) x ntimes. Each row summed over time gives back one Fourier
// coefficient; the upper half of the spectrum is rebuilt by conjugate
// symmetry and inverted.
func (s *STransform) ComputeInverse(matrix [][]complex64) ([]float32, error) {
	numFreqs := len(matrix)
	if numFreqs == 0 {
		return nil, spectral.ErrEmptySignal
	}

	ntimes := len(matrix[0])
	if !common.IsPowerOfTwo(ntimes) {
		return nil, fmt.Errorf("%w: got %d columns", spectral.ErrNotPowerOfTwo, ntimes)
	}
	if numFreqs != ntimes/2+1 {
		return nil, fmt.Errorf("%w: %d rows for %d columns, want %d", ErrShapeMismatch, numFreqs, ntimes, ntimes/2+1)
	}
	for f, row := range matrix {
		if len(row) != ntimes {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, f, len(row), ntimes)
		}
	}

	spectrum := make([]complex128, ntimes)
	for f, row := range matrix {
		var sum complex128
		for _, v := range row {
			sum += complex128(v)
		}
		spectrum[f] = sum
	}

	for i := ntimes/2 + 1; i < ntimes; i++ {
		spectrum[i] = cmplx.Conj(spectrum[ntimes-i])
	}

	signal := make([]complex128, ntimes)
	if err := s.fft.InverseTransform(signal, spectrum); err != nil {
		return nil, err
	}

	out := make([]float32, ntimes)
	for i, v := range signal {
		out[i] = float32(real(v))
	}
	return out, nil
}
