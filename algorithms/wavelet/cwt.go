package wavelet

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/logging"
)

// Errors returned by the continuous wavelet transform
var (
	ErrEmptySignal  = errors.New("wavelet: empty signal")
	ErrNoScales     = errors.New("wavelet: no scales given")
	ErrInvalidScale = errors.New("wavelet: scales must be positive")
)

// CWT computes the continuous wavelet transform by direct correlation
type CWT struct {
	logger logging.Logger
}

// NewCWT creates a new continuous wavelet transform calculator
func NewCWT() *CWT {
	return &CWT{
		logger: logging.WithFields(logging.Fields{
			"component": "cwt",
		}),
	}
}

// Compute returns a len(scales) x len(signal) coefficient matrix where
//
//	C[a][b] = 1/sqrt(a) * sum_t x[t] * conj(psi((t - b) / a))
//
// The sum is evaluated directly in O(n^2) per scale. The kernel only depends
// on t-b, so it is sampled once per scale over the 2n-1 possible offsets.
func (c *CWT) Compute(signal []float32, scales []float32, w Wavelet) ([][]complex64, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptySignal
	}
	if len(scales) == 0 {
		return nil, ErrNoScales
	}
	for i, a := range scales {
		if !(a > 0) || math.IsInf(float64(a), 0) {
			return nil, fmt.Errorf("%w: scale %d is %v", ErrInvalidScale, i, a)
		}
	}

	psi, err := w.kernel()
	if err != nil {
		return nil, err
	}

	logger := c.logger.WithFields(logging.Fields{
		"function":      "Compute",
		"signal_length": n,
		"scales":        len(scales),
		"wavelet":       w.Kind.String(),
		"omega":         w.Omega,
	})
	logger.Debug("Computing CWT")

	wide := common.ToFloat64(signal)
	result := make([][]complex64, len(scales))

	jobs := make(chan int, len(scales))
	for i := range scales {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range common.WorkerCount(len(scales)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// kernel[d + n - 1] = conj(psi(d / a)) for d = t - b in [-(n-1), n-1]
			kernel := make([]complex128, 2*n-1)

			for i := range jobs {
				a := float64(scales[i])
				for d := -(n - 1); d < n; d++ {
					kernel[d+n-1] = cmplx.Conj(psi(float64(d) / a))
				}

				norm := complex(1/math.Sqrt(a), 0)
				row := make([]complex64, n)
				for b := range n {
					var sum complex128
					for t, x := range wide {
						sum += complex(x, 0) * kernel[t-b+n-1]
					}
					row[b] = complex64(norm * sum)
				}
				result[i] = row
			}
		}()
	}
	wg.Wait()

	logger.Debug("CWT completed")

	return result, nil
}

// Scalogram returns |C| for a coefficient matrix
func Scalogram(coefficients [][]complex64) [][]float32 {
	out := make([][]float32, len(coefficients))
	for i, row := range coefficients {
		out[i] = make([]float32, len(row))
		for j, v := range row {
			out[i][j] = float32(cmplx.Abs(complex128(v)))
		}
	}
	return out
}

// GeometricScales returns count scales spaced geometrically from minScale to maxScale
func GeometricScales(minScale, maxScale float32, count int) []float32 {
	if count <= 0 || !(minScale > 0) || maxScale < minScale {
		return []float32{}
	}
	if count == 1 {
		return []float32{minScale}
	}

	ratio := math.Pow(float64(maxScale)/float64(minScale), 1/float64(count-1))
	scales := make([]float32, count)
	for i := range scales {
		scales[i] = float32(float64(minScale) * math.Pow(ratio, float64(i)))
	}
	return scales
}
