package stats

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CovarianceType selects the normalization of the covariance estimate
type CovarianceType int

const (
	// Population divides by the number of samples
	Population CovarianceType = iota

	// Sample divides by the number of samples minus one (unbiased)
	Sample
)

func (c CovarianceType) String() string {
	switch c {
	case Population:
		return "population"
	case Sample:
		return "sample"
	default:
		return fmt.Sprintf("CovarianceType(%d)", int(c))
	}
}

// ParseCovarianceType accepts "population" or "sample"
func ParseCovarianceType(name string) (CovarianceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "population":
		return Population, nil
	case "sample", "unbiased":
		return Sample, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNormalize, name)
	}
}

var (
	ErrNoChannels       = errors.New("stats: no channels")
	ErrRaggedChannels   = errors.New("stats: channels differ in length")
	ErrTooFewSamples    = errors.New("stats: not enough samples for the estimate")
	ErrUnknownNormalize = errors.New("stats: unknown covariance type")
)

// Covariance estimates the channels x channels covariance of a multichannel
// signal. Each channel is centred on its own mean before the cross products
// are taken.
func Covariance(channels [][]float32, kind CovarianceType) (*mat.SymDense, error) {
	obs, err := observations(channels)
	if err != nil {
		return nil, err
	}

	samples, vars := obs.Dims()
	switch kind {
	case Sample:
		if samples < 2 {
			return nil, fmt.Errorf("%w: sample covariance needs 2, got %d", ErrTooFewSamples, samples)
		}
	case Population:
		if samples == 1 {
			return mat.NewSymDense(vars, nil), nil
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownNormalize, int(kind))
	}

	cov := mat.NewSymDense(vars, nil)
	stat.CovarianceMatrix(cov, obs, nil)

	if kind == Population {
		n := float64(samples)
		cov.ScaleSym((n-1)/n, cov)
	}
	return cov, nil
}

// Correlation returns the Pearson correlation matrix of the channels
func Correlation(channels [][]float32) (*mat.SymDense, error) {
	obs, err := observations(channels)
	if err != nil {
		return nil, err
	}

	samples, vars := obs.Dims()
	if samples < 2 {
		return nil, fmt.Errorf("%w: correlation needs 2, got %d", ErrTooFewSamples, samples)
	}

	corr := mat.NewSymDense(vars, nil)
	stat.CorrelationMatrix(corr, obs, nil)
	return corr, nil
}

// observations lays the channels out as columns, one row per sample
func observations(channels [][]float32) (*mat.Dense, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	samples := len(channels[0])
	if samples == 0 {
		return nil, fmt.Errorf("%w: channels are empty", ErrTooFewSamples)
	}
	for i, ch := range channels {
		if len(ch) != samples {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrRaggedChannels, i, len(ch), samples)
		}
	}

	obs := mat.NewDense(samples, len(channels), nil)
	for c, ch := range channels {
		for i, v := range ch {
			obs.Set(i, c, float64(v))
		}
	}
	return obs, nil
}
