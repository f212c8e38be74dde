package stats

import (
	"math"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the low-order moments and range of a signal
type Summary struct {
	Samples  int     `json:"samples"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"excess_kurtosis"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	RMS      float64 `json:"rms"`
}

// Summarize computes sample moments of data. Skewness and kurtosis are zero
// when they are undefined (constant or very short signals).
func Summarize(data []float32) (*Summary, error) {
	if len(data) == 0 {
		return nil, ErrTooFewSamples
	}

	x := common.ToFloat64(data)
	s := &Summary{
		Samples: len(x),
		Min:     floats.Min(x),
		Max:     floats.Max(x),
		RMS:     common.RMS(data),
	}

	if len(x) == 1 {
		s.Mean = x[0]
		return s, nil
	}

	s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	if s.StdDev == 0 {
		return s, nil
	}

	// The bias corrections divide by n-2 and n-3
	if len(x) > 2 {
		s.Skewness = finiteOrZero(stat.Skew(x, nil))
	}
	if len(x) > 3 {
		s.Kurtosis = finiteOrZero(stat.ExKurtosis(x, nil))
	}
	return s, nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
