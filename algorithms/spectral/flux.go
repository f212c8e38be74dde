package spectral

import "math"

// Flux returns the half-wave rectified spectral flux between consecutive
// frames of an STFT magnitude matrix: for each frame t >= 1, the L2 norm of
// the per-bin magnitude increases over frame t-1. Decreases are ignored so
// onsets dominate. The result has TimeFrames-1 entries.
func Flux(result *STFTResult) []float64 {
	if result == nil || len(result.Magnitude) < 2 {
		return []float64{}
	}

	flux := make([]float64, len(result.Magnitude)-1)
	for t := 1; t < len(result.Magnitude); t++ {
		prev, cur := result.Magnitude[t-1], result.Magnitude[t]
		sum := 0.0
		for f := range min(len(prev), len(cur)) {
			if diff := float64(cur[f]) - float64(prev[f]); diff > 0 {
				sum += diff * diff
			}
		}
		flux[t-1] = math.Sqrt(sum)
	}
	return flux
}
