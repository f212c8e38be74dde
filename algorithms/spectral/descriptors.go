package spectral

import (
	"math"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
)

// Descriptors summarises a one-sided magnitude spectrum
type Descriptors struct {
	Centroid  float64 `json:"centroid"`  // Magnitude-weighted mean frequency (Hz)
	Bandwidth float64 `json:"bandwidth"` // Magnitude-weighted spread around the centroid (Hz)
	Rolloff   float64 `json:"rolloff"`   // Frequency below which rolloffThreshold of the energy lies (Hz)
	Flatness  float64 `json:"flatness"`  // Geometric over arithmetic mean, 0 (tonal) to 1 (noise)
	PeakFreq  float64 `json:"peak_freq"` // Frequency of the largest bin (Hz)
}

// DescriptorCalculator computes Descriptors against a fixed frequency axis
type DescriptorCalculator struct {
	rolloffThreshold float64
	minMagnitude     float64
}

// NewDescriptorCalculator creates a calculator with an 85% rolloff threshold
func NewDescriptorCalculator() *DescriptorCalculator {
	return &DescriptorCalculator{
		rolloffThreshold: 0.85,
		minMagnitude:     1e-10, // Avoid log(0) in the flatness
	}
}

// Compute computes the descriptors of magnitude, whose bins sit at freqs
func (dc *DescriptorCalculator) Compute(magnitude, freqs []float32) Descriptors {
	n := min(len(magnitude), len(freqs))
	if n == 0 {
		return Descriptors{}
	}

	var d Descriptors

	weighted, total, energy := 0.0, 0.0, 0.0
	for i := range n {
		m := float64(magnitude[i])
		weighted += float64(freqs[i]) * m
		total += m
		energy += m * m
	}
	d.PeakFreq = float64(freqs[common.PeakIndex(magnitude[:n])])

	if total == 0 {
		return d
	}
	d.Centroid = weighted / total

	spread := 0.0
	for i := range n {
		diff := float64(freqs[i]) - d.Centroid
		spread += diff * diff * float64(magnitude[i])
	}
	d.Bandwidth = math.Sqrt(spread / total)

	target := dc.rolloffThreshold * energy
	cumulative := 0.0
	d.Rolloff = float64(freqs[n-1])
	for i := range n {
		m := float64(magnitude[i])
		cumulative += m * m
		if cumulative >= target {
			d.Rolloff = float64(freqs[i])
			break
		}
	}

	// Both means run over the same bins, those above minMagnitude
	logSum, linSum, valid := 0.0, 0.0, 0
	for i := range n {
		if m := float64(magnitude[i]); m > dc.minMagnitude {
			logSum += math.Log(m)
			linSum += m
			valid++
		}
	}
	if valid > 0 {
		geometric := math.Exp(logSum / float64(valid))
		arithmetic := linSum / float64(valid)
		d.Flatness = min(1.0, geometric/arithmetic)
	}

	return d
}

// ComputeFrames computes descriptors for every frame of an STFT result
func (dc *DescriptorCalculator) ComputeFrames(stftResult *STFTResult) []Descriptors {
	out := make([]Descriptors, stftResult.TimeFrames)
	for t, frame := range stftResult.Magnitude {
		out[t] = dc.Compute(frame, stftResult.Frequencies)
	}
	return out
}
