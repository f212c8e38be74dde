package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum converts magnitude spectra into power, optionally in dB
type PowerSpectrum struct {
	floorDB float64
}

// NewPowerSpectrum creates a power spectrum calculator with a -120 dB floor
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{floorDB: -120}
}

// NewPowerSpectrumWithFloor creates a calculator whose log output is clamped at floorDB
func NewPowerSpectrumWithFloor(floorDB float64) *PowerSpectrum {
	return &PowerSpectrum{floorDB: floorDB}
}

// Compute returns |X|^2 for a magnitude spectrum
func (ps *PowerSpectrum) Compute(magnitudeSpectrum []float32) []float64 {
	power := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		m := float64(mag)
		power[i] = m * m
	}
	return power
}

// ComputeLog computes log power in dB, clamped at the floor
func (ps *PowerSpectrum) ComputeLog(magnitudeSpectrum []float32) []float64 {
	return ps.ToDecibels(ps.Compute(magnitudeSpectrum))
}

// ToDecibels converts power values to dB in place and returns them
func (ps *PowerSpectrum) ToDecibels(power []float64) []float64 {
	floor := math.Pow(10, ps.floorDB/10.0)
	for i, p := range power {
		power[i] = 10 * math.Log10(max(p, floor))
	}
	return power
}

// ComputeFromSTFT computes the power spectrogram of an STFT result
func (ps *PowerSpectrum) ComputeFromSTFT(stftResult *STFTResult) [][]float64 {
	power := make([][]float64, stftResult.TimeFrames)
	for t := range stftResult.TimeFrames {
		power[t] = ps.Compute(stftResult.Magnitude[t])
	}
	return power
}

// ComputeLogFromSTFT computes the log power spectrogram of an STFT result
func (ps *PowerSpectrum) ComputeLogFromSTFT(stftResult *STFTResult) [][]float64 {
	logPower := make([][]float64, stftResult.TimeFrames)
	for t := range stftResult.TimeFrames {
		logPower[t] = ps.ComputeLog(stftResult.Magnitude[t])
	}
	return logPower
}

// AverageFromSTFT returns the mean power per bin across all frames
func (ps *PowerSpectrum) AverageFromSTFT(stftResult *STFTResult) []float64 {
	avg := make([]float64, stftResult.FreqBins)
	if stftResult.TimeFrames == 0 {
		return avg
	}

	for _, frame := range ps.ComputeFromSTFT(stftResult) {
		floats.Add(avg, frame)
	}
	floats.Scale(1/float64(stftResult.TimeFrames), avg)
	return avg
}
