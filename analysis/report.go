package analysis

import (
	"time"

	"github.com/RyanBlaney/sonido-spectra/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectra/algorithms/stats"
)

// AnalysisReport is the JSON-serializable outcome of one Analyze call.
// Sections for disabled or skipped stages are nil.
type AnalysisReport struct {
	Source         string           `json:"source,omitempty"`
	SampleRate     int              `json:"sample_rate"`
	Samples        int              `json:"samples"`
	Duration       time.Duration    `json:"duration"`
	Summary        *stats.Summary   `json:"summary"`
	Spectrum       *SpectrumReport  `json:"spectrum,omitempty"`
	STFT           *STFTReport      `json:"stft,omitempty"`
	Stockwell      *StockwellReport `json:"stockwell,omitempty"`
	Wavelet        *WaveletReport   `json:"wavelet,omitempty"`
	Filter         *FilterReport    `json:"filter,omitempty"`
	Channels       *ChannelReport   `json:"channels,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	ProcessingTime time.Duration    `json:"processing_time"`
}

// SpectrumReport describes the whole-signal FFT
type SpectrumReport struct {
	FFTSize            int                  `json:"fft_size"`
	ZeroPadded         int                  `json:"zero_padded"`
	Descriptors        spectral.Descriptors `json:"descriptors"`
	TotalPower         float64              `json:"total_power"`
	ConjugateSymmetric bool                 `json:"conjugate_symmetric"`
	RoundTripError     float64              `json:"round_trip_error"`
}

// STFTReport summarises the spectrogram
type STFTReport struct {
	Frames            int                  `json:"frames"`
	Bins              int                  `json:"bins"`
	FFTSize           int                  `json:"fft_size"`
	WindowType        string               `json:"window_type"`
	FreqResolution    float64              `json:"freq_resolution"`
	TimeResolution    float64              `json:"time_resolution"`
	MeanDescriptors   spectral.Descriptors `json:"mean_descriptors"`
	DominantFrequency float64              `json:"dominant_frequency"`
	MeanFlux          float64              `json:"mean_flux"`
	PeakFluxTime      float64              `json:"peak_flux_time"`
	AveragePowerDB    []float64            `json:"average_power_db"`
}

// StockwellReport summarises the S-transform of one segment
type StockwellReport struct {
	Offset              int     `json:"offset"`
	Segment             int     `json:"segment"`
	Voices              int     `json:"voices"`
	DominantFrequency   float64 `json:"dominant_frequency"`
	ReconstructionError float64 `json:"reconstruction_error"`
}

// WaveletReport summarises the CWT of one segment
type WaveletReport struct {
	Wavelet       string    `json:"wavelet"`
	Omega         float32   `json:"omega"`
	Segment       int       `json:"segment"`
	Scales        []float32 `json:"scales"`
	ScaleEnergy   []float64 `json:"scale_energy"`
	DominantScale float32   `json:"dominant_scale"`
}

// FilterReport describes the FIR pass
type FilterReport struct {
	Taps          int     `json:"taps"`
	FFTSize       int     `json:"fft_size"`
	BlockLength   int     `json:"block_length"`
	OutputSamples int     `json:"output_samples"`
	InputRMS      float64 `json:"input_rms"`
	OutputRMS     float64 `json:"output_rms"`
}

// ChannelReport relates the channels of a multichannel source
type ChannelReport struct {
	Count       int         `json:"count"`
	Covariance  [][]float64 `json:"covariance"`
	Correlation [][]float64 `json:"correlation,omitempty"`
}
