package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/algorithms/filters"
	"github.com/RyanBlaney/sonido-spectra/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectra/algorithms/stats"
	"github.com/RyanBlaney/sonido-spectra/algorithms/stockwell"
	"github.com/RyanBlaney/sonido-spectra/algorithms/wavelet"
	"github.com/RyanBlaney/sonido-spectra/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectra/analysis/config"
	"github.com/RyanBlaney/sonido-spectra/logging"
	"github.com/RyanBlaney/sonido-spectra/transcode"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoSignal          = errors.New("analysis: signal cannot be nil or empty")
	ErrInvalidSampleRate = errors.New("analysis: sample rate must be positive")
)

// Analyzer runs the configured transforms over a signal and summarises them
type Analyzer struct {
	config      *config.TransformConfig
	fft         *spectral.FFT
	stft        *spectral.STFT
	st          *stockwell.STransform
	cwt         *wavelet.CWT
	descriptors *spectral.DescriptorCalculator
	power       *spectral.PowerSpectrum
	logger      logging.Logger
}

// NewAnalyzer validates cfg and prepares the transforms. A nil cfg uses
// config.DefaultTransformConfig.
func NewAnalyzer(cfg *config.TransformConfig) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultTransformConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fft := spectral.NewFFTWithParallelThreshold(cfg.FFTParallelThreshold)

	return &Analyzer{
		config:      cfg,
		fft:         fft,
		stft:        spectral.NewSTFTWithFFT(fft),
		st:          stockwell.NewSTransformWithFFT(fft),
		cwt:         wavelet.NewCWT(),
		descriptors: spectral.NewDescriptorCalculator(),
		power:       spectral.NewPowerSpectrum(),
		logger: logging.WithFields(logging.Fields{
			"component": "signal_analyzer",
		}),
	}, nil
}

// Analyze runs every enabled stage. Stages that cannot run on this signal
// (too short for the window, cutoff above Nyquist) are skipped with a
// warning in the report; precondition failures inside a stage abort the
// analysis with no partial report.
func (a *Analyzer) Analyze(ctx context.Context, signal *transcode.SignalData) (*AnalysisReport, error) {
	if signal == nil || len(signal.Samples) == 0 {
		return nil, ErrNoSignal
	}
	if signal.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, signal.SampleRate)
	}

	start := time.Now()
	logger := a.logger.WithFields(logging.Fields{
		"function":    "Analyze",
		"source":      signal.Source,
		"sample_rate": signal.SampleRate,
		"samples":     len(signal.Samples),
	})
	logger.Debug("Starting analysis")

	summary, err := stats.Summarize(signal.Samples)
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		Source:     signal.Source,
		SampleRate: signal.SampleRate,
		Samples:    len(signal.Samples),
		Duration:   signal.Duration,
		Summary:    summary,
	}
	warn := func(msg string, fields logging.Fields) {
		logger.Warn(msg, fields)
		report.Warnings = append(report.Warnings, msg)
	}

	samples := signal.Samples
	if a.config.RemoveDC {
		samples = a.removeDC(samples, signal.SampleRate)
	}
	if a.config.PreEmphasis > 0 {
		pe, err := filters.NewPreEmphasis(a.config.PreEmphasis)
		if err != nil {
			return nil, fmt.Errorf("pre-emphasis: %w", err)
		}
		samples = pe.ProcessBuffer(samples)
	}

	type stage struct {
		name    string
		enabled bool
		run     func() error
	}
	stages := []stage{
		{"spectrum", true, func() (err error) {
			report.Spectrum, err = a.analyzeSpectrum(samples, signal.SampleRate, warn)
			return err
		}},
		{"stft", a.config.EnableSTFT, func() (err error) {
			report.STFT, err = a.analyzeSTFT(samples, signal.SampleRate, warn)
			return err
		}},
		{"stockwell", a.config.EnableST, func() (err error) {
			report.Stockwell, err = a.analyzeStockwell(samples, signal.SampleRate, warn)
			return err
		}},
		{"wavelet", a.config.EnableCWT, func() (err error) {
			report.Wavelet, err = a.analyzeWavelet(samples)
			return err
		}},
		{"filter", a.config.EnableFilter, func() (err error) {
			report.Filter, err = a.analyzeFilter(samples, signal.SampleRate, warn)
			return err
		}},
	}

	for _, s := range stages {
		if !s.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stageStart := time.Now()
		if err := s.run(); err != nil {
			logger.Error(err, "Analysis stage failed", logging.Fields{"stage": s.name})
			return nil, fmt.Errorf("analysis: %s: %w", s.name, err)
		}
		logger.Debug("Stage completed", logging.Fields{
			"stage":   s.name,
			"elapsed": time.Since(stageStart).String(),
		})
	}

	report.ProcessingTime = time.Since(start)
	logger.Info("Analysis completed", logging.Fields{
		"warnings":        len(report.Warnings),
		"processing_time": report.ProcessingTime.String(),
	})
	return report, nil
}

// AnalyzeChannels relates the channels of a multichannel source through their
// covariance and correlation matrices.
func (a *Analyzer) AnalyzeChannels(channels [][]float32) (*ChannelReport, error) {
	kind, err := stats.ParseCovarianceType(a.config.Covariance)
	if err != nil {
		return nil, err
	}

	cov, err := stats.Covariance(channels, kind)
	if err != nil {
		return nil, err
	}

	report := &ChannelReport{
		Count:      len(channels),
		Covariance: rows(cov),
	}

	// Correlation needs at least two samples
	if len(channels[0]) > 1 {
		corr, err := stats.Correlation(channels)
		if err != nil {
			return nil, err
		}
		report.Correlation = rows(corr)
	}

	a.logger.Debug("Channel statistics computed", logging.Fields{
		"channels":   len(channels),
		"covariance": kind.String(),
	})
	return report, nil
}

func (a *Analyzer) removeDC(samples []float32, sampleRate int) []float32 {
	dc := filters.NewDCRemoval()
	if a.config.DCCutoffHz > 0 {
		dc = filters.NewDCRemovalWithCutoff(sampleRate, a.config.DCCutoffHz)
	}
	return dc.ProcessBuffer(samples)
}

func (a *Analyzer) analyzeSpectrum(samples []float32, sampleRate int, warn func(string, logging.Fields)) (*SpectrumReport, error) {
	n := common.NextPowerOfTwo(len(samples))
	padded := make([]float32, n)
	copy(padded, samples)

	spectrum, err := a.fft.ComputeReal(padded)
	if err != nil {
		return nil, err
	}

	symmetric := spectral.IsConjugateSymmetric(spectrum, a.config.SymmetryTolerance)
	if !symmetric {
		warn("spectrum is not conjugate symmetric, inverse real transform is not exact", logging.Fields{
			"fft_size": n,
		})
	}

	restored, err := a.fft.ComputeInverseReal(spectrum)
	if err != nil {
		return nil, err
	}

	bins := n/2 + 1
	magnitude := make([]float32, bins)
	for k := range bins {
		magnitude[k] = float32(cmplx.Abs(complex128(spectrum[k])))
	}

	return &SpectrumReport{
		FFTSize:            n,
		ZeroPadded:         n - len(samples),
		Descriptors:        a.descriptors.Compute(magnitude, spectral.RFreqs(n, float32(sampleRate))),
		TotalPower:         floats.Sum(a.power.Compute(magnitude)),
		ConjugateSymmetric: symmetric,
		RoundTripError:     common.MaxAbsDiff(restored, padded),
	}, nil
}

func (a *Analyzer) analyzeSTFT(samples []float32, sampleRate int, warn func(string, logging.Fields)) (*STFTReport, error) {
	if len(samples) < a.config.WindowSize {
		warn("signal shorter than the STFT window, spectrogram skipped", logging.Fields{
			"window_size": a.config.WindowSize,
			"samples":     len(samples),
		})
		return nil, nil
	}

	window, err := windowing.New(a.config.WindowType, a.config.WindowSize, false)
	if err != nil {
		return nil, err
	}

	result, err := a.stft.ComputeWithWindow(samples, a.config.WindowSize, a.config.HopSize, sampleRate, window)
	if err != nil {
		return nil, err
	}

	average := a.power.AverageFromSTFT(result)
	dominant := result.Frequencies[floats.MaxIdx(average)]

	var meanFlux, peakFluxTime float64
	if flux := spectral.Flux(result); len(flux) > 0 {
		meanFlux = stat.Mean(flux, nil)
		// flux[t] compares frame t+1 with frame t
		peakFluxTime = float64(floats.MaxIdx(flux)+1) * result.TimeResolution
	}

	return &STFTReport{
		Frames:            result.TimeFrames,
		Bins:              result.FreqBins,
		FFTSize:           result.FFTSize,
		WindowType:        string(a.config.WindowType),
		FreqResolution:    result.FreqResolution,
		TimeResolution:    result.TimeResolution,
		MeanDescriptors:   meanDescriptors(a.descriptors.ComputeFrames(result)),
		DominantFrequency: float64(dominant),
		MeanFlux:          meanFlux,
		PeakFluxTime:      peakFluxTime,
		AveragePowerDB:    a.power.ToDecibels(average),
	}, nil
}

func (a *Analyzer) analyzeStockwell(samples []float32, sampleRate int, warn func(string, logging.Fields)) (*StockwellReport, error) {
	seg, offset := a.config.STSegment, a.config.STOffset
	if offset+seg > len(samples) {
		warn("signal too short for the S-transform segment, skipped", logging.Fields{
			"offset":  offset,
			"segment": seg,
			"samples": len(samples),
		})
		return nil, nil
	}
	segment := samples[offset : offset+seg]

	matrix, err := a.st.Compute(segment)
	if err != nil {
		return nil, err
	}

	restored, err := a.st.ComputeInverse(matrix)
	if err != nil {
		return nil, err
	}

	// Row 0 is the mean, so the dominant voice is searched from row 1
	dominant, best := 0, -1.0
	for f := 1; f < len(matrix); f++ {
		var energy float64
		for _, v := range matrix[f] {
			c := complex128(v)
			energy += real(c)*real(c) + imag(c)*imag(c)
		}
		if energy > best {
			dominant, best = f, energy
		}
	}

	return &StockwellReport{
		Offset:              offset,
		Segment:             seg,
		Voices:              len(matrix),
		DominantFrequency:   float64(dominant) * float64(sampleRate) / float64(seg),
		ReconstructionError: common.MaxAbsDiff(restored, segment),
	}, nil
}

func (a *Analyzer) analyzeWavelet(samples []float32) (*WaveletReport, error) {
	kind, err := wavelet.ParseKind(a.config.Wavelet)
	if err != nil {
		return nil, err
	}
	w := wavelet.Wavelet{Kind: kind, Omega: a.config.Omega}

	segment := samples[:min(a.config.CWTSegment, len(samples))]
	scales := wavelet.GeometricScales(a.config.MinScale, a.config.MaxScale, a.config.NumScales)

	coefficients, err := a.cwt.Compute(segment, scales, w)
	if err != nil {
		return nil, err
	}

	energy := make([]float64, len(scales))
	for i, row := range wavelet.Scalogram(coefficients) {
		for _, m := range row {
			energy[i] += float64(m) * float64(m)
		}
	}

	return &WaveletReport{
		Wavelet:       kind.String(),
		Omega:         w.Omega,
		Segment:       len(segment),
		Scales:        scales,
		ScaleEnergy:   energy,
		DominantScale: scales[floats.MaxIdx(energy)],
	}, nil
}

func (a *Analyzer) analyzeFilter(samples []float32, sampleRate int, warn func(string, logging.Fields)) (*FilterReport, error) {
	coeffs := a.config.FilterCoefficients
	if len(coeffs) == 0 {
		var err error
		coeffs, err = filters.LowPass(a.config.FilterTaps, a.config.LowPassHz, float64(sampleRate), a.config.FilterWindow)
		if errors.Is(err, filters.ErrInvalidCutoff) {
			warn("low-pass cutoff outside (0, nyquist), filter skipped", logging.Fields{
				"lowpass_hz":  a.config.LowPassHz,
				"sample_rate": sampleRate,
			})
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	fir, err := filters.NewFIRFilter(coeffs)
	if err != nil {
		return nil, err
	}

	out, err := fir.Process(samples)
	if err != nil {
		return nil, err
	}

	return &FilterReport{
		Taps:          len(coeffs),
		FFTSize:       fir.FFTSize(),
		BlockLength:   fir.BlockLength(),
		OutputSamples: len(out),
		InputRMS:      common.RMS(samples),
		OutputRMS:     common.RMS(out),
	}, nil
}

func meanDescriptors(frames []spectral.Descriptors) spectral.Descriptors {
	var mean spectral.Descriptors
	if len(frames) == 0 {
		return mean
	}

	for _, d := range frames {
		mean.Centroid += d.Centroid
		mean.Bandwidth += d.Bandwidth
		mean.Rolloff += d.Rolloff
		mean.Flatness += d.Flatness
		mean.PeakFreq += d.PeakFreq
	}

	n := float64(len(frames))
	mean.Centroid /= n
	mean.Bandwidth /= n
	mean.Rolloff /= n
	mean.Flatness /= n
	mean.PeakFreq /= n
	return mean
}

// rows copies a symmetric matrix into nested slices, mapping undefined
// entries (NaN from constant channels) to zero so the report serializes
func rows(m mat.Symmetric) [][]float64 {
	n := m.SymmetricDim()
	out := make([][]float64, n)
	for i := range n {
		out[i] = make([]float64, n)
		for j := range n {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			out[i][j] = v
		}
	}
	return out
}
