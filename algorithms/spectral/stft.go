package spectral

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectra/logging"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft    *FFT
	logger logging.Logger
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Complex        [][]complex64 `json:"-"`               // Frames x FFTSize full spectra (not serialized)
	Magnitude      [][]float32   `json:"magnitude"`       // Frames x (FFTSize/2+1) one-sided magnitudes
	Frequencies    []float32     `json:"frequencies"`     // Bin frequencies of the magnitude columns (Hz)
	TimeFrames     int           `json:"time_frames"`     // Number of time frames
	FreqBins       int           `json:"freq_bins"`       // One-sided bins per frame
	FFTSize        int           `json:"fft_size"`        // Zero-padded transform length
	SampleRate     int           `json:"sample_rate"`     // Sample rate
	WindowSize     int           `json:"window_size"`     // Analysis window length
	HopSize        int           `json:"hop_size"`        // Hop size between frames
	FreqResolution float64       `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64       `json:"time_resolution"` // Time resolution (seconds/frame)
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float32) error
	GetSize() int
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return NewSTFTWithFFT(NewFFT())
}

// NewSTFTWithFFT creates an STFT calculator sharing an existing FFT
func NewSTFTWithFFT(fft *FFT) *STFT {
	return &STFT{
		fft: fft,
		logger: logging.WithFields(logging.Fields{
			"component": "stft",
		}),
	}
}

// Compute computes the STFT with the sine taper sin(pi*(n+0.5)/windowSize)
func (s *STFT) Compute(signal []float32, windowSize, hopSize, sampleRate int) (*STFTResult, error) {
	if windowSize <= 0 {
		return nil, ErrInvalidWindow
	}
	return s.ComputeWithWindow(signal, windowSize, hopSize, sampleRate, windowing.NewSine(windowSize))
}

// ComputeWithWindow computes the STFT with a custom window, processing frames
// on a worker pool. Each frame is windowed, zero-padded to the next power of
// two >= windowSize and transformed with the real FFT.
func (s *STFT) ComputeWithWindow(signal []float32, windowSize, hopSize, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	if windowSize <= 0 {
		return nil, ErrInvalidWindow
	}
	if hopSize <= 0 {
		return nil, ErrInvalidHop
	}
	if windowSize > len(signal) {
		return nil, fmt.Errorf("%w: window %d, signal %d", ErrWindowTooLarge, windowSize, len(signal))
	}
	if window != nil && window.GetSize() != windowSize {
		return nil, fmt.Errorf("%w: window has %d points, frames have %d", ErrLengthMismatch, window.GetSize(), windowSize)
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	fftSize := common.NextPowerOfTwo(windowSize)
	freqBins := fftSize/2 + 1

	logger := s.logger.WithFields(logging.Fields{
		"function":      "ComputeWithWindow",
		"signal_length": len(signal),
		"window_size":   windowSize,
		"hop_size":      hopSize,
		"fft_size":      fftSize,
		"frames":        numFrames,
	})
	logger.Debug("Computing STFT")

	complexSpectrum := make([][]complex64, numFrames)
	magnitude := make([][]float32, numFrames)
	for i := range numFrames {
		complexSpectrum[i] = make([]complex64, fftSize)
		magnitude[i] = make([]float32, freqBins)
	}

	numWorkers := common.WorkerCount(numFrames)

	jobs := make(chan int, numFrames)
	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		frameErr error
	)

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffers for this worker
			windowed := make([]float32, windowSize)
			padded := make([]float32, fftSize)
			spectrum := make([]complex128, fftSize)

			for frameIdx := range jobs {
				start := frameIdx * hopSize
				copy(windowed, signal[start:start+windowSize])

				if window != nil {
					if err := window.ApplyInPlace(windowed); err != nil {
						errOnce.Do(func() { frameErr = err })
						continue
					}
				}

				clear(padded)
				copy(padded, windowed)

				if err := s.fft.RealTransform(spectrum, padded); err != nil {
					errOnce.Do(func() { frameErr = err })
					continue
				}

				row := complexSpectrum[frameIdx]
				for i, v := range spectrum {
					row[i] = complex64(v)
				}
				for i := range freqBins {
					magnitude[frameIdx][i] = float32(cmplx.Abs(spectrum[i]))
				}
			}
		}()
	}

	wg.Wait()

	if frameErr != nil {
		logger.Error(frameErr, "STFT frame failed")
		return nil, fmt.Errorf("stft frame: %w", frameErr)
	}

	result := &STFTResult{
		Complex:        complexSpectrum,
		Magnitude:      magnitude,
		Frequencies:    RFreqs(fftSize, float32(sampleRate)),
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		FFTSize:        fftSize,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: frequencyResolution(sampleRate, fftSize),
		TimeResolution: timeResolution(sampleRate, hopSize),
	}

	logger.Debug("STFT computation completed", logging.Fields{
		"freq_bins":       result.FreqBins,
		"freq_resolution": result.FreqResolution,
	})

	return result, nil
}

// ComputeMagnitude returns only the one-sided magnitude spectrogram,
// discarding phase
func (s *STFT) ComputeMagnitude(signal []float32, windowSize, hopSize int) ([][]float32, error) {
	result, err := s.Compute(signal, windowSize, hopSize, 0)
	if err != nil {
		return nil, err
	}
	return result.Magnitude, nil
}

func frequencyResolution(sampleRate, fftSize int) float64 {
	if fftSize == 0 {
		return 0
	}
	return float64(sampleRate) / float64(fftSize)
}

func timeResolution(sampleRate, hopSize int) float64 {
	if sampleRate == 0 {
		return 0
	}
	return float64(hopSize) / float64(sampleRate)
}
