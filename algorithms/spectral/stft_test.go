package spectral

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-spectra/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectra/internal/testutil"
)

func TestSTFTShape(t *testing.T) {
	tests := []struct {
		name       string
		signalLen  int
		windowSize int
		hopSize    int
		wantFrames int
		wantFFT    int
	}{
		{"exact fit", 1024, 256, 128, 7, 256},
		{"trailing samples dropped", 1000, 256, 128, 6, 256},
		{"window equals signal", 64, 64, 10, 1, 64},
		{"non power of two window", 1000, 100, 50, 19, 128},
	}

	stft := NewSTFT()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := testutil.RandomSignal(tt.signalLen, 1)

			result, err := stft.Compute(signal, tt.windowSize, tt.hopSize, 8000)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}

			if result.TimeFrames != tt.wantFrames || len(result.Complex) != tt.wantFrames {
				t.Errorf("frames = %d (%d rows), want %d", result.TimeFrames, len(result.Complex), tt.wantFrames)
			}
			if result.FFTSize != tt.wantFFT || len(result.Complex[0]) != tt.wantFFT {
				t.Errorf("fft size = %d, want %d", result.FFTSize, tt.wantFFT)
			}
			if result.FreqBins != tt.wantFFT/2+1 || len(result.Magnitude[0]) != tt.wantFFT/2+1 {
				t.Errorf("freq bins = %d, want %d", result.FreqBins, tt.wantFFT/2+1)
			}
			if len(result.Frequencies) != result.FreqBins {
				t.Errorf("frequency axis has %d entries, want %d", len(result.Frequencies), result.FreqBins)
			}
		})
	}
}

func TestSTFTFrameMatchesManualTransform(t *testing.T) {
	const (
		windowSize = 48
		hopSize    = 16
	)
	signal := testutil.RandomSignal(200, 2)

	result, err := NewSTFT().Compute(signal, windowSize, hopSize, 1000)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Frame 3 by hand: sine window, zero-pad to 64, real FFT
	frame := make([]float32, 64)
	start := 3 * hopSize
	for n := range windowSize {
		w := math.Sin(math.Pi * (float64(n) + 0.5) / windowSize)
		frame[n] = signal[start+n] * float32(w)
	}
	want, err := NewFFT().ComputeReal(frame)
	if err != nil {
		t.Fatalf("ComputeReal failed: %v", err)
	}

	testutil.RequireComplexNearlyEqual(t, result.Complex[3], want, 1e-5)
}

func TestSTFTLocatesSinePeak(t *testing.T) {
	const (
		sampleRate = 8000.0
		freq       = 1000.0
	)
	signal := testutil.Sine(4096, freq, sampleRate, 1)

	result, err := NewSTFT().Compute(signal, 512, 256, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// 1000 Hz at 8000/512 Hz per bin lands on bin 64
	for frameIdx, frame := range result.Magnitude {
		peak := 0
		for i, m := range frame {
			if m > frame[peak] {
				peak = i
			}
		}
		if peak != 64 {
			t.Fatalf("frame %d: peak at bin %d, want 64", frameIdx, peak)
		}
	}

	if result.FreqResolution != sampleRate/512 {
		t.Errorf("freq resolution = %v, want %v", result.FreqResolution, sampleRate/512)
	}
}

func TestSTFTWithHannWindow(t *testing.T) {
	hann, err := windowing.New(windowing.TypeHann, 128, false)
	if err != nil {
		t.Fatalf("windowing.New failed: %v", err)
	}

	result, err := NewSTFT().ComputeWithWindow(testutil.RandomSignal(512, 3), 128, 64, 8000, hann)
	if err != nil {
		t.Fatalf("ComputeWithWindow failed: %v", err)
	}
	if result.TimeFrames != 7 {
		t.Errorf("frames = %d, want 7", result.TimeFrames)
	}
}

func TestSTFTPreconditions(t *testing.T) {
	stft := NewSTFT()
	signal := testutil.RandomSignal(100, 4)

	tests := []struct {
		name       string
		signal     []float32
		windowSize int
		hopSize    int
		window     Window
		wantErr    error
	}{
		{"empty signal", nil, 16, 8, windowing.NewSine(16), ErrEmptySignal},
		{"window larger than signal", signal, 128, 8, windowing.NewSine(128), ErrWindowTooLarge},
		{"zero hop", signal, 16, 0, windowing.NewSine(16), ErrInvalidHop},
		{"zero window", signal, 0, 8, nil, ErrInvalidWindow},
		{"window size mismatch", signal, 16, 8, windowing.NewSine(32), ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := stft.ComputeWithWindow(tt.signal, tt.windowSize, tt.hopSize, 8000, tt.window)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if result != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestComputeMagnitudeDropsPhase(t *testing.T) {
	signal := testutil.RandomSignal(256, 5)

	mag, err := NewSTFT().ComputeMagnitude(signal, 64, 32)
	if err != nil {
		t.Fatalf("ComputeMagnitude failed: %v", err)
	}
	if len(mag) != 7 || len(mag[0]) != 33 {
		t.Fatalf("shape = %dx%d, want 7x33", len(mag), len(mag[0]))
	}
	for _, frame := range mag {
		for _, m := range frame {
			if m < 0 {
				t.Fatalf("negative magnitude %v", m)
			}
		}
	}
}

func TestPowerSpectrumAndDescriptors(t *testing.T) {
	signal := testutil.Sine(2048, 500, 4000, 1)

	result, err := NewSTFT().Compute(signal, 256, 256, 4000)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	ps := NewPowerSpectrum()
	power := ps.ComputeFromSTFT(result)
	if len(power) != result.TimeFrames || len(power[0]) != result.FreqBins {
		t.Fatalf("power shape = %dx%d", len(power), len(power[0]))
	}
	mag := float64(result.Magnitude[0][32])
	if math.Abs(power[0][32]-mag*mag) > 1e-6*mag*mag {
		t.Errorf("power = %v, want %v", power[0][32], mag*mag)
	}

	logPower := ps.ComputeLogFromSTFT(result)
	for _, v := range logPower[0] {
		if v < -120 {
			t.Fatalf("log power %v below floor", v)
		}
	}

	avg := ps.AverageFromSTFT(result)
	if len(avg) != result.FreqBins {
		t.Fatalf("average has %d bins, want %d", len(avg), result.FreqBins)
	}

	desc := NewDescriptorCalculator().ComputeFrames(result)
	if len(desc) != result.TimeFrames {
		t.Fatalf("got %d descriptor frames, want %d", len(desc), result.TimeFrames)
	}
	if desc[0].PeakFreq != 500 {
		t.Errorf("peak frequency = %v, want 500", desc[0].PeakFreq)
	}
	if desc[0].Centroid < 400 || desc[0].Centroid > 600 {
		t.Errorf("centroid = %v, want near 500", desc[0].Centroid)
	}
	if desc[0].Flatness < 0 || desc[0].Flatness > 1 {
		t.Errorf("flatness %v out of range", desc[0].Flatness)
	}
}

func TestDescriptorFlatness(t *testing.T) {
	freqs := []float32{0, 100, 200, 300}
	tests := []struct {
		name      string
		magnitude []float32
		want      float64
	}{
		{"flat", []float32{1, 1, 1, 1}, 1},
		{"silent bins are skipped", []float32{0, 2, 2, 0}, 1},
		{"uneven", []float32{4, 1, 0, 0}, 0.8},
		{"silence", []float32{0, 0, 0, 0}, 0},
	}

	dc := NewDescriptorCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dc.Compute(tt.magnitude, freqs).Flatness
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("flatness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFluxRisesAtOnset(t *testing.T) {
	result := &STFTResult{
		Magnitude: [][]float32{
			{1, 1, 1},
			{1, 1, 1},
			{4, 1, 5},
			{0, 0, 0},
		},
	}

	got := Flux(result)
	want := []float64{0, 5, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("flux[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if len(Flux(&STFTResult{Magnitude: [][]float32{{1}}})) != 0 {
		t.Error("a single frame has no flux")
	}
}
