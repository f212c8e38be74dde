package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/algorithms/stats"
	"github.com/RyanBlaney/sonido-spectra/algorithms/wavelet"
	"github.com/RyanBlaney/sonido-spectra/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectra/logging"
)

var ErrInvalidConfig = errors.New("config: invalid transform configuration")

// TransformConfig selects which transforms an analysis runs and how
type TransformConfig struct {
	// Preprocessing
	RemoveDC    bool    `json:"remove_dc"`
	DCCutoffHz  float64 `json:"dc_cutoff_hz"`  // 0 keeps the default pole
	PreEmphasis float64 `json:"pre_emphasis"` // first-difference coefficient, 0 disables

	// Spectral
	FFTParallelThreshold int            `json:"fft_parallel_threshold"` // 0 disables parallel branches
	SymmetryTolerance    float64        `json:"symmetry_tolerance"`
	EnableSTFT           bool           `json:"enable_stft"`
	WindowSize           int            `json:"window_size"`
	HopSize              int            `json:"hop_size"`
	WindowType           windowing.Type `json:"window_type"`

	// Stockwell
	EnableST  bool `json:"enable_st"`
	STSegment int  `json:"st_segment"` // power of two
	STOffset  int  `json:"st_offset"`

	// Wavelet
	EnableCWT  bool    `json:"enable_cwt"`
	Wavelet    string  `json:"wavelet"`
	Omega      float32 `json:"omega"`
	MinScale   float32 `json:"min_scale"`
	MaxScale   float32 `json:"max_scale"`
	NumScales  int     `json:"num_scales"`
	CWTSegment int     `json:"cwt_segment"`

	// FIR filtering
	EnableFilter       bool           `json:"enable_filter"`
	FilterCoefficients []float32      `json:"filter_coefficients,omitempty"` // overrides the low-pass design
	LowPassHz          float64        `json:"lowpass_hz"`
	FilterTaps         int            `json:"filter_taps"`
	FilterWindow       windowing.Type `json:"filter_window"`

	// Multichannel sources
	Covariance string `json:"covariance"` // "sample" or "population"

	LogLevel string `json:"log_level"`
}

// DefaultTransformConfig returns the configuration used by the CLI when no
// file is given
func DefaultTransformConfig() *TransformConfig {
	return &TransformConfig{
		RemoveDC: true,

		FFTParallelThreshold: 1 << 14,
		SymmetryTolerance:    1e-4,
		EnableSTFT:           true,
		WindowSize:           1024,
		HopSize:              256,
		WindowType:           windowing.TypeSine,

		EnableST:  true,
		STSegment: 256,

		EnableCWT:  true,
		Wavelet:    wavelet.Morlet.String(),
		Omega:      wavelet.DefaultOmega,
		MinScale:   1,
		MaxScale:   64,
		NumScales:  16,
		CWTSegment: 512,

		EnableFilter: true,
		LowPassHz:    4000,
		FilterTaps:   101,
		FilterWindow: windowing.TypeHamming,

		Covariance: "sample",

		LogLevel: "info",
	}
}

// LoadTransformConfig reads a JSON file over the defaults and validates it
func LoadTransformConfig(path string) (*TransformConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := DefaultTransformConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting
func (c *TransformConfig) Validate() error {
	if c.FFTParallelThreshold < 0 {
		return invalid("fft_parallel_threshold must not be negative, got %d", c.FFTParallelThreshold)
	}
	if c.SymmetryTolerance < 0 {
		return invalid("symmetry_tolerance must not be negative, got %g", c.SymmetryTolerance)
	}
	if !(c.PreEmphasis >= 0 && c.PreEmphasis < 1) {
		return invalid("pre_emphasis must lie in [0, 1), got %g", c.PreEmphasis)
	}

	if c.EnableSTFT {
		if c.WindowSize <= 0 {
			return invalid("window_size must be positive, got %d", c.WindowSize)
		}
		if c.HopSize <= 0 {
			return invalid("hop_size must be positive, got %d", c.HopSize)
		}
		if _, err := windowing.New(c.WindowType, c.WindowSize, false); err != nil {
			return invalid("window_type: %v", err)
		}
	}

	if c.EnableST {
		if !common.IsPowerOfTwo(c.STSegment) {
			return invalid("st_segment must be a power of two, got %d", c.STSegment)
		}
		if c.STOffset < 0 {
			return invalid("st_offset must not be negative, got %d", c.STOffset)
		}
	}

	if c.EnableCWT {
		kind, err := wavelet.ParseKind(c.Wavelet)
		if err != nil {
			return invalid("wavelet: %v", err)
		}
		if err := (wavelet.Wavelet{Kind: kind, Omega: c.Omega}).Validate(); err != nil {
			return invalid("omega: %v", err)
		}
		if c.MinScale <= 0 || c.MaxScale < c.MinScale {
			return invalid("scales must satisfy 0 < min_scale <= max_scale, got %g..%g", c.MinScale, c.MaxScale)
		}
		if c.NumScales <= 0 {
			return invalid("num_scales must be positive, got %d", c.NumScales)
		}
		if c.CWTSegment <= 0 {
			return invalid("cwt_segment must be positive, got %d", c.CWTSegment)
		}
	}

	if c.EnableFilter && len(c.FilterCoefficients) == 0 {
		if c.FilterTaps <= 0 {
			return invalid("filter_taps must be positive, got %d", c.FilterTaps)
		}
		if c.LowPassHz <= 0 {
			return invalid("lowpass_hz must be positive, got %g", c.LowPassHz)
		}
	}

	if _, err := stats.ParseCovarianceType(c.Covariance); err != nil {
		return invalid("covariance: %v", err)
	}

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return invalid("log_level: %v", err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
