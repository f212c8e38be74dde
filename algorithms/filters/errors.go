package filters

import "errors"

var (
	ErrEmptyCoefficients  = errors.New("filters: no coefficients")
	ErrInvalidBlockSize   = errors.New("filters: block size must be positive")
	ErrBlockTooLarge      = errors.New("filters: block larger than configured block size")
	ErrInvalidCutoff      = errors.New("filters: cutoff must lie in (0, nyquist)")
	ErrInvalidTaps        = errors.New("filters: number of taps must be positive")
	ErrInvalidCoefficient = errors.New("filters: pre-emphasis coefficient must lie in [0, 1)")
)
