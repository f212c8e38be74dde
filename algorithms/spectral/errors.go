package spectral

import "errors"

// Errors returned by the transform routines. Precondition failures are
// reported before any work is done, so no partial result is ever returned.
var (
	ErrEmptySignal    = errors.New("spectral: empty signal")
	ErrNotPowerOfTwo  = errors.New("spectral: length is not a power of two")
	ErrLengthMismatch = errors.New("spectral: buffer length mismatch")
	ErrInvalidWindow  = errors.New("spectral: window size must be positive")
	ErrInvalidHop     = errors.New("spectral: hop size must be positive")
	ErrWindowTooLarge = errors.New("spectral: window size exceeds signal length")
)
