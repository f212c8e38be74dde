package transcode

import "errors"

var (
	ErrUnknownFormat     = errors.New("transcode: unknown binary format")
	ErrInvalidChannels   = errors.New("transcode: channel count must be positive")
	ErrResolutionCount   = errors.New("transcode: one resolution per channel required")
	ErrIncompleteFrame   = errors.New("transcode: data does not divide into whole frames")
	ErrChannelOutOfRange = errors.New("transcode: channel index out of range")
	ErrInvalidWAV        = errors.New("transcode: not a valid WAV file")
	ErrUnsupportedWAV    = errors.New("transcode: unsupported WAV encoding")
	ErrNoSamples         = errors.New("transcode: no samples decoded")
	ErrInvalidSampleRate = errors.New("transcode: sample rate must be positive")
)
