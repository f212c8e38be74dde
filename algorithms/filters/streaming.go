package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
)

// StreamingFIRFilter applies an FIR filter to a signal delivered in blocks.
// The convolution tail of each block is carried in a history buffer and
// added to the head of the next block, so the concatenated outputs of
// ProcessBlock followed by Flush equal FIRFilter.Process on the whole signal.
type StreamingFIRFilter struct {
	coefficients []float32
	blockSize    int
	kernel       *overlapKernel

	// history holds the taps-1 samples still owed to future output
	history []float64
}

// NewStreamingFIRFilter creates a streaming filter accepting blocks of at
// most blockSize samples.
func NewStreamingFIRFilter(coeffs []float32, blockSize int) (*StreamingFIRFilter, error) {
	if len(coeffs) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}

	m := len(coeffs)
	n := max(8*common.NextPowerOfTwo(m), common.NextPowerOfTwo(blockSize+m-1))

	kernel, err := newOverlapKernel(coeffs, n)
	if err != nil {
		return nil, err
	}

	return &StreamingFIRFilter{
		coefficients: append([]float32(nil), coeffs...),
		blockSize:    blockSize,
		kernel:       kernel,
		history:      make([]float64, m-1, n),
	}, nil
}

// ProcessBlock filters one block and returns len(block) output samples. The
// final block of a signal may be shorter than the configured block size.
func (s *StreamingFIRFilter) ProcessBlock(block []float32) ([]float32, error) {
	if len(block) > s.blockSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBlockTooLarge, len(block), s.blockSize)
	}
	if len(block) == 0 {
		return []float32{}, nil
	}

	if err := s.kernel.convolve(block); err != nil {
		return nil, fmt.Errorf("filters: streaming block: %w", err)
	}

	full := len(block) + len(s.history)
	acc := make([]float64, full)
	for i := range full {
		acc[i] = real(s.kernel.result[i])
	}
	for i, h := range s.history {
		acc[i] += h
	}

	out := common.ToFloat32(acc[:len(block)])

	// The old history may extend past this block when blocks are shorter
	// than the filter, so the new history starts from acc's tail.
	copy(s.history, acc[len(block):])

	return out, nil
}

// Flush returns the remaining taps-1 samples of the convolution tail and
// clears the history.
func (s *StreamingFIRFilter) Flush() []float32 {
	out := common.ToFloat32(s.history)
	s.Reset()
	return out
}

// Reset discards any carried history
func (s *StreamingFIRFilter) Reset() {
	clear(s.history)
}

// BlockSize returns the maximum accepted block length
func (s *StreamingFIRFilter) BlockSize() int {
	return s.blockSize
}
