package filters

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/sonido-spectra/internal/testutil"
)

func streamAll(t *testing.T, s *StreamingFIRFilter, signal []float32) []float32 {
	t.Helper()
	var out []float32
	for start := 0; start < len(signal); start += s.BlockSize() {
		end := min(start+s.BlockSize(), len(signal))
		block, err := s.ProcessBlock(signal[start:end])
		if err != nil {
			t.Fatalf("ProcessBlock at %d failed: %v", start, err)
		}
		if len(block) != end-start {
			t.Fatalf("block at %d: got %d samples, want %d", start, len(block), end-start)
		}
		out = append(out, block...)
	}
	return append(out, s.Flush()...)
}

func TestStreamingMatchesProcess(t *testing.T) {
	tests := []struct {
		name      string
		taps      int
		blockSize int
		length    int
	}{
		{"block longer than filter", 17, 37, 500},
		{"block shorter than filter", 33, 8, 301},
		{"single tap", 1, 16, 64},
		{"one block", 9, 128, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coeffs := testutil.RandomSignal(tt.taps, 11)
			signal := testutil.RandomSignal(tt.length, 12)

			whole, err := NewFIRFilter(coeffs)
			if err != nil {
				t.Fatalf("NewFIRFilter failed: %v", err)
			}
			want, err := whole.Process(signal)
			if err != nil {
				t.Fatalf("Process failed: %v", err)
			}

			stream, err := NewStreamingFIRFilter(coeffs, tt.blockSize)
			if err != nil {
				t.Fatalf("NewStreamingFIRFilter failed: %v", err)
			}
			got := streamAll(t, stream, signal)

			testutil.RequireSliceNearlyEqual(t, got, want, 1e-4)
		})
	}
}

func TestStreamingResetDropsHistory(t *testing.T) {
	coeffs := []float32{0.5, 0.25, 0.25}
	s, err := NewStreamingFIRFilter(coeffs, 4)
	if err != nil {
		t.Fatalf("NewStreamingFIRFilter failed: %v", err)
	}

	if _, err := s.ProcessBlock([]float32{1, 1, 1, 1}); err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}
	s.Reset()

	out, err := s.ProcessBlock([]float32{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("ProcessBlock failed: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, []float32{0.5, 0.25, 0.25, 0}, 1e-6)
	testutil.RequireSliceNearlyEqual(t, s.Flush(), []float32{0, 0}, 1e-6)
}

func TestStreamingPreconditions(t *testing.T) {
	if _, err := NewStreamingFIRFilter([]float32{1}, 0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Errorf("expected ErrInvalidBlockSize, got %v", err)
	}

	s, err := NewStreamingFIRFilter([]float32{1, 1}, 4)
	if err != nil {
		t.Fatalf("NewStreamingFIRFilter failed: %v", err)
	}
	if _, err := s.ProcessBlock(make([]float32, 5)); !errors.Is(err, ErrBlockTooLarge) {
		t.Errorf("expected ErrBlockTooLarge, got %v", err)
	}
	if out, err := s.ProcessBlock(nil); err != nil || len(out) != 0 {
		t.Errorf("empty block = %v, %v", out, err)
	}
}
