package filters

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-spectra/internal/testutil"
)

func TestPreEmphasisDifferenceEquation(t *testing.T) {
	pe, err := NewPreEmphasis(0.5)
	if err != nil {
		t.Fatalf("NewPreEmphasis failed: %v", err)
	}

	got := pe.ProcessBuffer([]float32{2, 4, 4, 0})
	want := []float32{2, 3, 2, -2}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)

	// State carries across buffers
	if y := pe.Process(1); y != 1 {
		t.Errorf("next sample = %v, want 1", y)
	}

	pe.Reset()
	if y := pe.Process(4); y != 4 {
		t.Errorf("after reset = %v, want 4", y)
	}
}

func TestPreEmphasisResponse(t *testing.T) {
	pe, err := NewPreEmphasis(DefaultPreEmphasis)
	if err != nil {
		t.Fatalf("NewPreEmphasis failed: %v", err)
	}

	if got := pe.Coefficient(); got != DefaultPreEmphasis {
		t.Errorf("coefficient = %v, want %v", got, DefaultPreEmphasis)
	}
	if got := pe.Magnitude(0, 8000); math.Abs(got-(1-DefaultPreEmphasis)) > 1e-12 {
		t.Errorf("DC gain = %v, want %v", got, 1-DefaultPreEmphasis)
	}
	if got := pe.Magnitude(4000, 8000); math.Abs(got-(1+DefaultPreEmphasis)) > 1e-12 {
		t.Errorf("nyquist gain = %v, want %v", got, 1+DefaultPreEmphasis)
	}
}

func TestPreEmphasisRejectsCoefficient(t *testing.T) {
	for _, c := range []float64{-0.1, 1, 1.5, math.NaN()} {
		if _, err := NewPreEmphasis(c); !errors.Is(err, ErrInvalidCoefficient) {
			t.Errorf("coefficient %v: expected ErrInvalidCoefficient, got %v", c, err)
		}
	}
	if _, err := NewPreEmphasis(0); err != nil {
		t.Errorf("zero coefficient is an identity filter, got %v", err)
	}
}
