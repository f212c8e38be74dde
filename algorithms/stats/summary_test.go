package stats

import (
	"errors"
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float32{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", s.Mean, 3},
		{"std dev", s.StdDev, math.Sqrt(2.5)},
		{"skewness", s.Skewness, 0},
		{"min", s.Min, 1},
		{"max", s.Max, 5},
		{"rms", s.RMS, math.Sqrt(11)},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if s.Samples != 5 {
		t.Errorf("samples = %d, want 5", s.Samples)
	}
}

func TestSummarizeDegenerate(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}

	s, err := Summarize([]float32{2, 2, 2})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.StdDev != 0 || s.Skewness != 0 || s.Kurtosis != 0 {
		t.Errorf("constant signal summary = %+v", s)
	}

	single, err := Summarize([]float32{-4})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if single.Mean != -4 || single.Min != -4 || single.Max != -4 {
		t.Errorf("single sample summary = %+v", single)
	}
}
