package common

import (
	"math"
	"testing"
)

func TestPowerOfTwo(t *testing.T) {
	tests := []struct {
		n      int
		isPow2 bool
		next   int
	}{
		{-4, false, 1},
		{0, false, 1},
		{1, true, 1},
		{2, true, 2},
		{3, false, 4},
		{255, false, 256},
		{256, true, 256},
		{257, false, 512},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.isPow2 {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.isPow2)
		}
		if got := NextPowerOfTwo(tt.n); got != tt.next {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.next)
		}
	}
}

func TestConversions(t *testing.T) {
	x := []float32{1, -2.5, 0}

	wide := ToFloat64(x)
	if len(wide) != 3 || wide[1] != -2.5 {
		t.Errorf("ToFloat64: got %v", wide)
	}
	if back := ToFloat32(wide); MaxAbsDiff(back, x) != 0 {
		t.Errorf("ToFloat32: got %v", back)
	}

	c := ToComplex128(x)
	if c[1] != complex(-2.5, 0) {
		t.Errorf("ToComplex128: got %v", c)
	}
	if n := Narrow(Widen([]complex64{complex(1, 2)})); n[0] != complex(1, 2) {
		t.Errorf("Widen/Narrow: got %v", n)
	}
}

func TestSignalStatistics(t *testing.T) {
	x := []float32{3, -4, 3, -4}

	if got := Mean(x); got != -0.5 {
		t.Errorf("Mean: got %v, want -0.5", got)
	}
	if got := Energy(x); got != 50 {
		t.Errorf("Energy: got %v, want 50", got)
	}
	if got := RMS(x); math.Abs(got-math.Sqrt(12.5)) > 1e-12 {
		t.Errorf("RMS: got %v", got)
	}
	if got := PeakIndex(x); got != 0 {
		t.Errorf("PeakIndex: got %d, want 0", got)
	}

	if Mean(nil) != 0 || RMS(nil) != 0 || PeakIndex(nil) != -1 {
		t.Error("empty input should give zero statistics and peak -1")
	}
}

func TestMaxAbsDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"equal", []float32{1, 2}, []float32{1, 2}, 0},
		{"largest wins", []float32{1, 2, 3}, []float32{1.5, 2, 1}, 2},
		{"empty", nil, nil, 0},
		{"length mismatch", []float32{1}, []float32{1, 2}, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxAbsDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkerCount(t *testing.T) {
	for _, jobs := range []int{0, 1, 2, 50, 500, 5000} {
		got := WorkerCount(jobs)
		if got < 1 {
			t.Errorf("WorkerCount(%d) = %d, want at least 1", jobs, got)
		}
		if jobs > 0 && got > jobs {
			t.Errorf("WorkerCount(%d) = %d exceeds the job count", jobs, got)
		}
	}
}
