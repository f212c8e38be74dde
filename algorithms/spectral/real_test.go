package spectral

import (
	"math/cmplx"
	"testing"

	"github.com/RyanBlaney/sonido-spectra/algorithms/common"
	"github.com/RyanBlaney/sonido-spectra/internal/testutil"
	"gonum.org/v1/gonum/dsp/fourier"
)

func TestRealRoundTrip(t *testing.T) {
	fft := NewFFT()

	for _, n := range powerOfTwoSizes {
		x := testutil.RandomSignal(n, int64(n))

		spectrum, err := fft.ComputeReal(x)
		if err != nil {
			t.Fatalf("n=%d: ComputeReal failed: %v", n, err)
		}
		back, err := fft.ComputeInverseReal(spectrum)
		if err != nil {
			t.Fatalf("n=%d: ComputeInverseReal failed: %v", n, err)
		}

		testutil.RequireSliceNearlyEqual(t, back, x, 1e-5)
	}
}

func TestFoldedRealMatchesLifted(t *testing.T) {
	fft := NewFFT()

	for _, n := range powerOfTwoSizes {
		x := testutil.RandomSignal(n, int64(1000+n))

		folded, err := fft.ComputeReal(x)
		if err != nil {
			t.Fatalf("n=%d: ComputeReal failed: %v", n, err)
		}
		lifted, err := fft.ComputeRealLifted(x)
		if err != nil {
			t.Fatalf("n=%d: ComputeRealLifted failed: %v", n, err)
		}

		testutil.RequireComplexNearlyEqual(t, folded, lifted, 1e-4)
	}
}

func TestRealMatchesRealDFT(t *testing.T) {
	x := testutil.RandomSignal(64, 9)

	got, err := NewFFT().ComputeReal(x)
	if err != nil {
		t.Fatalf("ComputeReal failed: %v", err)
	}
	want, err := RealDFT(x)
	if err != nil {
		t.Fatalf("RealDFT failed: %v", err)
	}

	testutil.RequireComplexNearlyEqual(t, got, want, 1e-4)
}

func TestRealMatchesGonum(t *testing.T) {
	const n = 128
	x := testutil.RandomSignal(n, 17)

	got, err := NewFFT().ComputeReal(x)
	if err != nil {
		t.Fatalf("ComputeReal failed: %v", err)
	}

	// gonum returns only the n/2+1 non-negative bins
	want := fourier.NewFFT(n).Coefficients(nil, common.ToFloat64(x))
	if len(want) != n/2+1 {
		t.Fatalf("gonum returned %d bins, want %d", len(want), n/2+1)
	}

	for k, w := range want {
		if cmplx.Abs(complex128(got[k])-w) > 1e-4 {
			t.Fatalf("bin %d: got %v, gonum %v", k, got[k], w)
		}
	}
}

func TestRealSpectrumIsConjugateSymmetric(t *testing.T) {
	for _, n := range []int{2, 8, 64, 256} {
		x := testutil.RandomSignal(n, int64(n)*3)

		spectrum, err := NewFFT().ComputeReal(x)
		if err != nil {
			t.Fatalf("n=%d: ComputeReal failed: %v", n, err)
		}

		for k := 1; k < n; k++ {
			diff := complex128(spectrum[n-k]) - cmplx.Conj(complex128(spectrum[k]))
			if cmplx.Abs(diff) > 1e-4 {
				t.Fatalf("n=%d: X[%d]=%v is not conj(X[%d]=%v)", n, n-k, spectrum[n-k], k, spectrum[k])
			}
		}

		if !IsConjugateSymmetric(spectrum, 1e-4) {
			t.Errorf("n=%d: IsConjugateSymmetric reported false for a real signal", n)
		}
	}
}

func TestIsConjugateSymmetricDetectsMisuse(t *testing.T) {
	spectrum := testutil.RandomComplex(16, 4)
	if IsConjugateSymmetric(spectrum, 1e-6) {
		t.Fatal("random complex spectrum reported as symmetric")
	}

	// Inverting it anyway is allowed and returns a real signal of the same length
	out, err := NewFFT().ComputeInverseReal(spectrum)
	if err != nil {
		t.Fatalf("ComputeInverseReal failed: %v", err)
	}
	if len(out) != len(spectrum) {
		t.Errorf("got %d samples, want %d", len(out), len(spectrum))
	}
	testutil.RequireFinite(t, out)
}

func TestInverseRealDFTMatchesFast(t *testing.T) {
	x := testutil.RandomSignal(32, 12)
	spectrum, err := RealDFT(x)
	if err != nil {
		t.Fatalf("RealDFT failed: %v", err)
	}

	slow, err := InverseRealDFT(spectrum)
	if err != nil {
		t.Fatalf("InverseRealDFT failed: %v", err)
	}
	fast, err := NewFFT().ComputeInverseReal(spectrum)
	if err != nil {
		t.Fatalf("ComputeInverseReal failed: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, slow, x, 1e-5)
	testutil.RequireSliceNearlyEqual(t, fast, x, 1e-5)
}

func TestFreqs(t *testing.T) {
	got := Freqs(8, 8)
	want := []float32{0, 1, 2, 3, -4, -3, -2, -1}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)

	got = Freqs(4, 1000)
	want = []float32{0, 250, -500, -250}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-4)

	// Odd lengths split at n/2 as well
	got = Freqs(5, 5)
	want = []float32{0, 1, -3, -2, -1}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)

	if len(Freqs(0, 100)) != 0 {
		t.Error("expected empty axis for n=0")
	}
}

func TestRFreqs(t *testing.T) {
	got := RFreqs(8, 8)
	want := []float32{0, 1, 2, 3, 4}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)

	got = RFreqs(1024, 44100)
	if len(got) != 513 {
		t.Fatalf("got %d bins, want 513", len(got))
	}
	if last := got[len(got)-1]; last != 22050 {
		t.Errorf("last bin = %v, want Nyquist 22050", last)
	}
}
