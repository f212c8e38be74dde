package spectral_test

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-spectra/algorithms/spectral"
)

func ExampleFFT_Compute() {
	fft := spectral.NewFFT()

	spectrum, err := fft.Compute([]complex64{1, 2, 3, 4})
	if err != nil {
		fmt.Println(err)
		return
	}

	for k, v := range spectrum {
		fmt.Printf("bin %d: |X| = %.3f\n", k, cmplx.Abs(complex128(v)))
	}
	// Output:
	// bin 0: |X| = 10.000
	// bin 1: |X| = 2.828
	// bin 2: |X| = 2.000
	// bin 3: |X| = 2.828
}

func ExampleFFT_ComputeInverseReal() {
	fft := spectral.NewFFT()
	signal := []float32{0.5, -1, 2, 0.25}

	spectrum, err := fft.ComputeReal(signal)
	if err != nil {
		fmt.Println(err)
		return
	}
	restored, err := fft.ComputeInverseReal(spectrum)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.2f\n", restored)
	// Output: [0.50 -1.00 2.00 0.25]
}

func ExampleFreqs() {
	fmt.Println(spectral.Freqs(8, 8000))
	fmt.Println(spectral.RFreqs(8, 8000))
	// Output:
	// [0 1000 2000 3000 -4000 -3000 -2000 -1000]
	// [0 1000 2000 3000 4000]
}
