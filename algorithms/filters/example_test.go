package filters_test

import (
	"fmt"

	"github.com/RyanBlaney/sonido-spectra/algorithms/filters"
)

func ExampleFIRFilter_Process() {
	coeffs, err := filters.MovingAverage(3)
	if err != nil {
		fmt.Println(err)
		return
	}

	fir, err := filters.NewFIRFilter(coeffs)
	if err != nil {
		fmt.Println(err)
		return
	}

	out, err := fir.Process([]float32{3, 6, 9, 12, 15})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.2f\n", out)
	// Output: [1.00 3.00 6.00 9.00 12.00 9.00 5.00]
}

func ExampleStreamingFIRFilter() {
	stream, err := filters.NewStreamingFIRFilter([]float32{0.5, 0.5}, 2)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, block := range [][]float32{{2, 4}, {6}} {
		out, err := stream.ProcessBlock(block)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("%.2f\n", out)
	}
	fmt.Printf("%.2f\n", stream.Flush())
	// Output:
	// [1.00 3.00]
	// [5.00]
	// [3.00]
}
