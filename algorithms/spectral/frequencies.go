package spectral

// Freqs returns the frequency in Hz of every bin of an n-point FFT sampled at
// samplingFreq. Bins from n/2 (integer division) upward hold the negative
// frequencies i-n.
func Freqs(n int, samplingFreq float32) []float32 {
	if n <= 0 {
		return []float32{}
	}

	df := samplingFreq / float32(n)
	result := make([]float32, n)
	for i := range n {
		bin := i
		if i >= n/2 {
			bin = i - n
		}
		result[i] = float32(bin) * df
	}
	return result
}

// RFreqs returns the n/2+1 non-negative bin frequencies of an n-point real FFT
func RFreqs(n int, samplingFreq float32) []float32 {
	if n <= 0 {
		return []float32{}
	}

	result := make([]float32, n/2+1)
	for i := range result {
		result[i] = float32(i) * samplingFreq / float32(n)
	}
	return result
}
