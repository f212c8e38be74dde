package testutil

import (
	"math"
	"math/rand"
)

// RandomSignal returns n uniform samples in [-1, 1) from a fixed seed
func RandomSignal(n int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(rng.Float64()*2 - 1)
	}
	return out
}

// RandomComplex returns n complex samples with both parts uniform in [-1, 1)
func RandomComplex(n int, seed int64) []complex64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]complex64, n)
	for i := range out {
		out[i] = complex(float32(rng.Float64()*2-1), float32(rng.Float64()*2-1))
	}
	return out
}

// Sine returns n samples of amplitude*sin(2*pi*freq*t/sampleRate)
func Sine(n int, freq, sampleRate, amplitude float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return out
}

// Impulse returns a unit impulse of length n at position pos
func Impulse(n, pos int) []float32 {
	out := make([]float32, n)
	out[pos] = 1
	return out
}
