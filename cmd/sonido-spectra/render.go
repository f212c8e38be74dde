package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/RyanBlaney/sonido-spectra/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			Foreground(lipgloss.AdaptiveColor{Light: "#1D6FA5", Dark: "#7DC4E4"})

	labelStyle = lipgloss.NewStyle().
			Width(22).
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"})

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F5A97F"})
)

func row(label string, format string, args ...any) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(fmt.Sprintf(format, args...)),
	)
}

func renderReport(r *analysis.AnalysisReport) string {
	lines := []string{
		titleStyle.Render("sonido-spectra"),
		row("source", "%s", r.Source),
		row("sample rate", "%d Hz", r.SampleRate),
		row("samples", "%d (%s)", r.Samples, r.Duration),
	}

	if s := r.Summary; s != nil {
		lines = append(lines,
			sectionStyle.Render("Signal"),
			row("mean / std dev", "%.4g / %.4g", s.Mean, s.StdDev),
			row("min / max", "%.4g / %.4g", s.Min, s.Max),
			row("rms", "%.4g", s.RMS),
			row("skew / ex. kurtosis", "%.3f / %.3f", s.Skewness, s.Kurtosis),
		)
	}

	if s := r.Spectrum; s != nil {
		lines = append(lines,
			sectionStyle.Render("Spectrum"),
			row("fft size", "%d (+%d zero padding)", s.FFTSize, s.ZeroPadded),
			row("peak frequency", "%.2f Hz", s.Descriptors.PeakFreq),
			row("centroid", "%.2f Hz", s.Descriptors.Centroid),
			row("bandwidth", "%.2f Hz", s.Descriptors.Bandwidth),
			row("rolloff", "%.2f Hz", s.Descriptors.Rolloff),
			row("flatness", "%.4f", s.Descriptors.Flatness),
			row("round trip error", "%.3g", s.RoundTripError),
		)
	}

	if s := r.STFT; s != nil {
		lines = append(lines,
			sectionStyle.Render("STFT"),
			row("frames x bins", "%d x %d", s.Frames, s.Bins),
			row("window", "%s, fft %d", s.WindowType, s.FFTSize),
			row("resolution", "%.2f Hz / %.2f ms", s.FreqResolution, s.TimeResolution*1000),
			row("dominant frequency", "%.2f Hz", s.DominantFrequency),
			row("mean flux", "%.4g (peak at %.3f s)", s.MeanFlux, s.PeakFluxTime),
		)
	}

	if s := r.Stockwell; s != nil {
		lines = append(lines,
			sectionStyle.Render("Stockwell"),
			row("segment", "%d samples at %d", s.Segment, s.Offset),
			row("voices", "%d", s.Voices),
			row("dominant frequency", "%.2f Hz", s.DominantFrequency),
			row("reconstruction error", "%.3g", s.ReconstructionError),
		)
	}

	if s := r.Wavelet; s != nil {
		lines = append(lines,
			sectionStyle.Render("Wavelet"),
			row("wavelet", "%s (omega %.2f)", s.Wavelet, s.Omega),
			row("segment", "%d samples", s.Segment),
			row("scales", "%d", len(s.Scales)),
			row("dominant scale", "%.3f", s.DominantScale),
		)
	}

	if s := r.Filter; s != nil {
		lines = append(lines,
			sectionStyle.Render("FIR filter"),
			row("taps", "%d (fft %d, block %d)", s.Taps, s.FFTSize, s.BlockLength),
			row("output samples", "%d", s.OutputSamples),
			row("rms in / out", "%.4g / %.4g", s.InputRMS, s.OutputRMS),
		)
	}

	if c := r.Channels; c != nil {
		lines = append(lines, sectionStyle.Render("Channels"), row("count", "%d", c.Count))
		lines = append(lines, row("variance", "%s", formatDiagonal(c.Covariance)))
	}

	if len(r.Warnings) > 0 {
		lines = append(lines, sectionStyle.Render("Warnings"))
		for _, w := range r.Warnings {
			lines = append(lines, warnStyle.Render("! "+w))
		}
	}

	lines = append(lines, "", row("processing time", "%s", r.ProcessingTime))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatDiagonal(m [][]float64) string {
	parts := make([]string, 0, len(m))
	for i := range m {
		if i < len(m[i]) {
			parts = append(parts, fmt.Sprintf("%.4g", m[i][i]))
		}
	}
	return strings.Join(parts, " ")
}
