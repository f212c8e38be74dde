// Command sonido-spectra loads a signal and prints its spectral and
// time-frequency analysis.
//
// Usage:
//
//	sonido-spectra [flags] -input <file>
//
// Examples:
//
//	sonido-spectra -input tone.wav
//	sonido-spectra -input tone.wav -channel -1 -json
//	sonido-spectra -input recording.eeg -format int16 -channels 32 -channel 4 -rate 500
//	sonido-spectra -config transforms.json -input tone.wav
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/RyanBlaney/sonido-spectra/analysis"
	"github.com/RyanBlaney/sonido-spectra/analysis/config"
	"github.com/RyanBlaney/sonido-spectra/logging"
	"github.com/RyanBlaney/sonido-spectra/transcode"
)

type options struct {
	configPath string
	input      string
	format     string
	channels   int
	channel    int
	rate       int
	jsonOut    bool
	logLevel   string
	noColor    bool
}

var errNoInput = errors.New("an -input file is required")

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("sonido-spectra", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "JSON transform configuration (defaults when empty)")
	fs.StringVar(&opts.input, "input", "", "signal file: .wav, or raw multiplexed samples")
	fs.StringVar(&opts.format, "format", "float32", "raw sample encoding: float32 (IEEE_FLOAT_32) or int16 (INT_16)")
	fs.IntVar(&opts.channels, "channels", 1, "number of multiplexed channels in a raw file")
	fs.IntVar(&opts.channel, "channel", 0, "channel to analyse, -1 for the average of all channels")
	fs.IntVar(&opts.rate, "rate", 44100, "sample rate of a raw file in Hz")
	fs.BoolVar(&opts.jsonOut, "json", false, "print the report as JSON")
	fs.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sonido-spectra [flags] -input <file>\n\n")
		fmt.Fprintf(stderr, "Runs FFT, STFT, S-transform, CWT and FIR analysis over a signal.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.input == "" {
		fs.Usage()
		return nil, errNoInput
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.TransformConfig, error) {
	cfg := config.DefaultTransformConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadTransformConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(level)
	return cfg, nil
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	format, err := transcode.ParseBinaryFormat(opts.format)
	if err != nil {
		return err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		Format:     format,
		Channels:   opts.channels,
		SampleRate: opts.rate,
		Channel:    opts.channel,
	})

	data, err := decoder.DecodeFileChannels(opts.input)
	if err != nil {
		return err
	}

	mono, err := data.Mono(opts.channel)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(ctx, mono)
	if err != nil {
		return err
	}

	if len(data.Channels) > 1 {
		if report.Channels, err = analyzer.AnalyzeChannels(data.Channels); err != nil {
			return err
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	_, err = fmt.Fprintln(stdout, renderReport(report))
	return err
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.noColor {
		logging.DisableColors()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		logging.Fatal(err, "Analysis failed", logging.Fields{"input": opts.input})
	}
}
