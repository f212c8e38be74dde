package transcode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-spectra/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Downmix selects the average of all channels instead of a single one
const Downmix = -1

// SignalData is a mono signal ready for analysis
type SignalData struct {
	Samples    []float32     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channels in the source
	Channel    int           `json:"channel"`  // selected channel, Downmix for the average
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source,omitempty"`
	Format     string        `json:"format"`
}

// DecoderConfig describes how raw sample files are laid out. WAV files carry
// their own layout; only Channel applies to them.
type DecoderConfig struct {
	Format      BinaryFormat `json:"format"`
	Channels    int          `json:"channels"`
	SampleRate  int          `json:"sample_rate"`
	Channel     int          `json:"channel"`
	Resolutions []float64    `json:"resolutions,omitempty"`
}

// DefaultDecoderConfig returns a single-channel float32 layout at 44.1 kHz
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		Format:     IEEEFloat32,
		Channels:   1,
		SampleRate: 44100,
		Channel:    0,
	}
}

// Decoder turns WAV or raw multiplexed sample files into SignalData
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder; a nil config uses DefaultDecoderConfig
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "signal_decoder",
		}),
	}
}

// ValidateConfig checks the raw layout
func (d *Decoder) ValidateConfig() error {
	if d.config.Format.BytesPerSample() == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(d.config.Format))
	}
	if d.config.Channels <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChannels, d.config.Channels)
	}
	if d.config.SampleRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSampleRate, d.config.SampleRate)
	}
	if d.config.Channel != Downmix && (d.config.Channel < 0 || d.config.Channel >= d.config.Channels) {
		return fmt.Errorf("%w: %d of %d", ErrChannelOutOfRange, d.config.Channel, d.config.Channels)
	}
	if d.config.Resolutions != nil && len(d.config.Resolutions) != d.config.Channels {
		return fmt.Errorf("%w: %d resolutions for %d channels", ErrResolutionCount, len(d.config.Resolutions), d.config.Channels)
	}
	return nil
}

// MultichannelData holds every channel of a decoded source
type MultichannelData struct {
	Channels   [][]float32
	SampleRate int
	Source     string
	Format     string
}

// Mono selects one channel, or the average of all channels for Downmix
func (m *MultichannelData) Mono(channel int) (*SignalData, error) {
	samples, err := selectChannel(m.Channels, channel)
	if err != nil {
		return nil, err
	}
	return &SignalData{
		Samples:    samples,
		SampleRate: m.SampleRate,
		Channels:   len(m.Channels),
		Channel:    channel,
		Duration:   duration(len(samples), m.SampleRate),
		Source:     m.Source,
		Format:     m.Format,
	}, nil
}

// DecodeFile decodes a file and selects the configured channel
func (d *Decoder) DecodeFile(filename string) (*SignalData, error) {
	data, err := d.DecodeFileChannels(filename)
	if err != nil {
		return nil, err
	}
	return data.Mono(d.config.Channel)
}

// DecodeFileChannels decodes a .wav file with go-audio or, for any other
// extension, a raw multiplexed sample file using the configured layout.
func (d *Decoder) DecodeFileChannels(filename string) (*MultichannelData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFileChannels",
		"filename": filename,
	})
	logger.Debug("Starting signal decode")

	f, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open signal file")
		return nil, err
	}
	defer f.Close()

	var data *MultichannelData
	if strings.EqualFold(filepath.Ext(filename), ".wav") {
		data, err = DecodeWAVChannels(f)
	} else {
		data, err = d.decodeRaw(f)
	}
	if err != nil {
		logger.Error(err, "Failed to decode signal file")
		return nil, err
	}

	data.Source = filename
	logger.Debug("Signal decoded", logging.Fields{
		"frames":      len(data.Channels[0]),
		"sample_rate": data.SampleRate,
		"channels":    len(data.Channels),
		"format":      data.Format,
	})
	return data, nil
}

// DecodeBytes decodes raw multiplexed samples held in memory
func (d *Decoder) DecodeBytes(b []byte) (*SignalData, error) {
	return d.DecodeReader(bytes.NewReader(b))
}

// DecodeReader decodes raw multiplexed samples and selects the configured
// channel (or the downmix).
func (d *Decoder) DecodeReader(r io.Reader) (*SignalData, error) {
	data, err := d.decodeRaw(r)
	if err != nil {
		return nil, err
	}
	return data.Mono(d.config.Channel)
}

func (d *Decoder) decodeRaw(r io.Reader) (*MultichannelData, error) {
	if err := d.ValidateConfig(); err != nil {
		return nil, err
	}

	channels, err := DecodeMultiplexed(r, d.config.Format, d.config.Channels, d.config.Resolutions)
	if err != nil {
		return nil, err
	}
	if len(channels[0]) == 0 {
		return nil, ErrNoSamples
	}

	return &MultichannelData{
		Channels:   channels,
		SampleRate: d.config.SampleRate,
		Format:     d.config.Format.String(),
	}, nil
}

// DecodeMultiplexed reads frame-interleaved samples (ch0, ch1, ..., ch0, ...)
// and returns them as one slice per channel. Each channel is multiplied by
// its resolution; nil resolutions mean 1 for every channel.
func DecodeMultiplexed(r io.Reader, format BinaryFormat, numChannels int, resolutions []float64) ([][]float32, error) {
	width := format.BytesPerSample()
	if width == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, numChannels)
	}
	if resolutions != nil && len(resolutions) != numChannels {
		return nil, fmt.Errorf("%w: %d resolutions for %d channels", ErrResolutionCount, len(resolutions), numChannels)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("transcode: reading samples: %w", err)
	}

	frameBytes := width * numChannels
	if len(raw)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes, frame is %d", ErrIncompleteFrame, len(raw), frameBytes)
	}
	frames := len(raw) / frameBytes

	channels := make([][]float32, numChannels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	for i := range frames {
		frame := raw[i*frameBytes : (i+1)*frameBytes]
		for c := range numChannels {
			v := format.decode(frame[c*width : (c+1)*width])
			if resolutions != nil {
				v *= resolutions[c]
			}
			channels[c][i] = float32(v)
		}
	}
	return channels, nil
}

// LoadWAV opens and decodes a PCM WAV file
func LoadWAV(path string, channel int) (*SignalData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := DecodeWAV(f, channel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data.Source = path
	return data, nil
}

// DecodeWAV decodes integer PCM WAV data into [-1, 1) floats and selects a
// channel, or averages all of them when channel is Downmix.
func DecodeWAV(r io.ReadSeeker, channel int) (*SignalData, error) {
	data, err := DecodeWAVChannels(r)
	if err != nil {
		return nil, err
	}
	return data.Mono(channel)
}

// DecodeWAVChannels decodes every channel of an integer PCM WAV stream
func DecodeWAVChannels(r io.ReadSeeker) (*MultichannelData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedWAV, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("transcode: reading PCM: %w", err)
	}

	channels, err := deinterleave(buf, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	return &MultichannelData{
		Channels:   channels,
		SampleRate: int(dec.SampleRate),
		Format:     fmt.Sprintf("PCM_%d", dec.BitDepth),
	}, nil
}

func deinterleave(buf *audio.IntBuffer, bitDepth int) ([][]float32, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, ErrInvalidWAV
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedWAV, bitDepth)
	}

	numChannels := buf.Format.NumChannels
	frames := len(buf.Data) / numChannels
	if frames == 0 {
		return nil, ErrNoSamples
	}

	// 8-bit PCM is unsigned around 128
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	scale := 1 / float64(int64(1)<<(bitDepth-1))

	channels := make([][]float32, numChannels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range numChannels {
			channels[c][i] = float32(float64(buf.Data[i*numChannels+c]-offset) * scale)
		}
	}
	return channels, nil
}

func selectChannel(channels [][]float32, channel int) ([]float32, error) {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, ErrNoSamples
	}

	if channel == Downmix {
		if len(channels) == 1 {
			return channels[0], nil
		}
		out := make([]float32, len(channels[0]))
		gain := 1 / float64(len(channels))
		for i := range out {
			var sum float64
			for _, ch := range channels {
				sum += float64(ch[i])
			}
			out[i] = float32(sum * gain)
		}
		return out, nil
	}

	if channel < 0 || channel >= len(channels) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannelOutOfRange, channel, len(channels))
	}
	return channels[channel], nil
}

func duration(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
