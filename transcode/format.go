package transcode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// BinaryFormat is the on-disk encoding of raw multiplexed samples
type BinaryFormat int

const (
	// IEEEFloat32 is little-endian single precision, 4 bytes per value
	IEEEFloat32 BinaryFormat = iota
	// Int16 is little-endian signed 16-bit, 2 bytes per value
	Int16
)

// BytesPerSample returns the width of one encoded value
func (f BinaryFormat) BytesPerSample() int {
	switch f {
	case IEEEFloat32:
		return 4
	case Int16:
		return 2
	default:
		return 0
	}
}

func (f BinaryFormat) String() string {
	switch f {
	case IEEEFloat32:
		return "IEEE_FLOAT_32"
	case Int16:
		return "INT_16"
	default:
		return fmt.Sprintf("BinaryFormat(%d)", int(f))
	}
}

// ParseBinaryFormat accepts the header spelling (IEEE_FLOAT_32, INT_16) as
// well as the short forms float32 and int16.
func ParseBinaryFormat(s string) (BinaryFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ieee_float_32", "float32", "f32":
		return IEEEFloat32, nil
	case "int_16", "int16", "s16":
		return Int16, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f BinaryFormat) MarshalText() ([]byte, error) {
	if f.BytesPerSample() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	return []byte(f.String()), nil
}

func (f *BinaryFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseBinaryFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// decode reads one value from b, which holds exactly BytesPerSample bytes
func (f BinaryFormat) decode(b []byte) float64 {
	switch f {
	case IEEEFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	default:
		return 0
	}
}
