package wavslice

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat matches every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrIO wraps failures opening the input or writing outputs.
	ErrIO = errors.New("i/o failure")
	// ErrInvalidSegments is returned for a negative segment count.
	ErrInvalidSegments = errors.New("segment count must be at least 1")
	// ErrInvalidPreviewFormat is returned for an unknown preview container.
	ErrInvalidPreviewFormat = errors.New("unknown preview format")
)

// Reasons reported by UnsupportedFormatError.
const (
	ReasonFormatTag   = "format_tag"
	ReasonChannels    = "channels"
	ReasonSampleWidth = "sample_width"
	ReasonSampleRate  = "sample_rate"
)

// UnsupportedFormatError reports the first format constraint the input failed.
type UnsupportedFormatError struct {
	Reason string
	Got    int
	Want   int
}

func (e *UnsupportedFormatError) Error() string {
	switch e.Reason {
	case ReasonFormatTag:
		return fmt.Sprintf("WAV must be PCM: got %s", formatTagName(uint16(e.Got)))
	case ReasonChannels:
		return fmt.Sprintf("WAV must be mono: got %d channels", e.Got)
	case ReasonSampleWidth:
		return fmt.Sprintf("WAV must be 16-bit PCM: got %d-byte samples", e.Got)
	case ReasonSampleRate:
		return fmt.Sprintf("WAV must be sampled at %d Hz, please resample first: got %d Hz", e.Want, e.Got)
	default:
		return fmt.Sprintf("%s: %s is %d, want %d", ErrUnsupportedFormat, e.Reason, e.Got, e.Want)
	}
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
