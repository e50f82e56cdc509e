package wavslice

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-audio/aiff"
)

// PreviewFormat selects the container used for playable slice copies.
type PreviewFormat string

const (
	PreviewNone PreviewFormat = ""
	PreviewWAV  PreviewFormat = "wav"
	PreviewAIFF PreviewFormat = "aiff"
)

// ParsePreviewFormat accepts "", "wav" and "aiff", ignoring case.
func ParsePreviewFormat(s string) (PreviewFormat, error) {
	switch f := PreviewFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case PreviewNone, PreviewWAV, PreviewAIFF:
		return f, nil
	default:
		return PreviewNone, fmt.Errorf("%w: %q", ErrInvalidPreviewFormat, s)
	}
}

// Ext returns the file extension, dot included.
func (f PreviewFormat) Ext() string {
	switch f {
	case PreviewWAV:
		return ".wav"
	case PreviewAIFF:
		return ".aif"
	default:
		return ""
	}
}

// previews always use 16 bits: validated inputs store 2-byte samples.
const previewBitDepth = 16

func writePreview(path string, format PreviewFormat, frames []byte, d *Decoder) error {
	out, err := os.Create(path)
	if err != nil {
		return ioError("create", path, err)
	}

	switch format {
	case PreviewWAV:
		err = writeWAVPreview(out, frames, d)
	case PreviewAIFF:
		err = writeAIFFPreview(out, frames, d)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidPreviewFormat, format)
	}

	if err = errors.Join(err, out.Close()); err != nil {
		return ioError("write", path, err)
	}

	return nil
}

func writeWAVPreview(out *os.File, frames []byte, d *Decoder) error {
	enc := NewEncoder(out, int(d.SampleRate), previewBitDepth, int(d.NumChans))

	if err := enc.WritePCM(frames); err != nil {
		return err
	}

	return enc.Close()
}

// AIFF stores big-endian samples, so frames go through an int buffer.
func writeAIFFPreview(out *os.File, frames []byte, d *Decoder) error {
	enc := aiff.NewEncoder(out, int(d.SampleRate), previewBitDepth, int(d.NumChans))

	if err := enc.Write(PCM16Buffer(frames, d.Format())); err != nil {
		return fmt.Errorf("failed to encode aiff preview: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize aiff preview: %w", err)
	}

	return nil
}
