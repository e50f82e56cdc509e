package wavslice

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// DefaultSegments is the number of slices written when Request.Segments is zero.
	DefaultSegments = 8
	// SampleRate is the only accepted input rate, matching the sampler's playback rate.
	SampleRate = 22050
	// SourceName is the file receiving the full frame stream.
	SourceName = "source.raw"
	// PreviewDir is the sub directory of OutDir receiving preview copies.
	PreviewDir = "preview"
	// SamplerVoiceFrames is the per-voice slice buffer of the sampler:
	// 2.6 s of recording split in 8, rounded up.
	SamplerVoiceFrames = 7167
)

const (
	requiredChannels    = 1
	requiredSampleWidth = 2
	rawExt              = ".raw"
)

// Request describes a single conversion.
type Request struct {
	// InputPath is a mono 16-bit PCM wav file sampled at SampleRate.
	InputPath string
	// OutDir is created, with its parents, when missing.
	OutDir string
	// Prefix names the slices: <Prefix>1.raw … <Prefix>N.raw.
	Prefix string
	// Segments defaults to DefaultSegments when zero.
	Segments int
	// Preview optionally writes a playable copy of each slice.
	Preview PreviewFormat
	// MaxSliceFrames flags slices longer than this many frames, 0 disables the check.
	MaxSliceFrames int
}

// Result reports what a conversion wrote.
type Result struct {
	SourcePath string
	SlicePaths []string
	// Slices is the number of slice files written.
	Slices int
	// Frames is the frame count of the input, all of which are in SourcePath.
	Frames int
	// FramesPerSlice is Frames / Slices, rounded down.
	FramesPerSlice int
	// DroppedFrames trail the last slice and are only in SourcePath.
	DroppedFrames int
	PreviewPaths  []string
	// Oversized lists the 1-based indices of slices longer than MaxSliceFrames.
	Oversized []int
}

// options resolves the segment count and preview format of the request.
func (r Request) options() (int, PreviewFormat, error) {
	segments := r.Segments

	switch {
	case segments == 0:
		segments = DefaultSegments
	case segments < 0:
		return 0, PreviewNone, fmt.Errorf("%w: got %d", ErrInvalidSegments, r.Segments)
	}

	preview, err := ParsePreviewFormat(string(r.Preview))
	if err != nil {
		return 0, PreviewNone, err
	}

	return segments, preview, nil
}

// SlicePath returns the path of the 1-based slice index.
func (r Request) SlicePath(index int) string {
	return filepath.Join(r.OutDir, r.Prefix+strconv.Itoa(index)+rawExt)
}

// SourcePath returns the path receiving the full frame stream.
func (r Request) SourcePath() string {
	return filepath.Join(r.OutDir, SourceName)
}

// Validate checks, in order, the PCM format tag, the channel count, the
// sample width and the sample rate of the container.
func Validate(d *Decoder) error {
	if d.WavAudioFormat != wavFormatPCM {
		return &UnsupportedFormatError{Reason: ReasonFormatTag, Got: int(d.WavAudioFormat), Want: wavFormatPCM}
	}

	if d.NumChans != requiredChannels {
		return &UnsupportedFormatError{Reason: ReasonChannels, Got: int(d.NumChans), Want: requiredChannels}
	}

	if d.SampleWidth() != requiredSampleWidth {
		return &UnsupportedFormatError{Reason: ReasonSampleWidth, Got: d.SampleWidth(), Want: requiredSampleWidth}
	}

	if d.SampleRate != SampleRate {
		return &UnsupportedFormatError{Reason: ReasonSampleRate, Got: int(d.SampleRate), Want: SampleRate}
	}

	return nil
}

// Convert opens req.InputPath, validates it and writes the source copy and
// the slices. The input is closed before returning.
func Convert(req Request) (*Result, error) {
	segments, preview, err := req.options()
	if err != nil {
		return nil, err
	}

	in, err := Open(req.InputPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return convert(in.Decoder, req, segments, preview)
}

// ConvertFrom validates d and writes its frames as described by req.
// req.InputPath is ignored.
func ConvertFrom(d *Decoder, req Request) (*Result, error) {
	segments, preview, err := req.options()
	if err != nil {
		return nil, err
	}

	return convert(d, req, segments, preview)
}

func convert(d *Decoder, req Request, segments int, preview PreviewFormat) (*Result, error) {
	if !d.WasPCMAccessed() {
		if err := d.FwdToPCM(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
	}

	if err := Validate(d); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, ioError("create directory", req.OutDir, err)
	}

	nf := d.NumFrames()
	res := &Result{
		SourcePath:     req.SourcePath(),
		Frames:         nf,
		FramesPerSlice: nf / segments,
	}
	res.DroppedFrames = nf - segments*res.FramesPerSlice

	if err := d.Rewind(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	all, err := d.ReadFrames(nf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := writeRaw(res.SourcePath, all); err != nil {
		return nil, err
	}

	if preview != PreviewNone {
		if err := os.MkdirAll(filepath.Join(req.OutDir, PreviewDir), 0o755); err != nil {
			return nil, ioError("create directory", filepath.Join(req.OutDir, PreviewDir), err)
		}
	}

	seg := res.FramesPerSlice
	for i := 0; i < segments; i++ {
		if err := d.SetPos(i * seg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		frames, err := d.ReadFrames(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		path := req.SlicePath(i + 1)
		if err := writeRaw(path, frames); err != nil {
			return nil, err
		}

		res.SlicePaths = append(res.SlicePaths, path)
		res.Slices++

		if req.MaxSliceFrames > 0 && len(frames)/d.FrameSize() > req.MaxSliceFrames {
			res.Oversized = append(res.Oversized, i+1)
		}

		if preview == PreviewNone {
			continue
		}

		previewPath := filepath.Join(req.OutDir, PreviewDir, req.Prefix+strconv.Itoa(i+1)+preview.Ext())
		if err := writePreview(previewPath, preview, frames, d); err != nil {
			return nil, err
		}

		res.PreviewPaths = append(res.PreviewPaths, previewPath)
	}

	return res, nil
}

func writeRaw(path string, frames []byte) error {
	if err := os.WriteFile(path, frames, 0o644); err != nil {
		return ioError("write", path, err)
	}

	return nil
}
