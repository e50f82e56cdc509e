package wavslice

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var (
	// ErrPCMDataNotFound is returned when PCM data chunk is not found.
	ErrPCMDataNotFound = errors.New("PCM data not found")
	// ErrPositionOutOfRange is returned when seeking outside of the PCM data.
	ErrPositionOutOfRange = errors.New("frame position out of range")
	errNilChunkOrParser   = errors.New("nil chunk/parser pointer")
	errNoFrameSize        = errors.New("frame size is zero")
)

// Decoder reads a wav container and exposes its PCM data as frames.
// Samples are never decoded: frames are returned as the raw interleaved
// little-endian bytes stored in the data chunk.
type Decoder struct {
	r      io.ReadSeeker
	parser *riff.Parser

	NumChans   uint16
	BitDepth   uint16
	SampleRate uint32

	AvgBytesPerSec uint32
	WavAudioFormat uint16
	FmtChunk       *FmtChunk

	err             error
	PCMSize         int
	pcmDataAccessed bool
	// PCMChunk reads from the current frame position to the end of the data.
	PCMChunk *riff.Chunk

	pcmStart int64
	pos      int
}

// NewDecoder creates a decoder for the passed wav reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
	}
}

// Rewind moves the read cursor back to the first frame.
// This is useful if you want to keep on reading the same file in a loop.
func (d *Decoder) Rewind() error {
	err := d.SetPos(0)
	if err != nil {
		return fmt.Errorf("failed to seek back to the start %w", err)
	}

	return nil
}

// SetPos moves the read cursor to the absolute frame position.
// Valid positions are 0 through NumFrames() inclusive.
func (d *Decoder) SetPos(frame int) error {
	if !d.WasPCMAccessed() {
		if err := d.FwdToPCM(); err != nil {
			return err
		}
	}

	if frame < 0 || frame > d.NumFrames() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, frame, d.NumFrames())
	}

	offset := int64(frame) * int64(d.FrameSize())

	if _, err := d.r.Seek(d.pcmStart+offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to frame %d: %w", frame, err)
	}

	d.PCMChunk.R = io.LimitReader(d.r, int64(d.PCMSize)-offset)
	d.pos = frame

	return nil
}

// Tell returns the current frame position.
func (d *Decoder) Tell() int {
	if d == nil {
		return 0
	}

	return d.pos
}

// ReadFrames reads up to n frames from the current position and returns their
// raw bytes. Fewer frames are returned at the end of the data, or at the end
// of the file when the data chunk is truncated; partial frames are dropped and
// nothing is padded.
func (d *Decoder) ReadFrames(n int) ([]byte, error) {
	if !d.WasPCMAccessed() {
		if err := d.FwdToPCM(); err != nil {
			return nil, err
		}
	}

	frameSize := d.FrameSize()
	if frameSize == 0 {
		return nil, errNoFrameSize
	}

	if n <= 0 {
		return []byte{}, nil
	}

	n = min(n, d.NumFrames()-d.pos)
	if n <= 0 {
		return []byte{}, nil
	}

	buf := make([]byte, n*frameSize)

	got, err := io.ReadFull(d.PCMChunk.R, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	got -= got % frameSize
	d.pos += got / frameSize

	return buf[:got], nil
}

// SampleWidth returns the number of bytes used to store a single sample.
func (d *Decoder) SampleWidth() int {
	if d == nil {
		return 0
	}

	return bytesPerSample(int(d.BitDepth))
}

// FrameSize returns the number of bytes used by one frame (one sample per channel).
// The headers are read first if needed.
func (d *Decoder) FrameSize() int {
	if d == nil {
		return 0
	}

	if d.FmtChunk == nil && d.err == nil && d.parser != nil {
		d.ReadInfo()
	}

	return int(d.NumChans) * d.SampleWidth()
}

// NumFrames returns the number of frames declared by the PCM data chunk.
// The data chunk is located first if needed; 0 is returned when it can't be.
func (d *Decoder) NumFrames() int {
	if d == nil {
		return 0
	}

	if !d.pcmDataAccessed && d.err == nil && d.parser != nil {
		if err := d.FwdToPCM(); err != nil {
			return 0
		}
	}

	frameSize := d.FrameSize()
	if frameSize == 0 {
		return 0
	}

	return d.PCMSize / frameSize
}

// PCMLen returns the total number of bytes in the PCM data chunk.
func (d *Decoder) PCMLen() int64 {
	if d == nil {
		return 0
	}

	return int64(d.PCMSize)
}

// Err returns the first non-EOF error that was encountered by the Decoder.
func (d *Decoder) Err() error {
	if errors.Is(d.err, io.EOF) {
		return nil
	}

	return d.err
}

// IsValidFile verifies that the file is valid/readable.
func (d *Decoder) IsValidFile() bool {
	d.err = d.readHeaders()
	if d.err != nil {
		return false
	}

	return d.NumChans > 0 && d.BitDepth > 0
}

// ReadInfo reads the underlying reader until the fmt chunk is parsed.
// This method is safe to call multiple times.
func (d *Decoder) ReadInfo() {
	d.err = d.readHeaders()
}

// FwdToPCM forwards the underlying reader until the start of the PCM chunk.
// Chunks between the fmt and data chunks are skipped.
func (d *Decoder) FwdToPCM() error {
	if d == nil {
		return ErrPCMDataNotFound
	}

	if d.pcmDataAccessed {
		return d.SetPos(0)
	}

	d.err = d.readHeaders()
	if d.err != nil {
		return d.err
	}

	for {
		chunk, declared, err := d.nextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				d.err = ErrPCMDataNotFound
			} else {
				d.err = err
			}

			return d.err
		}

		if chunk.ID != riff.DataFormatID {
			chunk.Drain()

			continue
		}

		return d.locatePCM(chunk, declared)
	}
}

// WasPCMAccessed returns positively if the PCM data was previously located.
func (d *Decoder) WasPCMAccessed() bool {
	if d == nil {
		return false
	}

	return d.pcmDataAccessed
}

// Format returns the audio format of the container.
func (d *Decoder) Format() *audio.Format {
	if d == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(d.NumChans),
		SampleRate:  int(d.SampleRate),
	}
}

// Duration returns the playing time of the PCM data.
func (d *Decoder) Duration() time.Duration {
	if d == nil {
		return 0
	}

	return framesDuration(d.NumFrames(), int(d.SampleRate))
}

// String implements the Stringer interface.
func (d *Decoder) String() string {
	if d == nil {
		return "<nil>"
	}

	return fmt.Sprintf("Format: %s - %d channels @ %d / %d bits - %d frames (%s)",
		formatTagName(d.WavAudioFormat), d.NumChans, d.SampleRate, d.BitDepth, d.NumFrames(), d.Duration())
}

// locatePCM records where the data chunk starts. The frame count follows the
// size declared in the chunk header, even when the file ends earlier; reads
// past the real end of the file come back short.
func (d *Decoder) locatePCM(chunk *riff.Chunk, declared int) error {
	start, err := d.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to locate PCM data: %w", err)
	}

	d.pcmStart = start
	d.PCMSize = declared
	d.PCMChunk = chunk
	d.PCMChunk.Size = declared
	d.PCMChunk.R = io.LimitReader(d.r, int64(declared))
	d.pcmDataAccessed = true
	d.pos = 0

	return nil
}

// nextChunk returns the next chunk and the size declared in its header.
// The chunk size itself is word aligned.
func (d *Decoder) nextChunk() (*riff.Chunk, int, error) {
	id, size, err := d.parser.IDnSize()
	if err != nil {
		return nil, 0, fmt.Errorf("error reading chunk header - %w", err)
	}

	declared := int(size)

	// all RIFF chunks (including WAVE "data" chunks) must be word aligned.
	// If the data uses an odd number of bytes, a padding byte with a value of zero
	// must be placed at the end of the sample data.
	// The "data" chunk header's size should not include this byte.
	if size%2 == 1 {
		size++
	}

	chnk := &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}

	return chnk, declared, nil
}

// readHeaders is safe to call multiple times.
func (d *Decoder) readHeaders() error {
	if d == nil || d.FmtChunk != nil {
		return nil
	}

	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read chunk ID and size: %w", err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%s - %w", d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("failed to read format: %w", err)
	}

	if d.parser.Format != riff.WavFormatID {
		return fmt.Errorf("%s - %w", d.parser.Format, riff.ErrFmtNotSupported)
	}

	for {
		chunk, err := d.parser.NextChunk()
		if err != nil {
			return fmt.Errorf("failed to find fmt chunk: %w", err)
		}

		if chunk.ID != riff.FmtID {
			chunk.Drain()

			continue
		}

		fmtChunk, err := decodeWavHeaderChunk(chunk, d.parser)
		if err != nil {
			return fmt.Errorf("failed to decode fmt chunk: %w", err)
		}

		d.FmtChunk = fmtChunk
		d.NumChans = d.parser.NumChannels
		d.BitDepth = d.parser.BitsPerSample
		d.SampleRate = d.parser.SampleRate
		d.WavAudioFormat = d.parser.WavAudioFormat
		d.AvgBytesPerSec = d.parser.AvgBytesPerSec

		return nil
	}
}

func decodeWavHeaderChunk(chunk *riff.Chunk, parser *riff.Parser) (*FmtChunk, error) {
	if chunk == nil || parser == nil {
		return nil, errNilChunkOrParser
	}

	fmtChunk := &FmtChunk{}

	err := chunk.ReadLE(&fmtChunk.FormatTag)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav format: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.AvgBytesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to read avg bytes/sec: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BlockAlign)
	if err != nil {
		return nil, fmt.Errorf("failed to read block align: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("failed to read bit depth: %w", err)
	}

	parser.NumChannels = fmtChunk.NumChannels
	parser.SampleRate = fmtChunk.SampleRate
	parser.AvgBytesPerSec = fmtChunk.AvgBytesPerSec
	parser.BlockAlign = fmtChunk.BlockAlign
	parser.BitsPerSample = fmtChunk.BitsPerSample
	parser.WavAudioFormat = fmtChunk.FormatTag

	if chunk.Size <= 16 {
		return fmtChunk, nil
	}

	var extraSize uint16

	err = chunk.ReadLE(&extraSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read fmt extension size: %w", err)
	}

	fmtChunk.ExtraData = make([]byte, extraSize)
	if extraSize > 0 {
		err := chunk.ReadLE(fmtChunk.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("failed to read fmt extension data: %w", err)
		}
	}

	if fmtChunk.FormatTag != wavFormatExtensible || extraSize < 22 {
		chunk.Drain()

		return fmtChunk, nil
	}

	ext := &FmtExtensible{}
	ext.ValidBitsPerSample = binary.LittleEndian.Uint16(fmtChunk.ExtraData[0:2])
	ext.ChannelMask = binary.LittleEndian.Uint32(fmtChunk.ExtraData[2:6])
	copy(ext.SubFormat[:], fmtChunk.ExtraData[6:22])

	fmtChunk.Extensible = ext
	parser.WavAudioFormat = fmtChunk.EffectiveFormatTag()

	chunk.Drain()

	return fmtChunk, nil
}

func bytesPerSample(bitDepth int) int {
	if bitDepth <= 0 {
		return 0
	}

	return (bitDepth-1)/8 + 1
}
