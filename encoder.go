package wavslice

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

// Encoder encodes integer LPCM data into a wav containter.
type Encoder struct {
	w   io.WriteSeeker
	buf *bytes.Buffer

	SampleRate int
	BitDepth   int
	NumChans   int

	WrittenBytes    int
	pcmBytes        int
	pcmChunkStarted bool
	pcmChunkSizePos int
	wroteHeader     bool // true if we've written the header out
}

var (
	errNilBuffer               = errors.New("can't add a nil buffer")
	errAlreadyWroteHdr         = errors.New("already wrote header")
	errNilEncoder              = errors.New("can't write a nil encoder")
	errNilWriter               = errors.New("can't write to a nil writer")
	errUnsupportedFrameBitSize = errors.New("can't add frames of bit size")
	errMisalignedPCM           = errors.New("PCM data is not a whole number of frames")
)

// NewEncoder creates a new encoder to create a new PCM wav file.
// Don't forget to Close the encoder once all frames are written.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, numChans int) *Encoder {
	return &Encoder{
		w:          w,
		buf:        bytes.NewBuffer(make([]byte, 0, samplesNumFromDuration(time.Second, sampleRate)*bytesPerSample(bitDepth)*numChans)),
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		NumChans:   numChans,
	}
}

// AddLE serializes and adds the passed value using little endian.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// Write encodes and writes the passed buffer to the underlying writer.
// Don't forget to Close() the encoder or the file won't be valid.
func (e *Encoder) Write(buf *audio.IntBuffer) error {
	if buf == nil {
		return errNilBuffer
	}

	if err := e.startPCM(); err != nil {
		return err
	}

	for _, val := range buf.Data {
		var err error

		switch e.BitDepth {
		case 8:
			err = e.buf.WriteByte(uint8(val))
		case 16:
			err = binary.Write(e.buf, binary.LittleEndian, int16(val))
		case 24:
			_, err = e.buf.Write(audio.Int32toInt24LEBytes(int32(val)))
		case 32:
			err = binary.Write(e.buf, binary.LittleEndian, int32(val))
		default:
			return fmt.Errorf("%w: %d", errUnsupportedFrameBitSize, e.BitDepth)
		}

		if err != nil {
			return fmt.Errorf("failed to buffer %d-bit sample: %w", e.BitDepth, err)
		}
	}

	return e.flush()
}

// WritePCM copies already encoded little-endian frames verbatim into the
// data chunk.
func (e *Encoder) WritePCM(frames []byte) error {
	if frameSize := e.NumChans * bytesPerSample(e.BitDepth); frameSize == 0 || len(frames)%frameSize != 0 {
		return fmt.Errorf("%w: %d bytes", errMisalignedPCM, len(frames))
	}

	if err := e.startPCM(); err != nil {
		return err
	}

	n, err := e.w.Write(frames)
	e.WrittenBytes += n
	e.pcmBytes += n

	if err != nil {
		return fmt.Errorf("failed to write PCM data: %w", err)
	}

	return nil
}

// WriteFrame writes a single sample to the underlying writer.
// float32 and float64 values are scaled from [-1, 1] to the encoder's bit depth.
func (e *Encoder) WriteFrame(value any) error {
	if err := e.startPCM(); err != nil {
		return err
	}

	switch val := value.(type) {
	case float64:
		return e.WriteFrame(float32(val))
	case float32:
		switch e.BitDepth {
		case 8:
			return e.addSample(float32ToPCMUint8(val))
		case 16:
			return e.addSample(int16(float32ToPCMInt32(val, 16)))
		case 24:
			return e.addSample(audio.Int32toInt24LEBytes(float32ToPCMInt32(val, 24)))
		case 32:
			return e.addSample(float32ToPCMInt32(val, 32))
		default:
			return fmt.Errorf("%w: %d", errUnsupportedFrameBitSize, e.BitDepth)
		}
	default:
		return e.addSample(value)
	}
}

func (e *Encoder) addSample(value any) error {
	before := e.WrittenBytes

	err := e.AddLE(value)
	e.pcmBytes += e.WrittenBytes - before

	return err
}

func (e *Encoder) flush() error {
	n, err := e.w.Write(e.buf.Bytes())
	e.WrittenBytes += n
	e.pcmBytes += n
	e.buf.Reset()

	if err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}

	return nil
}

func (e *Encoder) startPCM() error {
	if !e.wroteHeader {
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}

	if e.pcmChunkStarted {
		return nil
	}

	// sound header
	err := e.AddLE(riff.DataFormatID)
	if err != nil {
		return fmt.Errorf("error encoding sound header %w", err)
	}

	e.pcmChunkStarted = true

	// write a temporary chunksize
	e.pcmChunkSizePos = e.WrittenBytes

	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	return nil
}

func (e *Encoder) writeHeader() error {
	if e == nil {
		return errNilEncoder
	}

	if e.wroteHeader {
		return errAlreadyWroteHdr
	}

	e.wroteHeader = true

	if e.w == nil {
		return errNilWriter
	}

	// riff ID
	err := e.AddLE(riff.RiffID)
	if err != nil {
		return err
	}
	// file size uint32, to update later on.
	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return err
	}
	// wave headers
	err = e.AddLE(riff.WavFormatID)
	if err != nil {
		return err
	}
	// form
	err = e.AddLE(riff.FmtID)
	if err != nil {
		return err
	}

	return e.writeFmtChunk()
}

func (e *Encoder) writeFmtChunk() error {
	blockAlign := e.NumChans * bytesPerSample(e.BitDepth)

	err := e.AddLE(uint32(16))
	if err != nil {
		return err
	}

	err = e.AddLE(uint16(wavFormatPCM))
	if err != nil {
		return err
	}

	err = e.AddLE(uint16(e.NumChans))
	if err != nil {
		return fmt.Errorf("error encoding the number of channels - %w", err)
	}

	err = e.AddLE(uint32(e.SampleRate))
	if err != nil {
		return fmt.Errorf("error encoding the sample rate - %w", err)
	}

	err = e.AddLE(uint32(e.SampleRate * blockAlign))
	if err != nil {
		return fmt.Errorf("error encoding the avg bytes per sec - %w", err)
	}

	err = e.AddLE(uint16(blockAlign))
	if err != nil {
		return err
	}

	err = e.AddLE(uint16(e.BitDepth))
	if err != nil {
		return fmt.Errorf("error encoding bits per sample - %w", err)
	}

	return nil
}

// Close flushes the content to disk, make sure the headers are up to date
// Note that the underlying writer is NOT being closed.
func (e *Encoder) Close() error {
	if e == nil || e.w == nil {
		return nil
	}

	// an encoder without frames still produces a valid, empty file
	if err := e.startPCM(); err != nil {
		return err
	}

	if e.pcmBytes%2 == 1 {
		n, err := e.w.Write([]byte{0})
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write PCM padding byte: %w", err)
		}
	}

	// go back and write total size in header
	if _, err := e.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to file size position: %w", err)
	}

	err := e.AddLE(uint32(e.WrittenBytes) - 8)
	if err != nil {
		return fmt.Errorf("%w when writing the total written bytes", err)
	}

	// rewrite the audio chunk length header
	if _, err := e.w.Seek(int64(e.pcmChunkSizePos), io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to PCM chunk size position: %w", err)
	}

	err = e.AddLE(uint32(e.pcmBytes))
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	// jump back to the end of the file.
	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	if f, ok := e.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}
