package wavslice

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

type testChunk struct {
	id   string
	data []byte
}

// buildRIFF assembles a RIFF/WAVE file from the passed chunks, padding odd
// sized chunks like a compliant writer would.
func buildRIFF(chunks ...testChunk) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	for _, ch := range chunks {
		body.WriteString(ch.id)
		binary.Write(body, binary.LittleEndian, uint32(len(ch.data)))
		body.Write(ch.data)

		if len(ch.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func fmtChunk(formatTag, channels uint16, sampleRate uint32, bitsPerSample uint16) testChunk {
	blockAlign := channels * uint16(bytesPerSample(int(bitsPerSample)))

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, formatTag)
	binary.Write(buf, binary.LittleEndian, channels)
	binary.Write(buf, binary.LittleEndian, sampleRate)
	binary.Write(buf, binary.LittleEndian, sampleRate*uint32(blockAlign))
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bitsPerSample)

	return testChunk{id: "fmt ", data: buf.Bytes()}
}

func extensibleFmtChunk(subFormat, channels uint16, sampleRate uint32, bitsPerSample uint16) testChunk {
	base := fmtChunk(wavFormatExtensible, channels, sampleRate, bitsPerSample)

	buf := bytes.NewBuffer(base.data)
	binary.Write(buf, binary.LittleEndian, uint16(22))
	binary.Write(buf, binary.LittleEndian, bitsPerSample)
	binary.Write(buf, binary.LittleEndian, uint32(0x4))

	guid := [16]byte{0, 0, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}
	binary.LittleEndian.PutUint16(guid[:2], subFormat)
	buf.Write(guid[:])

	return testChunk{id: "fmt ", data: buf.Bytes()}
}

func dataChunk(pcm []byte) testChunk {
	return testChunk{id: "data", data: pcm}
}

// rampPCM16 returns n mono frames whose sample i is int16(i), so every
// frame is distinguishable.
func rampPCM16(n int) []byte {
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(i)))
	}

	return out
}

func monoWAV(frames int) []byte {
	return buildRIFF(fmtChunk(wavFormatPCM, 1, SampleRate, 16), dataChunk(rampPCM16(frames)))
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

// writeGoAudioWAV writes a file with the go-audio encoder, which is
// independent from the Encoder in this package.
func writeGoAudioWAV(t *testing.T, sampleRate, bitDepth, channels int, samples []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := gowav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           samples,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder %s: %v", path, err)
	}

	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return data
}
