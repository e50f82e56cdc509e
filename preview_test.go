package wavslice

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

func TestParsePreviewFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    PreviewFormat
		wantErr bool
	}{
		{in: "", want: PreviewNone},
		{in: "wav", want: PreviewWAV},
		{in: " AIFF ", want: PreviewAIFF},
		{in: "flac", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePreviewFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPreviewFormat) {
				t.Fatalf("ParsePreviewFormat(%q) error=%v, want ErrInvalidPreviewFormat", tt.in, err)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Fatalf("ParsePreviewFormat(%q)=%q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func convertWithPreview(t *testing.T, format PreviewFormat) (*Result, []byte) {
	t.Helper()

	pcm := rampPCM16(400)
	req := Request{
		InputPath: writeTestFile(t, "in.wav", monoWAV(400)),
		OutDir:    t.TempDir(),
		Prefix:    "A",
		Segments:  4,
		Preview:   format,
	}

	res, err := Convert(req)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.PreviewPaths) != 4 {
		t.Fatalf("%d preview files, want 4", len(res.PreviewPaths))
	}

	want := filepath.Join(req.OutDir, PreviewDir, "A3"+format.Ext())
	if res.PreviewPaths[2] != want {
		t.Fatalf("preview path=%s, want %s", res.PreviewPaths[2], want)
	}

	return res, pcm
}

func checkPreviewBuffer(t *testing.T, buf *audio.IntBuffer, pcm []byte, slice int) {
	t.Helper()

	if len(buf.Data) != 100 {
		t.Fatalf("preview holds %d samples, want 100", len(buf.Data))
	}

	for i, v := range buf.Data {
		want := int(int16(binary.LittleEndian.Uint16(pcm[2*(slice*100+i):])))
		if v != want {
			t.Fatalf("sample[%d]=%d, want %d", i, v, want)
		}
	}
}

func TestConvertWAVPreview(t *testing.T) {
	res, pcm := convertWithPreview(t, PreviewWAV)

	f, err := os.Open(res.PreviewPaths[2])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if dec.SampleRate != SampleRate || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("preview format %d Hz / %d ch / %d bits", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}

	checkPreviewBuffer(t, buf, pcm, 2)
}

func TestConvertAIFFPreview(t *testing.T) {
	res, pcm := convertWithPreview(t, PreviewAIFF)

	f, err := os.Open(res.PreviewPaths[2])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid aiff preview")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	checkPreviewBuffer(t, buf, pcm, 2)
}

func TestPreviewKeepsRawOutputs(t *testing.T) {
	res, pcm := convertWithPreview(t, PreviewWAV)

	got := readFile(t, res.SlicePaths[0])
	if len(got) != 200 || got[2] != pcm[2] {
		t.Fatal("raw slices changed when previews are enabled")
	}
}

func TestPCM16Buffer(t *testing.T) {
	format := &audio.Format{NumChannels: 1, SampleRate: SampleRate}

	buf := PCM16Buffer([]byte{0x00, 0x80, 0xff, 0x7f, 0x01}, format)

	if buf.Format != format || buf.SourceBitDepth != 16 {
		t.Fatalf("unexpected buffer format %+v / %d bits", buf.Format, buf.SourceBitDepth)
	}

	want := []int{-32768, 32767}
	if len(buf.Data) != len(want) || buf.Data[0] != want[0] || buf.Data[1] != want[1] {
		t.Fatalf("data=%v, want %v", buf.Data, want)
	}
}
