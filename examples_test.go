package wavslice

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
)

func ExampleConvert() {
	dir, err := os.MkdirTemp("", "wavslice")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// four seconds of a 440 Hz tone in the accepted format
	input := filepath.Join(dir, "tone.wav")

	f, err := os.Create(input)
	if err != nil {
		log.Fatal(err)
	}

	enc := NewEncoder(f, SampleRate, 16, 1)
	for i := 0; i < 4*SampleRate; i++ {
		if err := enc.WriteFrame(math.Sin(2 * math.Pi * 440 * float64(i) / SampleRate)); err != nil {
			log.Fatal(err)
		}
	}

	if err := enc.Close(); err != nil {
		log.Fatal(err)
	}

	f.Close()

	res, err := Convert(Request{InputPath: input, OutDir: filepath.Join(dir, "A"), Prefix: "A"})
	if err != nil {
		log.Fatal(err)
	}

	fi, err := os.Stat(res.SourcePath)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d bytes\n", filepath.Base(res.SourcePath), fi.Size())
	fmt.Printf("%d slices of %d frames, first is %s\n", res.Slices, res.FramesPerSlice, filepath.Base(res.SlicePaths[0]))
	// Output:
	// source.raw: 176400 bytes
	// 8 slices of 11025 frames, first is A1.raw
}

func ExampleDecoder_SetPos() {
	var pcm []byte
	for i := 0; i < 8; i++ {
		pcm = append(pcm, byte(i), 0)
	}

	wav := new(bytes.Buffer)
	for _, b := range [][]byte{
		[]byte("RIFF"), {52, 0, 0, 0}, []byte("WAVE"),
		[]byte("fmt "), {16, 0, 0, 0}, {1, 0, 1, 0}, {0x22, 0x56, 0, 0}, {0x44, 0xac, 0, 0}, {2, 0, 16, 0},
		[]byte("data"), {16, 0, 0, 0}, pcm,
	} {
		wav.Write(b)
	}

	d := NewDecoder(bytes.NewReader(wav.Bytes()))
	if err := d.SetPos(6); err != nil {
		log.Fatal(err)
	}

	frames, err := d.ReadFrames(4)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(d.NumFrames(), frames, d.Tell())
	// Output: 8 [6 0 7 0] 8
}
