// This tool prints the format of the passed wav file and whether wavslice
// accepts it.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/wavslice"
)

const missingPathMessage = "You must pass the path of the file to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := wavslice.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	fmtChunk := file.FormatChunk()

	fmt.Fprintf(out, "Format: %d\n", fmtChunk.EffectiveFormatTag())
	fmt.Fprintf(out, "Channels: %d\n", file.NumChans)
	fmt.Fprintf(out, "BitDepth: %d\n", file.BitDepth)
	fmt.Fprintf(out, "SampleWidth: %d\n", file.SampleWidth())
	fmt.Fprintf(out, "SampleRate: %d\n", file.SampleRate)
	fmt.Fprintf(out, "BlockAlign: %d\n", fmtChunk.BlockAlign)
	fmt.Fprintf(out, "Frames: %d\n", file.NumFrames())
	fmt.Fprintf(out, "Duration: %s\n", file.Duration())

	if err := wavslice.Validate(file.Decoder); err != nil {
		fmt.Fprintf(out, "Accepted: no (%v)\n", err)
		return nil
	}

	fmt.Fprintln(out, "Accepted: yes")

	seg := file.NumFrames() / wavslice.DefaultSegments
	fmt.Fprintf(out, "Slices: %d x %d frames\n", wavslice.DefaultSegments, seg)

	if seg > wavslice.SamplerVoiceFrames {
		fmt.Fprintf(out, "\tslices exceed the %d frame sampler voice buffer\n", wavslice.SamplerVoiceFrames)
	}

	return nil
}
