package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/wavslice"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 4, "length in seconds of output file")
	sampleRate := flagSet.Int("rate", wavslice.SampleRate, "sample rate in hertz")
	bitDepth := flagSet.Int("bitdepth", 16, "bits per sample: 8, 16, 24 or 32")
	channels := flagSet.Int("channels", 1, "number of channels, each carrying the same tone")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	log.Printf("generating a %f sec sine wav at %f hz", *length, *frequency)

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer file.Close()

	wavOut := wavslice.NewEncoder(file, *sampleRate, *bitDepth, *channels)
	numSamples := int(float64(*sampleRate) * *length)

	for i := 0; i < numSamples; i++ {
		fv := math.Sin(float64(i) / float64(*sampleRate) * *frequency * 2 * math.Pi)

		v := float32(fv)

		for c := 0; c < *channels; c++ {
			err := wavOut.WriteFrame(v)
			if err != nil {
				return err
			}
		}
	}

	return wavOut.Close()
}
