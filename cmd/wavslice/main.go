// This tool converts a mono 16-bit 22050 Hz wav file into raw PCM files for
// the sampler: <outdir>/source.raw holding the whole recording and
// <outdir>/<prefix>1.raw … <prefix>N.raw holding N equal slices.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cwbudde/wavslice"
)

var errUsage = errors.New("usage")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case errors.Is(err, wavslice.ErrUnsupportedFormat):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wavslice", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprintln(flagSet.Output(), "usage: wavslice [flags] <input.wav>  (mono 16-bit PCM @ 22050 Hz)")
		flagSet.PrintDefaults()
	}

	cfg := defaultConfig()

	outDir := flagSet.String("outdir", "", "destination directory, created if missing (required)")
	prefix := flagSet.String("prefix", "", "slice filename prefix, usually the row letter A, B, C or D (required)")
	segments := flagSet.Int("segments", cfg.segments, "number of equal slices")
	preview := flagSet.String("preview", "", `also write playable slice copies: "wav" or "aiff"`)
	maxSliceFrames := flagSet.Int("max-slice-frames", cfg.maxSliceFrames, "warn when a slice exceeds this many frames, 0 disables")
	envFile := flagSet.String("env", ".env", "dotenv file providing WAVSLICE_* defaults")

	inputs, err := parseInterspersed(flagSet, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if len(inputs) != 1 {
		flagSet.Usage()
		return fmt.Errorf("%w: expected exactly one input file, got %d", errUsage, len(inputs))
	}

	if err := cfg.loadEnv(*envFile); err != nil {
		return err
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "outdir":
			cfg.outDir = *outDir
		case "prefix":
			cfg.prefix = *prefix
		case "segments":
			cfg.segments = *segments
		case "preview":
			cfg.preview = *preview
		case "max-slice-frames":
			cfg.maxSliceFrames = *maxSliceFrames
		}
	})

	if err := cfg.validate(); err != nil {
		return err
	}

	res, err := wavslice.Convert(cfg.request(inputs[0]))
	if err != nil {
		return err
	}

	log.Printf("%d frames, %d per slice, %d trailing frames only in %s",
		res.Frames, res.FramesPerSlice, res.DroppedFrames, wavslice.SourceName)

	for _, idx := range res.Oversized {
		log.Printf("warning: %s%d is %d frames, longer than %d, the sampler will cut it short",
			cfg.prefix, idx, res.FramesPerSlice, cfg.maxSliceFrames)
	}

	fmt.Fprintf(out, "Wrote %s and %d slices.\n", res.SourcePath, res.Slices)

	return nil
}

// parseInterspersed parses flags appearing before, between or after the
// positional arguments and returns the positionals. Everything after a "--"
// terminator is positional.
func parseInterspersed(flagSet *flag.FlagSet, args []string) ([]string, error) {
	var positional []string

	for {
		if err := flagSet.Parse(args); err != nil {
			return nil, err
		}

		rest := flagSet.Args()
		if terminated(flagSet, args[:len(args)-len(rest)]) {
			return append(positional, rest...), nil
		}

		if len(rest) == 0 {
			return positional, nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// terminated reports whether parsing consumed a "--" terminator, as opposed
// to a "--" given as the value of the preceding flag.
func terminated(flagSet *flag.FlagSet, consumed []string) bool {
	n := len(consumed)
	if n == 0 || consumed[n-1] != "--" {
		return false
	}

	if n == 1 {
		return true
	}

	name := strings.TrimLeft(consumed[n-2], "-")
	if name == "" || strings.Contains(name, "=") || !strings.HasPrefix(consumed[n-2], "-") {
		return true
	}

	f := flagSet.Lookup(name)
	if f == nil {
		return true
	}

	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return true
	}

	return false
}
