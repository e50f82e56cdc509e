package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/cwbudde/wavslice"
	"github.com/joho/godotenv"
)

const (
	envOutDir         = "WAVSLICE_OUTDIR"
	envPrefix         = "WAVSLICE_PREFIX"
	envSegments       = "WAVSLICE_SEGMENTS"
	envPreview        = "WAVSLICE_PREVIEW"
	envMaxSliceFrames = "WAVSLICE_MAX_SLICE_FRAMES"
)

type config struct {
	outDir         string
	prefix         string
	segments       int
	preview        string
	maxSliceFrames int
}

func defaultConfig() config {
	return config{
		segments:       wavslice.DefaultSegments,
		maxSliceFrames: wavslice.SamplerVoiceFrames,
	}
}

// loadEnv applies values from the dotenv file at path, then from the process
// environment, which takes precedence. A missing file is not an error.
func (c *config) loadEnv(path string) error {
	fileEnv := map[string]string{}

	if path != "" {
		vals, err := godotenv.Read(path)
		switch {
		case err == nil:
			fileEnv = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileEnv[key]

		return v, ok
	}

	if v, ok := lookup(envOutDir); ok {
		c.outDir = v
	}

	if v, ok := lookup(envPrefix); ok {
		c.prefix = v
	}

	if v, ok := lookup(envPreview); ok {
		c.preview = v
	}

	if v, ok := lookup(envSegments); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", errUsage, envSegments, v)
		}

		c.segments = n
	}

	if v, ok := lookup(envMaxSliceFrames); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", errUsage, envMaxSliceFrames, v)
		}

		c.maxSliceFrames = n
	}

	return nil
}

func (c config) validate() error {
	if c.outDir == "" {
		return fmt.Errorf("%w: -outdir is required", errUsage)
	}

	if c.prefix == "" {
		return fmt.Errorf("%w: -prefix is required", errUsage)
	}

	if c.segments < 1 {
		return fmt.Errorf("%w: -segments must be at least 1, got %d", errUsage, c.segments)
	}

	if _, err := wavslice.ParsePreviewFormat(c.preview); err != nil {
		return fmt.Errorf("%w: -preview: %w", errUsage, err)
	}

	return nil
}

func (c config) request(input string) wavslice.Request {
	preview, _ := wavslice.ParsePreviewFormat(c.preview)

	return wavslice.Request{
		InputPath:      input,
		OutDir:         c.outDir,
		Prefix:         c.prefix,
		Segments:       c.segments,
		Preview:        preview,
		MaxSliceFrames: c.maxSliceFrames,
	}
}
