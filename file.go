package wavslice

import (
	"errors"
	"os"
)

// File is a wav container opened from disk.
type File struct {
	*Decoder

	f *os.File
}

// Open opens the wav file at path and positions it at the first frame.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}

	file := &File{Decoder: NewDecoder(f), f: f}

	if err := file.FwdToPCM(); err != nil {
		return nil, errors.Join(ioError("read", path, err), f.Close())
	}

	return file, nil
}

// Close releases the underlying file.
func (f *File) Close() error {
	if f == nil || f.f == nil {
		return nil
	}

	return f.f.Close()
}
