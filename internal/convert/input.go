package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Input is the user's selected video.
type Input struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// FromFile builds an Input backed by the file at path.
func FromFile(path string) (*Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &Input{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes builds an in-memory Input.
func FromBytes(name string, data []byte) *Input {
	return &Input{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a fresh reader over the input bytes.
func (in *Input) Open() (io.ReadCloser, error) {
	if in == nil || in.open == nil {
		return nil, errors.New("input has no byte source")
	}
	return in.open()
}
