package raf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jchantrell/kcdutils/internal/format"
)

// Info describes a RAF file.
type Info struct {
	Size int64
	// KCDPath is the field following the header, empty when the file is too
	// short to hold one.
	KCDPath string
}

// Inspect validates the RAF header of path and decodes the KCD path field.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, format.IOError("opening", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, format.IOError("stat", path, err)
	}

	if _, err := ReadHeader(f); err != nil {
		return nil, fmt.Errorf("input is not a valid RAF file %s: %w", path, err)
	}

	info := &Info{Size: st.Size()}
	field := make([]byte, format.PathFieldSize)
	if _, err := io.ReadFull(f, field); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return info, nil
		}
		return nil, format.IOError("reading", path, err)
	}
	info.KCDPath = format.DecodeField(field)
	return info, nil
}
