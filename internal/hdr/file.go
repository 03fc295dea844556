package hdr

import (
	"fmt"
	"os"

	"github.com/jchantrell/kcdutils/internal/atomicfile"
	"github.com/jchantrell/kcdutils/internal/format"
)

// ReadFile reads and decodes the HDR file at path.
func ReadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, format.IOError("reading", path, err)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing HDR file %s: %w", path, err)
	}
	return idx, nil
}

// WriteFile encodes idx and atomically writes it to path. Nothing is written
// when encoding fails.
func WriteFile(path string, idx *Index) error {
	data, err := Encode(idx)
	if err != nil {
		return fmt.Errorf("encoding HDR file %s: %w", path, err)
	}
	return atomicfile.WriteFile(path, data)
}
