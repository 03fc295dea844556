// Package kcd locates the KCRMOVIE marker inside a KCD recording and
// rewrites the HDR reference that follows it.
package kcd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jchantrell/kcdutils/internal/format"
)

// DefaultBufferSize is the read window used when none is configured.
const DefaultBufferSize = 64 * 1024

// Scanner streams a file in fixed windows looking for format.Marker.
// Consecutive windows overlap by len(Marker)-1 bytes so a marker that
// straddles a window boundary is still found.
type Scanner struct {
	BufferSize int
}

// NewScanner returns a scanner reading bufferSize bytes per window.
func NewScanner(bufferSize int) *Scanner {
	return &Scanner{BufferSize: bufferSize}
}

func (s *Scanner) windowSize() int {
	if s == nil || s.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return max(s.BufferSize, len(format.Marker))
}

// Locate returns the byte offset of the marker in r. Scanning stops at the
// first window holding exactly one marker. A window holding more than one
// fails with ErrAmbiguousMarker; reaching EOF without a hit fails with
// ErrMarkerNotFound.
func (s *Scanner) Locate(r io.Reader) (int64, error) {
	size := s.windowSize()
	overlap := len(format.Marker) - 1

	buf := make([]byte, overlap+size)
	var base int64 // file offset of buf[0]
	carry := 0

	for {
		n, err := io.ReadFull(r, buf[carry:carry+size])
		window := buf[:carry+n]

		if n > 0 {
			switch count := bytes.Count(window, format.Marker); {
			case count == 1:
				return base + int64(bytes.Index(window, format.Marker)), nil
			case count > 1:
				return 0, fmt.Errorf("%d markers in window at offset %d: %w", count, base, format.ErrAmbiguousMarker)
			}
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, format.ErrMarkerNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("reading at offset %d: %w: %w", base+int64(carry), format.ErrIO, err)
		}

		keep := min(overlap, len(window))
		copy(buf, window[len(window)-keep:])
		base += int64(len(window) - keep)
		carry = keep
	}
}

// LocateFile opens path and locates the marker in it.
func (s *Scanner) LocateFile(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, format.IOError("opening", path, err)
	}
	defer f.Close()

	offset, err := s.Locate(f)
	if err != nil {
		return 0, fmt.Errorf("locating marker in %s: %w", path, err)
	}
	return offset, nil
}

// Reference is the embedded HDR reference of a KCD file.
type Reference struct {
	MarkerOffset int64
	FieldOffset  int64
	Path         string
}

// ReadReference locates the marker in path and decodes the HDR reference
// stored after it.
func (s *Scanner) ReadReference(path string) (*Reference, error) {
	offset, err := s.LocateFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, format.IOError("opening", path, err)
	}
	defer f.Close()

	fieldOffset := offset + format.MarkerRecordSize
	field := make([]byte, format.PathFieldSize)
	if _, err := f.ReadAt(field, fieldOffset); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading HDR reference in %s at offset %d: %w", path, fieldOffset, format.ErrTruncatedInput)
		}
		return nil, format.IOError("reading", path, err)
	}

	return &Reference{
		MarkerOffset: offset,
		FieldOffset:  fieldOffset,
		Path:         format.DecodeField(field),
	}, nil
}
