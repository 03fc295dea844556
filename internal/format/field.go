package format

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// EncodeField encodes s as Latin-1 and NUL-pads it to width bytes. A value
// longer than width yields a *FieldError naming field.
func EncodeField(field, s string, width int) ([]byte, error) {
	buf := make([]byte, width)
	if err := PutField(buf, field, s); err != nil {
		return nil, err
	}
	return buf, nil
}

// PutField writes s into dst as Latin-1 and zeroes the rest of dst.
func PutField(dst []byte, field, s string) error {
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("%s %q is not Latin-1 text: %w", field, s, ErrInvalidFormat)
	}
	if len(raw) > len(dst) {
		return &FieldError{Field: field, Width: len(dst), Size: len(raw)}
	}

	n := copy(dst, raw)
	clear(dst[n:])
	return nil
}

// DecodeField decodes a Latin-1 field, stripping trailing NUL padding only.
// Interior NULs are kept.
func DecodeField(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// every byte is a valid Latin-1 code point
		return string(b)
	}
	return string(out)
}

// EncodedLen returns the Latin-1 byte length of s, or the UTF-8 length when s
// holds characters outside Latin-1.
func EncodedLen(s string) int {
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return len(s)
	}
	return len(raw)
}
