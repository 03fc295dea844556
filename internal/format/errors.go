package format

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat   = errors.New("invalid format")
	ErrAmbiguousMarker = errors.New("marker found more than once")
	ErrMarkerNotFound  = errors.New("marker not found")
	ErrNameTooLong     = errors.New("name too long")
	ErrLabelTooLong    = fmt.Errorf("label longer than %d characters: %w", MaxLabelLength, ErrNameTooLong)
	ErrIO              = errors.New("i/o failure")
	ErrTruncatedInput  = errors.New("truncated input")
)

// FieldError reports a value that does not fit in its fixed-width field.
type FieldError struct {
	Path  string // file the field belongs to, if known
	Field string
	Width int
	Size  int
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s is %d bytes, exceeds the %d-byte field", e.Field, e.Size, e.Width)
	}
	return fmt.Sprintf("%s: %s is %d bytes, exceeds the %d-byte field", e.Path, e.Field, e.Size, e.Width)
}

func (e *FieldError) Unwrap() error {
	return ErrNameTooLong
}

// IOError wraps a host filesystem failure so it matches both ErrIO and the
// underlying error.
func IOError(op, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, path, ErrIO, err)
}
