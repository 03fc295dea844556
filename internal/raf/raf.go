// Package raf links an acquisition-session (RAF) file to a KCD recording.
package raf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jchantrell/kcdutils/internal/atomicfile"
	"github.com/jchantrell/kcdutils/internal/format"
)

// ReadHeader reads the fixed RAF header from r and checks its magic.
func ReadHeader(r io.Reader) ([]byte, error) {
	header := make([]byte, format.RAFHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("RAF header needs %d bytes: %w: %w", format.RAFHeaderSize, format.ErrInvalidFormat, format.ErrTruncatedInput)
		}
		return nil, fmt.Errorf("reading RAF header: %w: %w", format.ErrIO, err)
	}
	if !bytes.Equal(header[:len(format.RAFMagic)], format.RAFMagic) {
		return nil, fmt.Errorf("RAF magic is %q: %w", header[:len(format.RAFMagic)], format.ErrInvalidFormat)
	}
	return header, nil
}

// EmbeddedPath converts a host path to the backslash form stored in RAF files.
func EmbeddedPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "/", format.PathSeparator)
}

// ResolveKCD returns the absolute, symlink-free path of kcdPath.
func ResolveKCD(kcdPath string) (string, error) {
	abs, err := filepath.Abs(kcdPath)
	if err != nil {
		return "", format.IOError("resolving", kcdPath, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", format.IOError("resolving", kcdPath, err)
	}
	return resolved, nil
}

// Patch writes "<raf stem>.raf.modify" holding the RAF header, the KCD path
// NUL-padded to 256 bytes and then the rest of the input. The field is
// inserted, so the output is 256 bytes longer than the input.
func Patch(rafPath, kcdPath string) (string, error) {
	return PatchTo(rafPath, kcdPath, "")
}

// PatchTo is Patch with an explicit output path.
func PatchTo(rafPath, kcdPath, out string) (string, error) {
	embedded := EmbeddedPath(kcdPath)
	field, err := format.EncodeField("KCD path", embedded, format.PathFieldSize)
	if err != nil {
		var fe *format.FieldError
		if errors.As(err, &fe) {
			fe.Path = rafPath
		}
		return "", err
	}

	if out == "" {
		out = strings.TrimSuffix(rafPath, filepath.Ext(rafPath)) + ".raf.modify"
	}
	if filepath.Clean(out) == filepath.Clean(rafPath) {
		return "", fmt.Errorf("output %s would overwrite the input: %w", out, format.ErrInvalidFormat)
	}

	in, err := os.Open(rafPath)
	if err != nil {
		return "", format.IOError("opening", rafPath, err)
	}
	defer in.Close()

	header, err := ReadHeader(in)
	if err != nil {
		return "", fmt.Errorf("input is not a valid RAF file %s: %w", rafPath, err)
	}

	w, err := atomicfile.Create(out)
	if err != nil {
		return "", err
	}
	defer w.Abort()

	if _, err := w.Write(header); err != nil {
		return "", err
	}
	if _, err := w.Write(field); err != nil {
		return "", err
	}
	if _, err := io.Copy(w, in); err != nil {
		return "", fmt.Errorf("copying RAF body from %s: %w", rafPath, err)
	}
	if err := w.Commit(); err != nil {
		return "", err
	}

	slog.Info("Wrote RAF file", "path", out, "kcd", embedded)
	return out, nil
}
