package kcd

import (
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

// PatchOptions configures Patch.
type PatchOptions struct {
	// Output is the patched file path. Empty means "<input stem>.kcd.modify".
	Output string
	// Mode Move removes the input once the output is committed.
	Mode       format.Mode
	BufferSize int
}

// ModifiedPath returns the default output path for a patched file:
// the input with its extension replaced by ext + ".modify".
func ModifiedPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext + ".modify"
}

// HeaderReference builds the embedded reference for an HDR file stem.
func HeaderReference(stem string) string {
	return stem + format.PathSeparator + stem + ".hdr"
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Patch writes a copy of kcdPath whose embedded HDR reference points at
// hdrPath's stem. The output is byte-identical to the input except for the
// 256-byte reference field, so both have the same length.
func Patch(kcdPath, hdrPath string, opts PatchOptions) (string, error) {
	stem := Stem(hdrPath)
	if stem == "" || stem == "." {
		return "", fmt.Errorf("output is not a valid name: %s: %w", hdrPath, format.ErrInvalidFormat)
	}

	field, err := format.EncodeField("HDR reference", HeaderReference(stem), format.PathFieldSize)
	if err != nil {
		var fe *format.FieldError
		if errors.As(err, &fe) {
			fe.Path = kcdPath
		}
		return "", err
	}

	out := opts.Output
	if out == "" {
		out = ModifiedPath(kcdPath, "kcd")
	}
	if filepath.Clean(out) == filepath.Clean(kcdPath) {
		return "", fmt.Errorf("output %s would overwrite the input: %w", out, format.ErrInvalidFormat)
	}

	slog.Info("Linking KCD to HDR", "kcd", kcdPath, "hdr", hdrPath)

	in, err := os.Open(kcdPath)
	if err != nil {
		return "", format.IOError("opening", kcdPath, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", format.IOError("stat", kcdPath, err)
	}

	offset, err := NewScanner(opts.BufferSize).Locate(in)
	if err != nil {
		return "", fmt.Errorf("input is not a valid KCD file %s: %w", kcdPath, err)
	}

	splice := offset + format.MarkerRecordSize
	resume := splice + format.PathFieldSize
	if resume > info.Size() {
		return "", fmt.Errorf("%s: HDR reference at offset %d needs %d bytes, file has %d: %w",
			kcdPath, splice, resume, info.Size(), format.ErrTruncatedInput)
	}
	slog.Debug("Found KCRMOVIE marker", "path", kcdPath, "offset", offset)

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return "", format.IOError("seeking", kcdPath, err)
	}

	w, err := atomicfile.Create(out)
	if err != nil {
		return "", err
	}
	defer w.Abort()

	if _, err := io.CopyN(w, in, splice); err != nil {
		return "", fmt.Errorf("copying KCD prefix from %s: %w", kcdPath, err)
	}
	if _, err := w.Write(field); err != nil {
		return "", err
	}
	if _, err := in.Seek(resume, io.SeekStart); err != nil {
		return "", format.IOError("seeking", kcdPath, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return "", fmt.Errorf("copying KCD remainder from %s: %w", kcdPath, err)
	}
	if err := w.Commit(); err != nil {
		return "", err
	}

	if opts.Mode == format.Move {
		if err := os.Remove(kcdPath); err != nil {
			return out, format.IOError("removing original KCD", kcdPath, err)
		}
	}

	slog.Info("Wrote KCD file", "path", out)
	return out, nil
}
