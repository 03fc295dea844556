package recording

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
	"github.com/jchantrell/kcdutils/internal/home"
	"github.com/jchantrell/kcdutils/internal/kcd"
	"github.com/jchantrell/kcdutils/internal/relocate"
)

// CloneResult lists what Clone produced.
type CloneResult struct {
	KCD        string
	HDR        string
	VideoDir   string
	Relocation *relocate.Result
}

// Clone copies the recording set rooted at kcdPath under a new label:
//
//	<dir>/<tag>.kcd, <dir>/<tag>/<tag>.hdr, <dir>/<tag>/<clips>
//
// becomes
//
//	<dir>/<label>.kcd, <dir>/<label>/<label>.hdr, <dir>/<label>/<clips>
//
// The KCD is always copied; the clips are copied or moved according to
// opts.Mode, best effort. Every name is validated before anything is written.
func Clone(ctx context.Context, kcdPath, label string, opts Options) (*CloneResult, error) {
	if err := hdr.ValidateLabel(label); err != nil {
		return nil, err
	}

	h := home.Manager()
	if !h.FileExists(kcdPath) {
		return nil, fmt.Errorf("KCD %s is not a file, abort the process: %w", kcdPath, format.ErrInvalidFormat)
	}

	srcHdr := HeaderPath(kcdPath)
	if !h.FileExists(srcHdr) {
		return nil, fmt.Errorf("HDR %s does not exist, abort the process: %w", srcHdr, format.ErrInvalidFormat)
	}

	src, err := hdr.ReadFile(srcHdr)
	if err != nil {
		return nil, err
	}

	dst := src.Clone()
	if err := dst.Rename(label, opts.renameOptions()); err != nil {
		return nil, fmt.Errorf("relabeling %s: %w", srcHdr, err)
	}

	if n := format.EncodedLen(kcd.HeaderReference(label)); n > format.PathFieldSize {
		return nil, &format.FieldError{Path: kcdPath, Field: "HDR reference", Width: format.PathFieldSize, Size: n}
	}

	dir := filepath.Dir(kcdPath)
	videoDir := filepath.Join(dir, label)
	newKcd := filepath.Join(dir, label+".kcd")
	newHdr := filepath.Join(videoDir, label+".hdr")
	if filepath.Clean(newKcd) == filepath.Clean(kcdPath) || filepath.Clean(newHdr) == filepath.Clean(srcHdr) {
		return nil, fmt.Errorf("label '%s' is the current name of %s: %w", label, kcdPath, format.ErrInvalidFormat)
	}

	if err := h.EnsureDir(videoDir); err != nil {
		return nil, format.IOError("creating", videoDir, err)
	}

	if err := hdr.WriteFile(newHdr, dst); err != nil {
		removeIfEmpty(videoDir)
		return nil, err
	}

	newKcd, err = kcd.Patch(kcdPath, newHdr, kcd.PatchOptions{
		Output:     newKcd,
		Mode:       format.Copy,
		BufferSize: opts.BufferSize,
	})
	if err != nil {
		return nil, err
	}

	res := &CloneResult{KCD: newKcd, HDR: newHdr, VideoDir: videoDir}

	pairs := relocate.Pairs(src, dst, filepath.Dir(srcHdr), videoDir)
	res.Relocation, err = runRelocation(ctx, pairs, relocate.BestEffort, opts)
	if err != nil {
		return res, fmt.Errorf("relocating videos to %s: %w", videoDir, err)
	}

	slog.Info("Cloned recording", "kcd", newKcd, "hdr", newHdr, "videos", videoDir)
	return res, nil
}

// removeIfEmpty deletes dir when nothing was placed in it.
func removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		os.Remove(dir)
	}
}
