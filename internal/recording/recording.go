// Package recording implements the operator-level operations on a recording
// set: a KCD file, its companion HDR index in a folder of the same stem, the
// media clips next to that index and an optional RAF session file.
package recording

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
	"github.com/jchantrell/kcdutils/internal/kcd"
	"github.com/jchantrell/kcdutils/internal/raf"
	"github.com/jchantrell/kcdutils/internal/relocate"
)

// Tracker reports relocation progress.
type Tracker interface {
	relocate.Progress
	Finish()
}

// Options carries the settings shared by every operation.
type Options struct {
	Mode             format.Mode
	Policy           hdr.RenamePolicy
	DefaultExtension string
	BufferSize       int
	Workers          int
	// NewTracker, when set, creates a progress tracker for a relocation of
	// total clips.
	NewTracker func(total int, description string) Tracker
}

func (o Options) renameOptions() hdr.RenameOptions {
	return hdr.RenameOptions{Policy: o.Policy, DefaultExtension: o.DefaultExtension}
}

// HeaderPath returns the companion HDR path of a KCD file:
// <dir>/<stem>/<stem>.hdr.
func HeaderPath(kcdPath string) string {
	stem := kcd.Stem(kcdPath)
	return filepath.Join(filepath.Dir(kcdPath), stem, stem+".hdr")
}

// RelabelHeader rewrites the HDR at hdrPath with label and saves it as
// <label>.hdr next to the input.
func RelabelHeader(hdrPath, label string, opts Options) (string, error) {
	idx, err := hdr.ReadFile(hdrPath)
	if err != nil {
		return "", err
	}

	if err := idx.Rename(label, opts.renameOptions()); err != nil {
		return "", fmt.Errorf("relabeling %s: %w", hdrPath, err)
	}

	out := filepath.Join(filepath.Dir(hdrPath), label+".hdr")
	if err := hdr.WriteFile(out, idx); err != nil {
		return "", err
	}

	slog.Info("Wrote HDR file", "path", out, "records", len(idx.Records), "policy", opts.Policy)
	return out, nil
}

// LinkKCD patches kcdPath to reference hdrPath. An empty output selects
// the default "<stem>.kcd.modify".
func LinkKCD(kcdPath, hdrPath, output string, opts Options) (string, error) {
	return kcd.Patch(kcdPath, hdrPath, kcd.PatchOptions{
		Output:     output,
		Mode:       opts.Mode,
		BufferSize: opts.BufferSize,
	})
}

// LinkRAF patches rafPath to reference the absolute path of kcdPath.
func LinkRAF(rafPath, kcdPath string) (string, error) {
	resolved, err := raf.ResolveKCD(kcdPath)
	if err != nil {
		return "", err
	}
	return raf.Patch(rafPath, resolved)
}

// MoveVideos relocates the clips listed in srcHdr, found next to it, to the
// names listed in dstHdr, next to that one.
func MoveVideos(ctx context.Context, srcHdr, dstHdr string, policy relocate.FailurePolicy, opts Options) (*relocate.Result, error) {
	src, err := hdr.ReadFile(srcHdr)
	if err != nil {
		return nil, err
	}
	dst, err := hdr.ReadFile(dstHdr)
	if err != nil {
		return nil, err
	}

	pairs := relocate.Pairs(src, dst, filepath.Dir(srcHdr), filepath.Dir(dstHdr))
	return runRelocation(ctx, pairs, policy, opts)
}

func runRelocation(ctx context.Context, pairs []relocate.Pair, policy relocate.FailurePolicy, opts Options) (*relocate.Result, error) {
	ro := relocate.Options{
		Mode:    opts.Mode,
		Policy:  policy,
		Workers: opts.Workers,
	}

	if opts.NewTracker != nil {
		tracker := opts.NewTracker(len(pairs), fmt.Sprintf("%s videos", opts.Mode))
		defer tracker.Finish()
		ro.Progress = tracker
	}

	res, err := relocate.New(ro).Relocate(ctx, pairs)
	if res != nil {
		slog.Debug("Relocation finished",
			"mode", opts.Mode,
			"pairs", len(pairs),
			"attempted", res.Attempted,
			"skipped", res.Skipped,
			"failed", len(res.Failures))
	}
	return res, err
}
