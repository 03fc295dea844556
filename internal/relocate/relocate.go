// Package relocate copies or moves the media clips named by one HDR index to
// the names given by another.
package relocate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jchantrell/kcdutils/internal/atomicfile"
	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
)

// Pair is one source clip and the path it is relocated to.
type Pair struct {
	Source      string
	Destination string

	// set by Pairs when a record name cannot be used as a file name
	invalid error
}

// checkName rejects record names that would leave the clip directory when
// joined to it.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') {
		return fmt.Errorf("clip name %q is not a plain file name: %w", name, format.ErrInvalidFormat)
	}
	return nil
}

// Pairs correlates two indexes by record position. Only the first
// min(len(src), len(dst)) records are paired; extra records are ignored.
// A pair whose names are empty, "." or "..", or contain "/", fails when
// relocated.
func Pairs(src, dst *hdr.Index, srcDir, dstDir string) []Pair {
	oldNames := src.FileNames()
	newNames := dst.FileNames()

	n := min(len(oldNames), len(newNames))
	if len(oldNames) != len(newNames) {
		slog.Warn("HDR record counts differ, extra records ignored", "source", len(oldNames), "target", len(newNames), "paired", n)
	}

	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{
			Source:      filepath.Join(srcDir, oldNames[i]),
			Destination: filepath.Join(dstDir, newNames[i]),
			invalid:     errors.Join(checkName(oldNames[i]), checkName(newNames[i])),
		}
	}
	return pairs
}

// FailurePolicy decides what a failed pair does to the rest of the batch.
type FailurePolicy int

const (
	// BestEffort attempts every pair and reports all failures.
	BestEffort FailurePolicy = iota
	// Strict stops starting new pairs after the first failure.
	Strict
)

// Progress receives one Increment per finished pair. Implementations must be
// safe for concurrent use.
type Progress interface {
	Increment()
}

// DefaultWorkers bounds concurrent file operations when Options.Workers is unset.
const DefaultWorkers = 4

// Options configures a Relocator.
type Options struct {
	Mode     format.Mode
	Policy   FailurePolicy
	Workers  int
	Progress Progress
}

// PairError is the failure of a single pair.
type PairError struct {
	Pair
	Err error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// Result summarizes a batch.
type Result struct {
	Attempted int64
	Copied    int64
	Moved     int64
	// Skipped counts moves whose destination already existed.
	Skipped  int64
	Failures []*PairError
}

// Relocator runs relocation batches.
type Relocator struct {
	opts Options
}

// New creates a relocator.
func New(opts Options) *Relocator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Relocator{opts: opts}
}

type counters struct {
	attempted, copied, moved, skipped atomic.Int64
}

// Relocate runs every pair concurrently. Under Strict the first failure is
// returned and pairs not yet started are skipped. Under BestEffort every pair
// is attempted and the failures are joined into the returned error.
func (r *Relocator) Relocate(ctx context.Context, pairs []Pair) (*Result, error) {
	var (
		c        counters
		mu       sync.Mutex
		failures []*PairError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for _, pair := range pairs {
		pair := pair
		g.Go(func() error {
			if r.opts.Policy == Strict && gctx.Err() != nil {
				return nil
			}

			c.attempted.Add(1)
			err := r.relocate(pair, &c)
			if r.opts.Progress != nil {
				r.opts.Progress.Increment()
			}
			if err == nil {
				return nil
			}

			pe := &PairError{Pair: pair, Err: err}
			mu.Lock()
			failures = append(failures, pe)
			mu.Unlock()

			slog.Debug("Relocation failed", "source", pair.Source, "destination", pair.Destination, "error", err)
			if r.opts.Policy == Strict {
				return pe
			}
			return nil
		})
	}

	firstErr := g.Wait()
	res := &Result{
		Attempted: c.attempted.Load(),
		Copied:    c.copied.Load(),
		Moved:     c.moved.Load(),
		Skipped:   c.skipped.Load(),
		Failures:  failures,
	}

	if r.opts.Policy == Strict {
		return res, firstErr
	}
	if len(failures) == 0 {
		return res, nil
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return res, errors.Join(errs...)
}

func (r *Relocator) relocate(pair Pair, c *counters) error {
	if pair.invalid != nil {
		return pair.invalid
	}

	switch r.opts.Mode {
	case format.Copy:
		if err := copyFile(pair.Source, pair.Destination); err != nil {
			return err
		}
		c.copied.Add(1)
	case format.Move:
		moved, err := moveFile(pair.Source, pair.Destination)
		if err != nil {
			return err
		}
		if moved {
			c.moved.Add(1)
		} else {
			c.skipped.Add(1)
		}
	default:
		return fmt.Errorf("unsupported mode %s", r.opts.Mode)
	}
	return nil
}

// copyFile copies src over dst, replacing any existing dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return format.IOError("opening", src, err)
	}
	defer in.Close()

	w, err := atomicfile.Create(dst)
	if err != nil {
		return err
	}
	defer w.Abort()

	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return w.Commit()
}

// moveFile renames src to dst unless dst already exists, in which case it
// does nothing and reports false.
func moveFile(src, dst string) (bool, error) {
	if _, err := os.Lstat(dst); err == nil {
		slog.Debug("Destination exists, skipping move", "source", src, "destination", dst)
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, format.IOError("stat", dst, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return false, format.IOError("renaming", src, err)
	}
	return true, nil
}
