package relocate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
)

type countingProgress struct {
	n atomic.Int64
}

func (p *countingProgress) Increment() {
	p.n.Add(1)
}

func index(paths ...string) *hdr.Index {
	idx := &hdr.Index{}
	for _, p := range paths {
		idx.Records = append(idx.Records, hdr.Record{Path: p})
	}
	return idx
}

// setup writes n clips named clip<i>.avi into src and returns the pairs that
// relocate them to dst as NEW<i>.avi.
func setup(t *testing.T, n int) (string, string, []Pair) {
	t.Helper()
	src := t.TempDir()
	dst := t.TempDir()

	var pairs []Pair
	for i := 1; i <= n; i++ {
		name := filepath.Join(src, fmt.Sprintf("clip%d.avi", i))
		require.NoError(t, os.WriteFile(name, []byte(fmt.Sprintf("clip %d", i)), 0o644))
		pairs = append(pairs, Pair{Source: name, Destination: filepath.Join(dst, fmt.Sprintf("NEW%d.avi", i))})
	}
	return src, dst, pairs
}

func TestPairs(t *testing.T) {
	src := index(`OLD\a.avi`, `OLD\b.avi`, `OLD\c.avi`)
	dst := index(`NEW\x.avi`, `NEW\y.avi`)

	pairs := Pairs(src, dst, "/in", "/out")
	assert.Equal(t, []Pair{
		{Source: filepath.Join("/in", "a.avi"), Destination: filepath.Join("/out", "x.avi")},
		{Source: filepath.Join("/in", "b.avi"), Destination: filepath.Join("/out", "y.avi")},
	}, pairs)

	assert.Empty(t, Pairs(index(), dst, "/in", "/out"))
}

func TestRelocateRejectsUnsafeNames(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(filepath.Join(dstDir, "sub"), 0o755))
	for _, name := range []string{"ok.avi", "x.avi"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte(name), 0o644))
	}

	src := index(`OLD\ok.avi`, `OLD\x.avi`, `OLD\x.avi`, `OLD\..`, `OLD\`)
	dst := index(`NEW\ok.avi`, `NEW\../x.avi`, `NEW\sub/x.avi`, `NEW\y.avi`, `NEW\z.avi`)

	pairs := Pairs(src, dst, srcDir, dstDir)
	require.Len(t, pairs, 5)

	res, err := New(Options{Mode: format.Copy}).Relocate(context.Background(), pairs)
	require.ErrorIs(t, err, format.ErrInvalidFormat)

	assert.Equal(t, int64(1), res.Copied)
	assert.Len(t, res.Failures, 4)
	assert.FileExists(t, filepath.Join(dstDir, "ok.avi"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dstDir), "x.avi"))
	assert.NoFileExists(t, filepath.Join(dstDir, "sub", "x.avi"))
}

func TestRelocateCopy(t *testing.T) {
	src, dst, pairs := setup(t, 5)
	require.NoError(t, os.WriteFile(pairs[0].Destination, []byte("stale"), 0o644))

	progress := &countingProgress{}
	res, err := New(Options{Mode: format.Copy, Progress: progress}).Relocate(context.Background(), pairs)
	require.NoError(t, err)

	assert.Equal(t, int64(5), res.Attempted)
	assert.Equal(t, int64(5), res.Copied)
	assert.Equal(t, int64(5), progress.n.Load())
	assert.Empty(t, res.Failures)

	for i, p := range pairs {
		data, err := os.ReadFile(p.Destination)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("clip %d", i+1), string(data))
		assert.FileExists(t, p.Source)
	}

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	entries, err = os.ReadDir(src)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRelocateMoveIsIdempotent(t *testing.T) {
	_, _, pairs := setup(t, 3)
	r := New(Options{Mode: format.Move, Workers: 2})

	res, err := r.Relocate(context.Background(), pairs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Moved)

	for _, p := range pairs {
		assert.NoFileExists(t, p.Source)
		assert.FileExists(t, p.Destination)
	}

	res, err = r.Relocate(context.Background(), pairs)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Moved)
	assert.Equal(t, int64(3), res.Skipped)
}

func TestRelocateMoveSkipsExistingDestination(t *testing.T) {
	_, _, pairs := setup(t, 1)
	require.NoError(t, os.WriteFile(pairs[0].Destination, []byte("keep"), 0o644))

	res, err := New(Options{Mode: format.Move}).Relocate(context.Background(), pairs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Skipped)

	data, err := os.ReadFile(pairs[0].Destination)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	assert.FileExists(t, pairs[0].Source)
}

func TestRelocateBestEffort(t *testing.T) {
	src, _, pairs := setup(t, 4)
	require.NoError(t, os.Remove(pairs[1].Source))
	require.NoError(t, os.Remove(pairs[3].Source))

	res, err := New(Options{Mode: format.Copy, Policy: BestEffort}).Relocate(context.Background(), pairs)
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrIO)

	assert.Equal(t, int64(4), res.Attempted)
	assert.Equal(t, int64(2), res.Copied)
	require.Len(t, res.Failures, 2)

	failed := []string{res.Failures[0].Source, res.Failures[1].Source}
	assert.ElementsMatch(t, []string{pairs[1].Source, pairs[3].Source}, failed)

	var pe *PairError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), src)

	assert.FileExists(t, pairs[0].Destination)
	assert.FileExists(t, pairs[2].Destination)
}

func TestRelocateStrictStopsAfterFirstFailure(t *testing.T) {
	_, _, pairs := setup(t, 5)
	require.NoError(t, os.Remove(pairs[0].Source))

	res, err := New(Options{Mode: format.Copy, Policy: Strict, Workers: 1}).Relocate(context.Background(), pairs)
	require.Error(t, err)

	var pe *PairError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pairs[0], pe.Pair)

	assert.Equal(t, int64(1), res.Attempted)
	assert.Equal(t, int64(0), res.Copied)
	for _, p := range pairs[1:] {
		assert.NoFileExists(t, p.Destination)
	}
}

func TestRelocateEmpty(t *testing.T) {
	res, err := New(Options{}).Relocate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Attempted)
}
