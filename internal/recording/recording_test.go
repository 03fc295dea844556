package recording

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
	"github.com/jchantrell/kcdutils/internal/kcd"
	"github.com/jchantrell/kcdutils/internal/relocate"
)

// newRecordingSet lays out <dir>/<tag>.kcd, <dir>/<tag>/<tag>.hdr and n clips
// in <dir>/<tag>/, and returns the KCD path.
func newRecordingSet(t *testing.T, dir, tag string, n int) string {
	t.Helper()

	videoDir := filepath.Join(dir, tag)
	require.NoError(t, os.MkdirAll(videoDir, 0o755))

	idx := &hdr.Index{Magic: [4]byte{'K', 'H', 'D', 1}}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("clip%d.avi", i)
		idx.Records = append(idx.Records, hdr.Record{
			Head: [16]byte{byte(i)},
			Path: tag + `\` + name,
			Tail: [20]byte{0xEE, byte(i)},
		})
		require.NoError(t, os.WriteFile(filepath.Join(videoDir, name), []byte("video "+name), 0o644))
	}
	require.NoError(t, hdr.WriteFile(filepath.Join(videoDir, tag+".hdr"), idx))

	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0xAA}, 512))
	buf.Write(format.Marker)
	buf.Write(make([]byte, format.MarkerRecordSize-len(format.Marker)))
	field, err := format.EncodeField("ref", kcd.HeaderReference(tag), format.PathFieldSize)
	require.NoError(t, err)
	buf.Write(field)
	buf.Write(bytes.Repeat([]byte{0xBB}, 2048))

	kcdPath := filepath.Join(dir, tag+".kcd")
	require.NoError(t, os.WriteFile(kcdPath, buf.Bytes(), 0o644))
	return kcdPath
}

type fakeTracker struct {
	total    int
	n        atomic.Int64
	finished bool
}

func (f *fakeTracker) Increment() { f.n.Add(1) }
func (f *fakeTracker) Finish()    { f.finished = true }

func TestHeaderPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/rec", "OLD", "OLD.hdr"), HeaderPath("/rec/OLD.kcd"))
}

func TestClone(t *testing.T) {
	tests := []struct {
		name   string
		policy hdr.RenamePolicy
		clips  []string
	}{
		{name: "segment", policy: hdr.SegmentReplace, clips: []string{"clip1.avi", "clip2.avi", "clip3.avi"}},
		{name: "sequential", policy: hdr.SequentialRegenerate, clips: []string{"NEW1.avi", "NEW2.avi", "NEW3.avi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			kcdPath := newRecordingSet(t, dir, "OLD", 3)

			var tracker *fakeTracker
			opts := Options{
				Mode:   format.Copy,
				Policy: tt.policy,
				NewTracker: func(total int, _ string) Tracker {
					tracker = &fakeTracker{total: total}
					return tracker
				},
			}

			res, err := Clone(context.Background(), kcdPath, "NEW", opts)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "NEW.kcd"), res.KCD)
			assert.Equal(t, filepath.Join(dir, "NEW", "NEW.hdr"), res.HDR)
			assert.Equal(t, int64(3), res.Relocation.Copied)

			ref, err := kcd.NewScanner(0).ReadReference(res.KCD)
			require.NoError(t, err)
			assert.Equal(t, `NEW\NEW.hdr`, ref.Path)

			idx, err := hdr.ReadFile(res.HDR)
			require.NoError(t, err)
			require.Len(t, idx.Records, 3)
			for i, clip := range tt.clips {
				assert.Equal(t, `NEW\`+clip, idx.Records[i].Path)
				assert.Equal(t, byte(i+1), idx.Records[i].Head[0])
				assert.FileExists(t, filepath.Join(dir, "NEW", clip))
			}

			assert.FileExists(t, kcdPath)
			assert.FileExists(t, filepath.Join(dir, "OLD", "clip1.avi"))

			require.NotNil(t, tracker)
			assert.Equal(t, 3, tracker.total)
			assert.Equal(t, int64(3), tracker.n.Load())
			assert.True(t, tracker.finished)
		})
	}
}

func TestCloneMoveVideos(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 2)

	res, err := Clone(context.Background(), kcdPath, "NEW", Options{Mode: format.Move})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Relocation.Moved)

	assert.FileExists(t, kcdPath, "KCD is always copied")
	assert.NoFileExists(t, filepath.Join(dir, "OLD", "clip1.avi"))
	assert.FileExists(t, filepath.Join(dir, "NEW", "clip1.avi"))
}

func TestCloneMissingHDR(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 1)
	require.NoError(t, os.Remove(HeaderPath(kcdPath)))

	_, err := Clone(context.Background(), kcdPath, "NEW", Options{})
	require.ErrorIs(t, err, format.ErrInvalidFormat)
	assert.NoDirExists(t, filepath.Join(dir, "NEW"))
}

func TestCloneLabelTooLong(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 1)

	_, err := Clone(context.Background(), kcdPath, strings.Repeat("L", format.MaxLabelLength+1), Options{})
	require.ErrorIs(t, err, format.ErrLabelTooLong)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCloneOntoOwnLabelWritesNothing(t *testing.T) {
	for _, policy := range []hdr.RenamePolicy{hdr.SegmentReplace, hdr.SequentialRegenerate} {
		t.Run(policy.String(), func(t *testing.T) {
			dir := t.TempDir()
			kcdPath := newRecordingSet(t, dir, "OLD", 2)
			srcHdr := HeaderPath(kcdPath)

			before, err := os.ReadFile(srcHdr)
			require.NoError(t, err)

			_, err = Clone(context.Background(), kcdPath, "OLD", Options{Policy: policy})
			require.ErrorIs(t, err, format.ErrInvalidFormat)

			after, err := os.ReadFile(srcHdr)
			require.NoError(t, err)
			assert.Equal(t, before, after)

			entries, err := os.ReadDir(filepath.Join(dir, "OLD"))
			require.NoError(t, err)
			assert.Len(t, entries, 3)
			assert.FileExists(t, filepath.Join(dir, "OLD", "clip1.avi"))
		})
	}
}

func TestCloneMissingClipIsReported(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 3)
	require.NoError(t, os.Remove(filepath.Join(dir, "OLD", "clip2.avi")))

	res, err := Clone(context.Background(), kcdPath, "NEW", Options{Mode: format.Copy})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, int64(2), res.Relocation.Copied)
	require.Len(t, res.Relocation.Failures, 1)
	assert.FileExists(t, res.KCD)
}

func TestRelabelHeader(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 2)

	out, err := RelabelHeader(HeaderPath(kcdPath), "NEW", Options{Policy: hdr.SequentialRegenerate})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "OLD", "NEW.hdr"), out)

	idx, err := hdr.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `NEW\NEW2.avi`, idx.Records[1].Path)
}

func TestMoveVideos(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 3)
	srcHdr := HeaderPath(kcdPath)

	dstDir := filepath.Join(dir, "NEW")
	require.NoError(t, os.MkdirAll(dstDir, 0o755))
	dst, err := hdr.ReadFile(srcHdr)
	require.NoError(t, err)
	require.NoError(t, dst.Rename("NEW", hdr.RenameOptions{Policy: hdr.SequentialRegenerate}))
	dstHdr := filepath.Join(dstDir, "NEW.hdr")
	require.NoError(t, hdr.WriteFile(dstHdr, dst))

	res, err := MoveVideos(context.Background(), srcHdr, dstHdr, relocate.Strict, Options{Mode: format.Move, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Moved)

	for i := 1; i <= 3; i++ {
		assert.FileExists(t, filepath.Join(dstDir, fmt.Sprintf("NEW%d.avi", i)))
		assert.NoFileExists(t, filepath.Join(dir, "OLD", fmt.Sprintf("clip%d.avi", i)))
	}
}

func TestLinkKCDAndRAF(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 1)

	out, err := LinkKCD(kcdPath, filepath.Join(dir, "NEW.hdr"), "", Options{})
	require.NoError(t, err)
	assert.Equal(t, kcdPath+".modify", out)

	rafPath := filepath.Join(dir, "session.raf")
	header := make([]byte, format.RAFHeaderSize)
	copy(header, format.RAFMagic)
	require.NoError(t, os.WriteFile(rafPath, header, 0o644))

	rafOut, err := LinkRAF(rafPath, kcdPath)
	require.NoError(t, err)

	data, err := os.ReadFile(rafOut)
	require.NoError(t, err)
	require.Len(t, data, format.RAFHeaderSize+format.PathFieldSize)

	resolved, err := filepath.EvalSymlinks(kcdPath)
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(resolved, "/", `\`), format.DecodeField(data[format.RAFHeaderSize:]))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	newRecordingSet(t, dir, "A", 2)
	orphan := newRecordingSet(t, filepath.Join(dir, "nested"), "B", 1)
	require.NoError(t, os.Remove(HeaderPath(orphan)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	found, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, filepath.Join(dir, "A.kcd"), found[0].KCD)
	assert.True(t, found[0].HasHDR)
	assert.Equal(t, 2, found[0].Records)
	assert.Positive(t, found[0].Size)
	assert.NoError(t, found[0].Err)

	assert.Equal(t, orphan, found[1].KCD)
	assert.False(t, found[1].HasHDR)
}

func TestInspectHeader(t *testing.T) {
	dir := t.TempDir()
	kcdPath := newRecordingSet(t, dir, "OLD", 2)

	data, err := os.ReadFile(HeaderPath(kcdPath))
	require.NoError(t, err)
	truncated := filepath.Join(dir, "short.hdr")
	require.NoError(t, os.WriteFile(truncated, data[:len(data)-10], 0o644))

	report, err := InspectHeader(truncated)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dropped)
	assert.Len(t, report.Index.Records, 1)
	assert.Equal(t, uint32(2), report.Index.Count)
}
