// Package atomicfile writes files through a uniquely named temporary file
// that is renamed over the destination only once every byte is on disk, so a
// crash never leaves a half-written file at the final path.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jchantrell/kcdutils/internal/format"
)

// Writer buffers writes into a temporary sibling of the destination.
type Writer struct {
	path     string
	tmpPath  string
	lockPath string
	file     *os.File
	buf      *bufio.Writer
	lock     *flock.Flock
	closed   bool
}

// Create locks path and opens a temporary file next to it. The caller must
// call Commit or Abort.
func Create(path string) (*Writer, error) {
	lockPath := path + ".lock"
	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, format.IOError("locking", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("another process is writing %s: %w", path, format.ErrIO)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String()[:6])
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		lock.Unlock()
		os.Remove(lockPath)
		return nil, format.IOError("creating", tmpPath, err)
	}

	return &Writer{
		path:     path,
		tmpPath:  tmpPath,
		lockPath: lockPath,
		file:     f,
		buf:      bufio.NewWriter(f),
		lock:     lock,
	}, nil
}

// Path returns the final destination.
func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if err != nil {
		return n, format.IOError("writing", w.tmpPath, err)
	}
	return n, nil
}

// ReadFrom copies r into the file until EOF.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	n, err := w.buf.ReadFrom(r)
	if err != nil {
		return n, format.IOError("writing", w.tmpPath, err)
	}
	return n, nil
}

// Commit flushes and syncs the temporary file and renames it over the
// destination.
func (w *Writer) Commit() error {
	if w.closed {
		return fmt.Errorf("commit %s: writer already closed", w.path)
	}
	defer w.release()

	if err := w.buf.Flush(); err != nil {
		w.discard()
		return format.IOError("flushing", w.tmpPath, err)
	}
	if err := w.file.Sync(); err != nil {
		w.discard()
		return format.IOError("syncing", w.tmpPath, err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.tmpPath)
		return format.IOError("closing", w.tmpPath, err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return format.IOError("renaming", w.tmpPath, err)
	}

	slog.Debug("Committed file", "path", w.path)
	return nil
}

// Abort discards the temporary file. Calling Abort after Commit is a no-op.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.discard()
	w.release()
}

func (w *Writer) discard() {
	w.file.Close()
	os.Remove(w.tmpPath)
}

func (w *Writer) release() {
	w.closed = true
	w.lock.Unlock()
	os.Remove(w.lockPath)
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer w.Abort()

	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Commit()
}
