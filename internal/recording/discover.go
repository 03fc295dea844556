package recording

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/jchantrell/kcdutils/internal/format"
	"github.com/jchantrell/kcdutils/internal/hdr"
	"github.com/jchantrell/kcdutils/internal/home"
)

// Recording describes one KCD file found by Discover.
type Recording struct {
	KCD     string
	Size    int64
	HDR     string
	HasHDR  bool
	Records int
	Dropped int
	// Err is set when the HDR exists but cannot be read.
	Err error
}

// Discover walks root and returns every *.kcd file with the state of its
// companion HDR, sorted by path. Unreadable directories are skipped.
func Discover(root string) ([]Recording, error) {
	h := home.Manager()
	var found []Recording

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || !strings.EqualFold(filepath.Ext(path), ".kcd") {
				return nil
			}

			rec := Recording{
				KCD:  path,
				Size: h.GetFileSize(path),
				HDR:  HeaderPath(path),
			}
			rec.HasHDR = h.FileExists(rec.HDR)
			if rec.HasHDR {
				rec.Records, rec.Dropped, rec.Err = countRecords(rec.HDR)
			}

			found = append(found, rec)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			slog.Warn("Skipping unreadable path", "path", path, "error", err)
			return godirwalk.SkipNode
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].KCD < found[j].KCD
	})
	return found, nil
}

func countRecords(path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, format.IOError("reading", path, err)
	}
	idx, dropped, err := hdr.DecodeLenient(data)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing HDR file %s: %w", path, err)
	}
	return len(idx.Records), dropped, nil
}

// HeaderReport is the decoded content of an HDR file.
type HeaderReport struct {
	Path    string
	Index   *hdr.Index
	Dropped int
}

// InspectHeader decodes path leniently.
func InspectHeader(path string) (*HeaderReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, format.IOError("reading", path, err)
	}

	idx, dropped, err := hdr.DecodeLenient(data)
	if err != nil {
		return nil, fmt.Errorf("parsing HDR file %s: %w", path, err)
	}

	return &HeaderReport{Path: path, Index: idx, Dropped: dropped}, nil
}
