package hdr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jchantrell/kcdutils/internal/format"
)

// RenamePolicy selects how Rename rewrites record paths.
type RenamePolicy int

const (
	// SegmentReplace swaps the top-level folder of each path for the label
	// and keeps the file name.
	SegmentReplace RenamePolicy = iota
	// SequentialRegenerate rewrites every path as label\label<n>.<ext>.
	SequentialRegenerate
)

func (p RenamePolicy) String() string {
	switch p {
	case SegmentReplace:
		return "segment"
	case SequentialRegenerate:
		return "sequential"
	default:
		return fmt.Sprintf("RenamePolicy(%d)", int(p))
	}
}

// ParseRenamePolicy maps "segment" or "sequential" to a policy.
func ParseRenamePolicy(s string) (RenamePolicy, error) {
	switch strings.ToLower(s) {
	case "segment", "":
		return SegmentReplace, nil
	case "sequential":
		return SequentialRegenerate, nil
	default:
		return 0, fmt.Errorf("unknown rename policy '%s': expected segment or sequential", s)
	}
}

// DefaultExtension is used by SequentialRegenerate when the records do not
// agree on one.
const DefaultExtension = "avi"

// RenameOptions configures Rename.
type RenameOptions struct {
	Policy           RenamePolicy
	DefaultExtension string
}

// ValidateLabel checks label against the relabel constraints.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label cannot be empty: %w", format.ErrInvalidFormat)
	}
	if n := utf8.RuneCountInString(label); n > format.MaxLabelLength {
		return fmt.Errorf("label is %d characters: %w", n, format.ErrLabelTooLong)
	}
	if strings.ContainsAny(label, `\/`) {
		return fmt.Errorf("label '%s' contains a path separator: %w", label, format.ErrInvalidFormat)
	}
	return nil
}

// Rename relabels every record according to opts. Records are left untouched
// if any new path would not fit in the path field.
func (idx *Index) Rename(label string, opts RenameOptions) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}

	var paths []string
	switch opts.Policy {
	case SegmentReplace:
		paths = idx.segmentPaths(label)
	case SequentialRegenerate:
		ext := strings.TrimPrefix(opts.DefaultExtension, ".")
		if ext == "" {
			ext = DefaultExtension
		}
		paths = idx.sequentialPaths(label, idx.commonExtension(ext))
	default:
		return fmt.Errorf("unsupported rename policy %s", opts.Policy)
	}

	for i, p := range paths {
		if n := format.EncodedLen(p); n > format.PathFieldSize {
			return &format.FieldError{
				Field: fmt.Sprintf("record %d path", i),
				Width: format.PathFieldSize,
				Size:  n,
			}
		}
	}

	for i := range idx.Records {
		idx.Records[i].Path = paths[i]
	}
	return nil
}

func (idx *Index) segmentPaths(label string) []string {
	paths := make([]string, len(idx.Records))
	for i, rec := range idx.Records {
		_, rest, found := strings.Cut(rec.Path, format.PathSeparator)
		if !found {
			// no folder segment to replace
			paths[i] = rec.Path
			continue
		}
		paths[i] = label + format.PathSeparator + rest
	}
	return paths
}

func (idx *Index) sequentialPaths(label, ext string) []string {
	paths := make([]string, len(idx.Records))
	for i := range idx.Records {
		paths[i] = fmt.Sprintf(`%s\%s%d.%s`, label, label, i+1, ext)
	}
	return paths
}

// commonExtension returns the extension shared by the first two records, the
// only record's extension when there is one, or fallback.
func (idx *Index) commonExtension(fallback string) string {
	switch len(idx.Records) {
	case 0:
		return fallback
	case 1:
		if ext := extension(idx.Records[0].FileName()); ext != "" {
			return ext
		}
		return fallback
	}

	first := extension(idx.Records[0].FileName())
	second := extension(idx.Records[1].FileName())
	if first != "" && strings.EqualFold(first, second) {
		return first
	}
	return fallback
}

func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}
