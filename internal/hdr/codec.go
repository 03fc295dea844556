// Package hdr reads and writes the HDR index that lists the media clips
// belonging to one recording.
//
// An HDR file is a 4-byte opaque magic, a little-endian record count and
// count fixed 292-byte records:
//
//	[head(16)][path(256), NUL padded, backslash separated][tail(20)]
//
// Everything except the path is carried through untouched.
package hdr

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchantrell/kcdutils/internal/format"
)

// Record is one media clip slot.
type Record struct {
	Head [format.RecordHeadSize]byte
	Path string
	Tail [format.RecordTailSize]byte
}

// FileName returns the last backslash-delimited component of the path.
func (r Record) FileName() string {
	if i := strings.LastIndex(r.Path, format.PathSeparator); i >= 0 {
		return r.Path[i+1:]
	}
	return r.Path
}

// Index is a decoded HDR file.
type Index struct {
	Magic [format.HeaderMagicSize]byte
	// Count is the record count stored in the file. Encode ignores it and
	// writes len(Records).
	Count   uint32
	Records []Record
}

// Decode parses an HDR file. Records that cannot be decoded are dropped; use
// DecodeLenient to find out how many.
func Decode(data []byte) (*Index, error) {
	idx, dropped, err := DecodeLenient(data)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		slog.Debug("Dropped undecodable HDR records", "declared", idx.Count, "decoded", len(idx.Records), "dropped", dropped)
	}
	return idx, nil
}

// DecodeLenient parses an HDR file and reports how many record slots were
// dropped because they could not be decoded. A trailing partial slot counts
// as dropped. Bytes past the declared record region are ignored.
func DecodeLenient(data []byte) (*Index, int, error) {
	if len(data) < format.HeaderSize {
		return nil, 0, fmt.Errorf("reading HDR header: need %d bytes, have %d: %w", format.HeaderSize, len(data), format.ErrTruncatedInput)
	}

	idx := &Index{}
	copy(idx.Magic[:], data[0:format.HeaderMagicSize])
	idx.Count = binary.LittleEndian.Uint32(data[format.HeaderMagicSize:format.HeaderSize])

	body := data[format.HeaderSize:]
	if want := int64(idx.Count) * format.RecordSize; int64(len(body)) > want {
		body = body[:want]
	}

	idx.Records = make([]Record, 0, len(body)/format.RecordSize)
	dropped := 0
	for p := 0; p < len(body); p += format.RecordSize {
		end := min(p+format.RecordSize, len(body))
		rec, err := decodeRecord(body[p:end])
		if err != nil {
			slog.Debug("Skipping HDR record", "index", p/format.RecordSize, "error", err)
			dropped++
			continue
		}
		idx.Records = append(idx.Records, rec)
	}

	return idx, dropped, nil
}

func decodeRecord(chunk []byte) (Record, error) {
	if len(chunk) != format.RecordSize {
		return Record{}, fmt.Errorf("record is %d bytes, want %d: %w", len(chunk), format.RecordSize, format.ErrTruncatedInput)
	}

	var rec Record
	p := 0
	copy(rec.Head[:], chunk[p:p+format.RecordHeadSize])
	p += format.RecordHeadSize

	rec.Path = format.DecodeField(chunk[p : p+format.PathFieldSize])
	p += format.PathFieldSize

	copy(rec.Tail[:], chunk[p:p+format.RecordTailSize])
	return rec, nil
}

// Encode serializes the index. The count written is the number of records
// held, not idx.Count.
func Encode(idx *Index) ([]byte, error) {
	buf := make([]byte, format.HeaderSize+len(idx.Records)*format.RecordSize)

	copy(buf[0:], idx.Magic[:])
	binary.LittleEndian.PutUint32(buf[format.HeaderMagicSize:], uint32(len(idx.Records)))

	p := format.HeaderSize
	for i, rec := range idx.Records {
		copy(buf[p:], rec.Head[:])
		p += format.RecordHeadSize

		if err := format.PutField(buf[p:p+format.PathFieldSize], fmt.Sprintf("record %d path", i), rec.Path); err != nil {
			return nil, err
		}
		p += format.PathFieldSize

		copy(buf[p:], rec.Tail[:])
		p += format.RecordTailSize
	}

	return buf, nil
}

// FileNames returns the file name of every record in order.
func (idx *Index) FileNames() []string {
	names := make([]string, len(idx.Records))
	for i, rec := range idx.Records {
		names[i] = rec.FileName()
	}
	return names
}

// Clone returns a deep copy of idx.
func (idx *Index) Clone() *Index {
	out := *idx
	out.Records = append([]Record(nil), idx.Records...)
	return &out
}
