// Package format holds the byte layouts shared by the HDR, KCD and RAF
// containers, the error kinds every codec reports and the fixed-width text
// field helpers used to read and write embedded paths.
package format

// HDR index layout
const (
	HeaderMagicSize = 4
	HeaderCountSize = 4
	HeaderSize      = HeaderMagicSize + HeaderCountSize

	RecordHeadSize = 16
	RecordTailSize = 20
	RecordSize     = RecordHeadSize + PathFieldSize + RecordTailSize // 292
)

// PathFieldSize is the width of every embedded path field.
const PathFieldSize = 256

// KCD layout
const (
	// MarkerRecordSize is the fixed record header that sits between the
	// marker and the embedded HDR reference.
	MarkerRecordSize = 16
)

// Marker is the splice-point signature inside a KCD file ("KCRMOVIE").
var Marker = []byte{0x4B, 0x43, 0x52, 0x4D, 0x4F, 0x56, 0x49, 0x45}

// RAF layout
const (
	RAFHeaderSize = 574
)

// RAFMagic is "RAF" followed by a NUL.
var RAFMagic = []byte{0x52, 0x41, 0x46, 0x00}

// MaxLabelLength bounds relabel text in characters.
const MaxLabelLength = 120

// PathSeparator is the separator used inside embedded paths regardless of host OS.
const PathSeparator = `\`
