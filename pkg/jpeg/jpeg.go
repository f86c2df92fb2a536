// Package jpeg parses the structural layer of a JPEG stream: markers,
// quantization tables, frame headers and application-segment flags. It never
// decodes pixel data.
package jpeg

import "strconv"

// A FormatError reports that the input is not a structurally valid JPEG.
type FormatError string

func (e FormatError) Error() string { return "not a valid JPEG: " + string(e) }

// Marker codes handled by the scanner. Everything else is skipped.
const (
	markerSOI   = 0xFFD8 // start of image
	markerEOI   = 0xFFD9 // end of image
	markerTEM   = 0xFF01 // temporary, standalone
	markerRST0  = 0xFFD0 // restart interval start, standalone
	markerRST7  = 0xFFD7 // restart interval end, standalone
	markerDQT   = 0xFFDB // define quantization table
	markerSOF0  = 0xFFC0 // baseline frame header
	markerSOF3  = 0xFFC3 // lossless frame header (last non-arithmetic SOF)
	markerAPP0  = 0xFFE0 // JFIF
	markerAPP1  = 0xFFE1 // EXIF
	markerAPP14 = 0xFFEE // Adobe
)

// QuantTable is one decoded quantization table. Values holds the 64
// coefficients in stream (zigzag) order, widened to uint16 so the same slot
// fits both 8-bit and 16-bit precision tables.
type QuantTable struct {
	ID        int
	Precision int
	Values    [64]uint16
}

// FrameInfo is the geometry decoded from the first SOF0-SOF3 segment.
type FrameInfo struct {
	Precision  int
	Height     int
	Width      int
	Components int
}

// PresenceFlags records which identifying application segments were seen.
// A flag set once is never cleared by later segments.
type PresenceFlags struct {
	Exif  bool
	JFIF  bool
	Adobe bool
}

// Segment is one entry of the marker walk. Offset is the position of the
// 0xFF byte introducing the marker code; Length is the payload length,
// zero for standalone markers.
type Segment struct {
	Marker uint16
	Offset int
	Length int
}

// MarkerName returns the standard abbreviation for a marker code, or the
// empty string for codes the scanner has no name for.
func MarkerName(marker uint16) string {
	switch {
	case marker == markerSOI:
		return "SOI"
	case marker == markerEOI:
		return "EOI"
	case marker == markerTEM:
		return "TEM"
	case marker >= markerRST0 && marker <= markerRST7:
		return "RST" + strconv.Itoa(int(marker-markerRST0))
	case marker == markerDQT:
		return "DQT"
	case marker >= markerSOF0 && marker <= markerSOF3:
		return "SOF" + strconv.Itoa(int(marker-markerSOF0))
	case marker == 0xFFC4:
		return "DHT"
	case marker == 0xFFDA:
		return "SOS"
	case marker == 0xFFDD:
		return "DRI"
	case marker >= markerAPP0 && marker <= 0xFFEF:
		return "APP" + strconv.Itoa(int(marker-markerAPP0))
	case marker == 0xFFFE:
		return "COM"
	}
	return ""
}

// Result is the outcome of parsing one JPEG byte stream.
type Result struct {
	Frame  FrameInfo
	Tables []QuantTable // ordered by table id ascending
	Flags  PresenceFlags

	// Segments lists every marker encountered, in stream order.
	Segments []Segment

	// ExifPayload is the payload of the first EXIF APP1 segment, including
	// the "Exif\x00\x00" preamble. Nil when no EXIF segment was seen.
	ExifPayload []byte

	// TrailingBytes counts bytes in the buffer after the EOI marker.
	TrailingBytes int
}
