package jpeg

import (
	"bytes"
	"encoding/binary"

	"github.com/golang/glog"
)

var (
	exifPreamble  = []byte("Exif\x00\x00")
	jfifPreamble  = []byte("JFIF\x00")
	adobePreamble = []byte("Adobe")
)

// Parse walks the marker structure of data and returns the decoded result.
// The stream must start with SOI and contain at least one SOF0-SOF3 segment;
// anything structurally inconsistent is a FormatError. Markers the analyzer
// does not understand are skipped over by their declared length.
func Parse(data []byte) (*Result, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, FormatError("missing SOI marker")
	}

	res := &Result{}
	res.Segments = append(res.Segments, Segment{Marker: markerSOI, Offset: 0})

	// Table slots are keyed by id so a later DQT redefining the same id
	// overwrites the earlier one.
	var tables [4]*QuantTable
	sofSeen := false

	offset := 2
	for offset < len(data) {
		if data[offset] != 0xFF {
			offset++
			continue
		}
		// Skip fill bytes: any run of 0xFF collapses to one marker prefix.
		for offset < len(data) && data[offset] == 0xFF {
			offset++
		}
		if offset >= len(data) {
			break
		}
		marker := 0xFF00 | uint16(data[offset])
		markerOffset := offset - 1
		offset++

		if marker == markerEOI {
			glog.V(1).Infof("marker 0x%04X at %d (EOI)", marker, markerOffset)
			res.Segments = append(res.Segments, Segment{Marker: marker, Offset: markerOffset})
			res.TrailingBytes = len(data) - offset
			break
		}
		if marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7) {
			glog.V(1).Infof("marker 0x%04X at %d (standalone)", marker, markerOffset)
			res.Segments = append(res.Segments, Segment{Marker: marker, Offset: markerOffset})
			continue
		}

		if offset+2 > len(data) {
			return nil, FormatError("unexpected end of data")
		}
		// Segment length includes the two length bytes themselves.
		length := int(binary.BigEndian.Uint16(data[offset:]))
		if length < 2 {
			return nil, FormatError("invalid segment length")
		}
		offset += 2
		payloadLen := length - 2
		if offset+payloadLen > len(data) {
			return nil, FormatError("unexpected end of data")
		}
		payload := data[offset : offset+payloadLen]
		offset += payloadLen

		glog.V(1).Infof("marker 0x%04X at %d, payload %d bytes", marker, markerOffset, payloadLen)
		res.Segments = append(res.Segments, Segment{Marker: marker, Offset: markerOffset, Length: payloadLen})

		switch {
		case marker == markerDQT:
			if err := decodeDQT(payload, &tables); err != nil {
				return nil, err
			}
		case marker >= markerSOF0 && marker <= markerSOF3:
			if sofSeen {
				// Only the first frame header counts.
				continue
			}
			frame, err := decodeSOF(payload)
			if err != nil {
				return nil, err
			}
			res.Frame = frame
			sofSeen = true
		case marker == markerAPP1 && bytes.HasPrefix(payload, exifPreamble):
			res.Flags.Exif = true
			if res.ExifPayload == nil {
				res.ExifPayload = payload
			}
		case marker == markerAPP0 && bytes.HasPrefix(payload, jfifPreamble):
			res.Flags.JFIF = true
		case marker == markerAPP14 && bytes.HasPrefix(payload, adobePreamble):
			res.Flags.Adobe = true
		}
	}

	if !sofSeen {
		return nil, FormatError("missing frame header")
	}

	for _, t := range tables {
		if t != nil {
			res.Tables = append(res.Tables, *t)
		}
	}
	return res, nil
}

// decodeDQT reads one or more quantization tables packed back to back in a
// single DQT payload. The header byte carries the precision flag in the high
// nibble and the table id in the low nibble; 8-bit tables store one byte per
// coefficient, 16-bit tables two.
func decodeDQT(payload []byte, tables *[4]*QuantTable) error {
	offset := 0
	for offset < len(payload) {
		header := payload[offset]
		offset++
		precision := int(header >> 4)
		id := int(header & 0x0F)
		if id > 3 {
			return FormatError("invalid quantization table id")
		}

		width := 1
		if precision != 0 {
			width = 2
		}
		need := 64 * width
		if len(payload)-offset < need {
			return FormatError("incomplete DQT segment")
		}

		t := &QuantTable{ID: id, Precision: precision}
		if precision == 0 {
			for i := 0; i < 64; i++ {
				t.Values[i] = uint16(payload[offset+i])
			}
		} else {
			for i := 0; i < 64; i++ {
				t.Values[i] = binary.BigEndian.Uint16(payload[offset+2*i:])
			}
		}
		offset += need

		glog.V(2).Infof("DQT id=%d precision=%d", id, precision)
		tables[id] = t
	}
	return nil
}

// decodeSOF extracts the frame geometry from an SOF0-SOF3 payload.
func decodeSOF(payload []byte) (FrameInfo, error) {
	if len(payload) < 6 {
		return FrameInfo{}, FormatError("invalid SOF segment")
	}
	frame := FrameInfo{
		Precision:  int(payload[0]),
		Height:     int(binary.BigEndian.Uint16(payload[1:3])),
		Width:      int(binary.BigEndian.Uint16(payload[3:5])),
		Components: int(payload[5]),
	}
	glog.V(2).Infof("SOF %dx%d precision=%d components=%d",
		frame.Width, frame.Height, frame.Precision, frame.Components)
	return frame, nil
}
