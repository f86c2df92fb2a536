package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildApp1 assembles a complete APP1 payload: preamble, TIFF header, an
// IFD0 with make/model/orientation/datetime, the string area, and optionally
// an IFD1 pointing at an embedded thumbnail. Offsets are fixed and
// double-checked while building.
func buildApp1(t *testing.T, bo binary.ByteOrder, withThumb bool) []byte {
	t.Helper()

	put16 := func(b []byte, v uint16) []byte {
		var x [2]byte
		bo.PutUint16(x[:], v)
		return append(b, x[:]...)
	}
	put32 := func(b []byte, v uint32) []byte {
		var x [4]byte
		bo.PutUint32(x[:], v)
		return append(b, x[:]...)
	}
	entry := func(b []byte, tag, typ uint16, count, value uint32) []byte {
		b = put16(b, tag)
		b = put16(b, typ)
		b = put32(b, count)
		return put32(b, value)
	}
	shortEntry := func(b []byte, tag, v uint16) []byte {
		b = put16(b, tag)
		b = put16(b, typeShort)
		b = put32(b, 1)
		b = put16(b, v)
		return append(b, 0, 0)
	}

	const (
		makeOff  = 62
		modelOff = 68
		dtOff    = 81
		ifd1Off  = 102
		thumbOff = 132
	)
	makeStr := "Canon\x00"
	modelStr := "Canon EOS 5D\x00"
	dtStr := "2020:05:17 10:11:12\x00"
	thumb := []byte{0xFF, 0xD8, 0xFF, 0xD9}

	var tiff []byte
	if bo == binary.ByteOrder(binary.LittleEndian) {
		tiff = append(tiff, 'I', 'I')
	} else {
		tiff = append(tiff, 'M', 'M')
	}
	tiff = put16(tiff, 0x002A)
	tiff = put32(tiff, 8)

	tiff = put16(tiff, 4) // IFD0 entry count
	tiff = entry(tiff, tagMake, typeASCII, uint32(len(makeStr)), makeOff)
	tiff = entry(tiff, tagModel, typeASCII, uint32(len(modelStr)), modelOff)
	tiff = shortEntry(tiff, tagOrientation, 6)
	tiff = entry(tiff, tagDateTime, typeASCII, uint32(len(dtStr)), dtOff)
	if withThumb {
		tiff = put32(tiff, ifd1Off)
	} else {
		tiff = put32(tiff, 0)
	}

	if len(tiff) != makeOff {
		t.Fatalf("builder drift: string area at %d, want %d", len(tiff), makeOff)
	}
	tiff = append(tiff, makeStr...)
	tiff = append(tiff, modelStr...)
	tiff = append(tiff, dtStr...)
	tiff = append(tiff, 0) // pad to the IFD1 offset

	if withThumb {
		if len(tiff) != ifd1Off {
			t.Fatalf("builder drift: IFD1 at %d, want %d", len(tiff), ifd1Off)
		}
		tiff = put16(tiff, 2) // IFD1 entry count
		tiff = entry(tiff, tagThumbOffset, typeLong, 1, thumbOff)
		tiff = entry(tiff, tagThumbLength, typeLong, 1, uint32(len(thumb)))
		tiff = put32(tiff, 0)
		if len(tiff) != thumbOff {
			t.Fatalf("builder drift: thumbnail at %d, want %d", len(tiff), thumbOff)
		}
		tiff = append(tiff, thumb...)
	}

	return append([]byte("Exif\x00\x00"), tiff...)
}

// TestParse decodes the identity fields in both byte orders.
func TestParse(t *testing.T) {
	orders := map[string]binary.ByteOrder{
		"little endian": binary.LittleEndian,
		"big endian":    binary.BigEndian,
	}

	for name, bo := range orders {
		t.Run(name, func(t *testing.T) {
			info, err := Parse(buildApp1(t, bo, true))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if info.Make != "Canon" {
				t.Errorf("Make = %q, want %q", info.Make, "Canon")
			}
			if info.Model != "Canon EOS 5D" {
				t.Errorf("Model = %q, want %q", info.Model, "Canon EOS 5D")
			}
			if info.DateTime != "2020:05:17 10:11:12" {
				t.Errorf("DateTime = %q", info.DateTime)
			}
			if info.Orientation != 6 {
				t.Errorf("Orientation = %d, want 6", info.Orientation)
			}
			if info.ThumbOffset != 132 || info.ThumbLength != 4 {
				t.Errorf("thumbnail at %d+%d, want 132+4", info.ThumbOffset, info.ThumbLength)
			}
		})
	}
}

// TestParseInlineASCII reads a string short enough to live inside the value
// field itself.
func TestParseInlineASCII(t *testing.T) {
	var tiff []byte
	tiff = append(tiff, 'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00)
	tiff = append(tiff, 0x01, 0x00) // one entry
	tiff = append(tiff, 0x0F, 0x01, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00)
	tiff = append(tiff, 'F', 'u', 0x00, 0x00) // inline value
	tiff = append(tiff, 0x00, 0x00, 0x00, 0x00)

	info, err := Parse(append([]byte("Exif\x00\x00"), tiff...))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if info.Make != "Fu" {
		t.Errorf("Make = %q, want %q", info.Make, "Fu")
	}
	if info.ThumbOffset != 0 || info.ThumbLength != 0 {
		t.Errorf("unexpected thumbnail pointers %d+%d", info.ThumbOffset, info.ThumbLength)
	}
}

// TestParseErrors rejects structurally broken payloads.
func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"missing preamble", []byte("JFIF\x00\x00II*\x00")},
		{"truncated header", []byte("Exif\x00\x00II\x2A")},
		{"bad byte order mark", []byte("Exif\x00\x00XX\x2A\x00\x08\x00\x00\x00")},
		{"bad magic", []byte("Exif\x00\x00II\x00\x00\x08\x00\x00\x00")},
		{"ifd offset out of range", []byte("Exif\x00\x00II\x2A\x00\xFF\xFF\x00\x00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.payload); err == nil {
				t.Fatal("Parse succeeded, want error")
			}
		})
	}

	if _, err := Parse([]byte("nothing here")); !errors.Is(err, ErrNoExif) {
		t.Errorf("Parse error = %v, want ErrNoExif", err)
	}
}

// TestParseTruncationNoPanic feeds every prefix of a valid payload; all must
// fail or succeed cleanly, never panic.
func TestParseTruncationNoPanic(t *testing.T) {
	payload := buildApp1(t, binary.LittleEndian, true)
	for i := 0; i < len(payload); i++ {
		Parse(payload[:i])
		Thumbnail(payload[:i])
	}
}

// TestThumbnail extracts the embedded bytes and copies them out.
func TestThumbnail(t *testing.T) {
	payload := buildApp1(t, binary.BigEndian, true)

	thumb, err := Thumbnail(payload)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	want := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	if !bytes.Equal(thumb, want) {
		t.Fatalf("thumbnail = % X, want % X", thumb, want)
	}

	// The returned slice is a copy, not a view into the payload.
	thumb[0] = 0
	again, err := Thumbnail(payload)
	if err != nil {
		t.Fatalf("second Thumbnail failed: %v", err)
	}
	if again[0] != 0xFF {
		t.Error("mutating the result corrupted the source payload")
	}
}

// TestThumbnailMissing reports ErrNoThumbnail when IFD1 is absent.
func TestThumbnailMissing(t *testing.T) {
	payload := buildApp1(t, binary.LittleEndian, false)
	if _, err := Thumbnail(payload); !errors.Is(err, ErrNoThumbnail) {
		t.Errorf("Thumbnail error = %v, want ErrNoThumbnail", err)
	}
}

// TestThumbnailNotJPEG rejects embedded data without an SOI prefix.
func TestThumbnailNotJPEG(t *testing.T) {
	payload := buildApp1(t, binary.LittleEndian, true)
	// Overwrite the thumbnail bytes in place (preamble is 6 bytes, the
	// thumbnail sits at TIFF offset 132).
	copy(payload[6+132:], []byte("ABCD"))

	if _, err := Thumbnail(payload); err == nil {
		t.Fatal("Thumbnail succeeded on non-JPEG data")
	}
}
