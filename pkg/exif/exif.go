// Package exif reads a small subset of the EXIF metadata embedded in a JPEG
// APP1 segment: the camera identity fields and the embedded thumbnail
// location. It walks the TIFF IFD structure directly and ignores every tag
// it does not need.
package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var exifPreamble = []byte("Exif\x00\x00")

var (
	ErrNoExif      = errors.New("exif: missing Exif preamble")
	ErrNoThumbnail = errors.New("exif: no embedded thumbnail")
	errTruncated   = errors.New("exif: truncated TIFF structure")
	errBadHeader   = errors.New("exif: bad TIFF header")
)

// TIFF field types used here.
const (
	typeASCII = 2
	typeShort = 3
	typeLong  = 4
)

// Tags read from IFD0 and IFD1.
const (
	tagMake        = 0x010F
	tagModel       = 0x0110
	tagOrientation = 0x0112
	tagSoftware    = 0x0131
	tagDateTime    = 0x0132
	tagThumbOffset = 0x0201 // JPEGInterchangeFormat
	tagThumbLength = 0x0202 // JPEGInterchangeFormatLength
)

// Info is the decoded subset of EXIF fields.
type Info struct {
	Make        string
	Model       string
	Software    string
	DateTime    string
	Orientation int

	// Embedded thumbnail position, relative to the TIFF header.
	// Both zero when IFD1 declares no thumbnail.
	ThumbOffset int
	ThumbLength int
}

// Parse decodes the identity fields and thumbnail pointers from a full APP1
// payload (starting with the "Exif\x00\x00" preamble). Unknown tags are
// skipped; a structurally broken payload returns an error.
func Parse(app1 []byte) (*Info, error) {
	if !bytes.HasPrefix(app1, exifPreamble) {
		return nil, ErrNoExif
	}
	tiff := app1[len(exifPreamble):]
	if len(tiff) < 8 {
		return nil, errTruncated
	}

	var bo binary.ByteOrder
	switch {
	case tiff[0] == 'I' && tiff[1] == 'I':
		bo = binary.LittleEndian
	case tiff[0] == 'M' && tiff[1] == 'M':
		bo = binary.BigEndian
	default:
		return nil, errBadHeader
	}
	if bo.Uint16(tiff[2:4]) != 0x002A {
		return nil, errBadHeader
	}

	info := &Info{}
	next, err := parseIFD(tiff, int(bo.Uint32(tiff[4:8])), bo, info)
	if err != nil {
		return nil, err
	}
	if next > 0 {
		// IFD1 describes the thumbnail image.
		if _, err := parseIFD(tiff, next, bo, info); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// parseIFD walks one IFD at offset, filling the fields it recognizes, and
// returns the offset of the next IFD (0 when none).
func parseIFD(tiff []byte, offset int, bo binary.ByteOrder, info *Info) (int, error) {
	if offset < 0 || offset+2 > len(tiff) {
		return 0, errTruncated
	}
	count := int(bo.Uint16(tiff[offset : offset+2]))
	entries := offset + 2
	if entries+count*12+4 > len(tiff) {
		return 0, errTruncated
	}

	for i := 0; i < count; i++ {
		e := entries + i*12
		tag := bo.Uint16(tiff[e : e+2])
		typ := bo.Uint16(tiff[e+2 : e+4])
		n := int(bo.Uint32(tiff[e+4 : e+8]))
		value := tiff[e+8 : e+12]

		switch tag {
		case tagMake, tagModel, tagSoftware, tagDateTime:
			if typ != typeASCII {
				continue
			}
			s, err := readASCII(tiff, value, n, bo)
			if err != nil {
				continue
			}
			switch tag {
			case tagMake:
				info.Make = s
			case tagModel:
				info.Model = s
			case tagSoftware:
				info.Software = s
			case tagDateTime:
				info.DateTime = s
			}
		case tagOrientation:
			if typ == typeShort && n == 1 {
				info.Orientation = int(bo.Uint16(value[:2]))
			}
		case tagThumbOffset:
			if typ == typeLong || typ == typeShort {
				info.ThumbOffset = int(bo.Uint32(value))
				if typ == typeShort {
					info.ThumbOffset = int(bo.Uint16(value[:2]))
				}
			}
		case tagThumbLength:
			if typ == typeLong || typ == typeShort {
				info.ThumbLength = int(bo.Uint32(value))
				if typ == typeShort {
					info.ThumbLength = int(bo.Uint16(value[:2]))
				}
			}
		}
	}

	return int(bo.Uint32(tiff[entries+count*12 : entries+count*12+4])), nil
}

// readASCII resolves an ASCII field of n bytes: inline in the value field
// when it fits, otherwise at the offset the value field points to. Trailing
// NULs and spaces are stripped.
func readASCII(tiff, value []byte, n int, bo binary.ByteOrder) (string, error) {
	if n <= 0 {
		return "", nil
	}
	var raw []byte
	if n <= 4 {
		raw = value[:n]
	} else {
		off := int(bo.Uint32(value))
		if off < 0 || off+n > len(tiff) {
			return "", errTruncated
		}
		raw = tiff[off : off+n]
	}
	return string(bytes.TrimRight(raw, "\x00 ")), nil
}

// Thumbnail returns the embedded thumbnail JPEG from a full APP1 payload,
// byte for byte. The thumbnail must itself start with an SOI marker.
func Thumbnail(app1 []byte) ([]byte, error) {
	info, err := Parse(app1)
	if err != nil {
		return nil, err
	}
	if info.ThumbOffset == 0 || info.ThumbLength == 0 {
		return nil, ErrNoThumbnail
	}
	tiff := app1[len(exifPreamble):]
	if info.ThumbOffset+info.ThumbLength > len(tiff) {
		return nil, errTruncated
	}
	thumb := tiff[info.ThumbOffset : info.ThumbOffset+info.ThumbLength]
	if len(thumb) < 2 || thumb[0] != 0xFF || thumb[1] != 0xD8 {
		return nil, errors.New("exif: thumbnail is not a JPEG")
	}
	out := make([]byte, len(thumb))
	copy(out, thumb)
	return out, nil
}
