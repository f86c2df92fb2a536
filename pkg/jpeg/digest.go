package jpeg

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// Digest returns the canonical digest of the table: the uppercase hex MD5 of
// the coefficients encoded exactly as they appear on the wire, one byte each
// for 8-bit tables and big-endian pairs for 16-bit tables. The reference
// signature database stores MD5 digests in this form, so the hash function
// here must stay MD5 for lookups to work at all.
func (t *QuantTable) Digest() string {
	var raw []byte
	if t.Precision == 0 {
		raw = make([]byte, 64)
		for i, v := range t.Values {
			raw[i] = byte(v)
		}
	} else {
		raw = make([]byte, 128)
		for i, v := range t.Values {
			binary.BigEndian.PutUint16(raw[2*i:], v)
		}
	}
	return fmt.Sprintf("%X", md5.Sum(raw))
}
