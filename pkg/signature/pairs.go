package signature

import (
	"sort"

	"JPEGProbe/pkg/jpeg"
)

// DigestPair is a lookup key against the signature database. Second is
// empty when the pair covers a single table.
type DigestPair struct {
	First  string
	Second string
}

// BuildPairs derives the lookup keys from a set of quantization tables.
// Tables are ordered by id ascending; each table contributes a single-digest
// pair, and each adjacent pair of tables additionally contributes a
// double-digest pair, interleaved:
//
//	(d0, -), (d0, d1), (d1, -), (d1, d2), (d2, -)
//
// so N tables produce N single and N-1 double pairs. No tables, no pairs.
func BuildPairs(tables []jpeg.QuantTable) []DigestPair {
	ordered := make([]jpeg.QuantTable, len(tables))
	copy(ordered, tables)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	digests := make([]string, len(ordered))
	for i := range ordered {
		digests[i] = ordered[i].Digest()
	}

	var pairs []DigestPair
	for i := range digests {
		pairs = append(pairs, DigestPair{First: digests[i]})
		if i+1 < len(digests) {
			pairs = append(pairs, DigestPair{First: digests[i], Second: digests[i+1]})
		}
	}
	return pairs
}
