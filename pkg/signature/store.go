// Package signature loads the camera signature database and matches
// quantization-table digests against it.
package signature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ErrResourceMissing reports that the signature database file could not be
// located. The caller treats this as fatal; there is no fallback database.
var ErrResourceMissing = errors.New("signature database not found")

// Wildcard is the chrominance-digest value a record uses to match any
// second digest.
const Wildcard = "*"

// Record is one camera signature: the make/model/notes identity, the
// expected luminance and chrominance table digests, and free-text fields
// describing subsampling layout and originating software.
type Record struct {
	Make     string
	Model    string
	Notes    string
	HashY    string
	HashC    string
	Layout   string
	Software string
	Extra    string
}

// Store holds the loaded signature records, in file order. It is immutable
// after Load and safe to share across concurrent lookups.
type Store struct {
	records []Record
}

// tokenPattern extracts the quoted strings from the _T("...") occurrences
// of a record line in the reference database format.
var tokenPattern = regexp.MustCompile(`_T\("([^"]*)"\)`)

// Load reads the signature database at path. A nonexistent path yields
// ErrResourceMissing.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrResourceMissing, path)
		}
		return nil, err
	}
	defer f.Close()

	store, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return store, nil
}

// Read parses signature records from r. The format is line oriented and
// deliberately tolerant: only lines beginning with "{" are considered,
// tokens are the quoted strings inside _T(...) calls, and lines with fewer
// than five tokens are skipped rather than rejected. A record whose make is
// "*" is the end-of-table sentinel; nothing after it is read.
func Read(r io.Reader) (*Store, error) {
	store := &Store{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		matches := tokenPattern.FindAllStringSubmatch(line, -1)
		if len(matches) < 5 {
			continue
		}
		tokens := make([]string, len(matches))
		for i, m := range matches {
			tokens[i] = m[1]
		}
		if tokens[0] == Wildcard {
			// End of signature table sentinel.
			break
		}
		rec := Record{
			Make:  tokens[0],
			Model: tokens[1],
			Notes: tokens[2],
			HashY: tokens[3],
			HashC: tokens[4],
		}
		if len(tokens) > 5 {
			rec.Layout = tokens[5]
		}
		if len(tokens) > 6 {
			rec.Software = tokens[6]
		}
		if len(tokens) > 7 {
			rec.Extra = tokens[7]
		}
		store.records = append(store.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// Lookup returns every record matching any of the digest pairs. A record
// matches a pair when its luminance digest equals the pair's first digest
// and either the pair has no second digest, the record's chrominance digest
// is the wildcard, or the two chrominance digests are equal. Results keep
// pair order first, file order within a pair.
func (s *Store) Lookup(pairs []DigestPair) []Record {
	var matches []Record
	for _, p := range pairs {
		for _, rec := range s.records {
			if rec.HashY != p.First {
				continue
			}
			if p.Second == "" || rec.HashC == Wildcard || rec.HashC == p.Second {
				matches = append(matches, rec)
			}
		}
	}
	return matches
}
