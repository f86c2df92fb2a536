package signature

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDB = `
// camera signature test fixture
#ifdef SOME_GUARD

{ _T("Canon"), _T("Canon EOS 5D"), _T("fine"), _T("AAAA"), _T("BBBB"), _T("2x1"), _T(""), _T("") },
{ _T("Canon"), _T("Canon EOS 5D"), _T("norm"), _T("CCCC"), _T("*"), _T("2x1"), _T("firmware 1.0"), _T("") },
{ _T("Nikon"), _T("D200"), _T("fine"), _T("AAAA"), _T("DDDD") },
{ _T("broken"), _T("only three tokens"), _T("skipped") },
not a record line at all
{ _T("*"), _T("*"), _T(""), _T(""), _T("") },
{ _T("After"), _T("Sentinel"), _T("ignored"), _T("EEEE"), _T("FFFF") },
`

// TestRead tokenizes records, skips malformed lines and stops at the
// sentinel row.
func TestRead(t *testing.T) {
	store, err := Read(strings.NewReader(sampleDB))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}

	first := store.records[0]
	if first.Make != "Canon" || first.Model != "Canon EOS 5D" || first.Notes != "fine" {
		t.Errorf("first record = %+v", first)
	}
	if first.HashY != "AAAA" || first.HashC != "BBBB" {
		t.Errorf("first record digests = %s/%s, want AAAA/BBBB", first.HashY, first.HashC)
	}
	if first.Layout != "2x1" || first.Software != "" || first.Extra != "" {
		t.Errorf("first record optional fields = %+v", first)
	}

	second := store.records[1]
	if second.HashC != Wildcard {
		t.Errorf("second record HashC = %q, want wildcard", second.HashC)
	}
	if second.Software != "firmware 1.0" {
		t.Errorf("second record Software = %q, want %q", second.Software, "firmware 1.0")
	}

	// Five-token records leave the optional fields empty.
	third := store.records[2]
	if third.Make != "Nikon" || third.Layout != "" || third.Software != "" {
		t.Errorf("third record = %+v", third)
	}
}

// TestLoad reads a database file from disk and reports a missing one with
// ErrResourceMissing.
func TestLoad(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sigs.inl")
		if err := os.WriteFile(path, []byte(sampleDB), 0644); err != nil {
			t.Fatal(err)
		}
		store, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if store.Len() != 3 {
			t.Errorf("Len() = %d, want 3", store.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.inl")
		_, err := Load(path)
		if !errors.Is(err, ErrResourceMissing) {
			t.Fatalf("Load error = %v, want ErrResourceMissing", err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q does not name the path", err.Error())
		}
	})
}

// TestLookup exercises the pair matching rules and result ordering.
func TestLookup(t *testing.T) {
	store, err := Read(strings.NewReader(sampleDB))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	t.Run("single digest matches any chrominance", func(t *testing.T) {
		matches := store.Lookup([]DigestPair{{First: "AAAA"}})
		if len(matches) != 2 {
			t.Fatalf("got %d matches, want 2", len(matches))
		}
		// File order within one pair.
		if matches[0].Make != "Canon" || matches[1].Make != "Nikon" {
			t.Errorf("matches = %s, %s, want Canon then Nikon", matches[0].Make, matches[1].Make)
		}
	})

	t.Run("pair with second digest", func(t *testing.T) {
		matches := store.Lookup([]DigestPair{{First: "AAAA", Second: "BBBB"}})
		if len(matches) != 1 {
			t.Fatalf("got %d matches, want 1", len(matches))
		}
		if matches[0].Notes != "fine" {
			t.Errorf("match = %+v, want the fine record", matches[0])
		}
	})

	t.Run("wildcard chrominance matches any second digest", func(t *testing.T) {
		matches := store.Lookup([]DigestPair{{First: "CCCC", Second: "ZZZZ"}})
		if len(matches) != 1 {
			t.Fatalf("got %d matches, want 1", len(matches))
		}
		if matches[0].Notes != "norm" {
			t.Errorf("match = %+v, want the wildcard record", matches[0])
		}
	})

	t.Run("mismatched second digest", func(t *testing.T) {
		if matches := store.Lookup([]DigestPair{{First: "AAAA", Second: "ZZZZ"}}); len(matches) != 0 {
			t.Errorf("got %d matches, want 0", len(matches))
		}
	})

	t.Run("unknown luminance digest", func(t *testing.T) {
		if matches := store.Lookup([]DigestPair{{First: "ZZZZ"}}); len(matches) != 0 {
			t.Errorf("got %d matches, want 0", len(matches))
		}
	})

	t.Run("pair order before file order", func(t *testing.T) {
		matches := store.Lookup([]DigestPair{{First: "CCCC"}, {First: "AAAA"}})
		if len(matches) != 3 {
			t.Fatalf("got %d matches, want 3", len(matches))
		}
		if matches[0].Notes != "norm" {
			t.Errorf("first match = %+v, want the CCCC record first", matches[0])
		}
	})

	t.Run("record can match several pairs", func(t *testing.T) {
		// The same record satisfying both the single and the double key is
		// reported once per pair.
		matches := store.Lookup([]DigestPair{{First: "AAAA"}, {First: "AAAA", Second: "BBBB"}})
		if len(matches) != 3 {
			t.Errorf("got %d matches, want 3", len(matches))
		}
	})

	t.Run("no pairs", func(t *testing.T) {
		if matches := store.Lookup(nil); len(matches) != 0 {
			t.Errorf("got %d matches, want 0", len(matches))
		}
	})
}
