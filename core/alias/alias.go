package alias

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrMalformedPair  = errors.New("malformed alias pair")
	ErrDuplicateAlias = errors.New("duplicate alias")
)

// Entry is one alias mapping. After normalization the alias never ends with
// a slash and the replacement carries exactly one leading slash and none
// trailing, so joining replacement and relative path is always a plain
// string concat with a single separator.
type Entry struct {
	Alias       string
	Replacement string
}

// Table holds the normalized alias set for one run. It is immutable once
// built and safe to share across every file of a walk.
type Table struct {
	entries []Entry
	lookup  map[string]string
}

// Build constructs a table from raw "alias replacement" pairs as the user
// supplies them. A pair splits at its first whitespace run, so the
// replacement may itself contain spaces. Validation failures are fatal to
// the run and happen before any file is touched.
func Build(rawPairs []string) (*Table, error) {
	t := &Table{lookup: make(map[string]string, len(rawPairs))}
	for _, raw := range rawPairs {
		entry, err := parsePair(raw)
		if err != nil {
			return nil, err
		}
		if _, exists := t.lookup[entry.Alias]; exists {
			return nil, fmt.Errorf("%w %q: aliases must be unique", ErrDuplicateAlias, entry.Alias)
		}
		t.lookup[entry.Alias] = entry.Replacement
		t.entries = append(t.entries, entry)
	}

	// Longest alias first keeps overlapping prefixes ("@ui" vs "@ui-kit")
	// deterministic in the compiled alternation.
	sort.Slice(t.entries, func(i, j int) bool {
		a, b := t.entries[i].Alias, t.entries[j].Alias
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return t, nil
}

func parsePair(raw string) (Entry, error) {
	trimmed := strings.TrimSpace(raw)
	cut := strings.IndexFunc(trimmed, unicode.IsSpace)
	if cut < 0 {
		return Entry{}, fmt.Errorf("%w %q: expected \"alias replacement\"", ErrMalformedPair, raw)
	}

	aliasName := strings.TrimRight(trimmed[:cut], "/")
	if aliasName == "" {
		return Entry{}, fmt.Errorf("%w %q: alias is empty", ErrMalformedPair, raw)
	}
	rest := strings.TrimSpace(trimmed[cut:])
	replacement := "/" + strings.Trim(rest, "/")

	return Entry{Alias: aliasName, Replacement: replacement}, nil
}

// Resolve looks an alias up exactly and case-sensitively.
func (t *Table) Resolve(aliasName string) (string, bool) {
	replacement, ok := t.lookup[aliasName]
	return replacement, ok
}

// Entries returns the normalized mappings, longest alias first.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Fingerprint digests the normalized entry list. Two tables with the same
// mappings share a fingerprint regardless of the order pairs were given in.
func (t *Table) Fingerprint() string {
	h := sha256.New()
	for _, e := range t.entries {
		fmt.Fprintf(h, "%s\x00%s\x00", e.Alias, e.Replacement)
	}
	return hex.EncodeToString(h.Sum(nil))
}
