package glossary

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrNotFound is returned when a term key or id does not resolve. Click
// handlers treat it as a no-op: the marker was rendered against an older
// glossary snapshot.
var ErrNotFound = errors.New("glossary: term not found")

// Index maps lowercase term text to its Term. It is immutable once built
// and safe for concurrent use. When two terms differ only by case the one
// that appears later in the input wins.
type Index struct {
	terms map[string]Term

	once    sync.Once
	entries []entry // longest key first, built on first Highlight
}

type entry struct {
	key     string
	pattern *regexp.Regexp
}

// Key normalises term text into an index key.
func Key(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// BuildIndex builds an Index over terms. It never fails; terms with blank
// text are skipped.
func BuildIndex(terms []Term) *Index {
	idx := &Index{terms: make(map[string]Term, len(terms))}
	for _, t := range terms {
		key := Key(t.Term)
		if key == "" {
			continue
		}
		idx.terms[key] = t
	}
	return idx
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.terms)
}

// Lookup returns the term stored under key, matching case-insensitively.
func (idx *Index) Lookup(key string) (Term, bool) {
	if idx == nil {
		return Term{}, false
	}
	t, ok := idx.terms[Key(key)]
	return t, ok
}

// Resolve maps a marker key back to its term. It returns ErrNotFound when
// the key is not in this snapshot.
func (idx *Index) Resolve(markerKey string) (Term, error) {
	t, ok := idx.Lookup(markerKey)
	if !ok {
		return Term{}, ErrNotFound
	}
	return t, nil
}

// Terms returns the indexed terms ordered by key.
func (idx *Index) Terms() []Term {
	if idx == nil {
		return nil
	}
	keys := make([]string, 0, len(idx.terms))
	for k := range idx.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Term, len(keys))
	for i, k := range keys {
		out[i] = idx.terms[k]
	}
	return out
}

// ordered returns the match entries, longest key first. Equal lengths are
// ordered lexically so output is deterministic.
func (idx *Index) ordered() []entry {
	idx.once.Do(func() {
		entries := make([]entry, 0, len(idx.terms))
		for key := range idx.terms {
			entries = append(entries, entry{key: key, pattern: termPattern(key)})
		}
		sort.Slice(entries, func(i, j int) bool {
			li := utf8.RuneCountInString(entries[i].key)
			lj := utf8.RuneCountInString(entries[j].key)
			if li != lj {
				return li > lj
			}
			return entries[i].key < entries[j].key
		})
		idx.entries = entries
	})
	return idx.entries
}

// termPattern compiles a case-insensitive literal pattern for key. A word
// boundary is anchored only on a side whose edge character is an ASCII word
// character, since \b next to punctuation would demand a word character on
// the far side ("Co-Investment (MSO or Trust)" followed by a space).
func termPattern(key string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)")
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	if isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(key))
	if isWordRune(last) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

// isWordRune mirrors RE2's ASCII-only definition of \w.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
