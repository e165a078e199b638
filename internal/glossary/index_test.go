package glossary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Equal(t, 0, idx.Len())

	for _, key := range []string{"", "reps", "REPS", "anything"} {
		_, ok := idx.Lookup(key)
		assert.False(t, ok, key)
		_, err := idx.Resolve(key)
		assert.True(t, errors.Is(err, ErrNotFound), key)
	}
}

func TestBuildIndexCaseInsensitive(t *testing.T) {
	idx := BuildIndex([]Term{
		{ID: "1", Term: "REPS"},
		{ID: "2", Term: "Material Participation"},
	})

	for _, key := range []string{"reps", "REPS", "Reps", "  reps "} {
		got, err := idx.Resolve(key)
		require.NoError(t, err, key)
		assert.Equal(t, "1", got.ID)
	}
	got, ok := idx.Lookup("MATERIAL PARTICIPATION")
	require.True(t, ok)
	assert.Equal(t, "2", got.ID)
}

func TestBuildIndexLastWins(t *testing.T) {
	idx := BuildIndex([]Term{
		{ID: "first", Term: "llc"},
		{ID: "second", Term: "LLC"},
	})
	assert.Equal(t, 1, idx.Len())

	got, ok := idx.Lookup("LLC")
	require.True(t, ok)
	assert.Equal(t, "second", got.ID)
}

func TestBuildIndexSkipsBlank(t *testing.T) {
	idx := BuildIndex([]Term{{ID: "1", Term: "  "}, {ID: "2", Term: "AGI"}})
	assert.Equal(t, 1, idx.Len())
}

func TestResolveStaleKey(t *testing.T) {
	before := BuildIndex([]Term{{ID: "1", Term: "REPS"}, {ID: "2", Term: "STR"}})
	res := Highlight("Use REPS wisely", before)
	require.Len(t, res.Annotations, 1)
	key := res.Annotations[0].Key

	after := BuildIndex([]Term{{ID: "2", Term: "STR"}})
	_, err := after.Resolve(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNilIndex(t *testing.T) {
	var idx *Index
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Terms())
	_, err := idx.Resolve("reps")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderedLongestFirst(t *testing.T) {
	idx := BuildIndex([]Term{
		{Term: "Tax"},
		{Term: "Tax Planning"},
		{Term: "AGI"},
		{Term: "Tax Planning Window"},
	})
	var keys []string
	for _, e := range idx.ordered() {
		keys = append(keys, e.key)
	}
	assert.Equal(t, []string{"tax planning window", "tax planning", "agi", "tax"}, keys)
}

func TestTermsSorted(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "STR"}, {Term: "AGI"}, {Term: "LLC"}})
	terms := idx.Terms()
	require.Len(t, terms, 3)
	assert.Equal(t, "AGI", terms[0].Term)
	assert.Equal(t, "LLC", terms[1].Term)
	assert.Equal(t, "STR", terms[2].Term)
}

func TestTermPatternAnchoring(t *testing.T) {
	tests := []struct {
		term   string
		text   string
		wantOK bool
	}{
		{"STR", "an STR rental", true},
		{"STR", "STRATEGY", false},
		{"83(b) Election", "file an 83(b) election now", true},
		{"83(b) Election", "file an 83b election now", false},
		{"Co-Investment (MSO or Trust)", "a Co-Investment (MSO or Trust) works", true},
		{"Co-Investment (MSO or Trust)", "a Co-Investment (MSO or Trust)s", true},
		{"A.B", "AxB", false},
		{"A.B", "use A.B here", true},
		{"Ordinary & Necessary", "ordinary & necessary expenses", true},
	}
	for _, tt := range tests {
		p := termPattern(Key(tt.term))
		assert.Equal(t, tt.wantOK, p.MatchString(tt.text), "%q in %q", tt.term, tt.text)
	}
}
