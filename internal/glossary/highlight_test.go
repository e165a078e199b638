package glossary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(key, text string) string {
	return `<span class="glossary-term" data-term="` + key + `">` + text + `</span>`
}

func TestHighlightLongerKeyAbsent(t *testing.T) {
	idx := BuildIndex([]Term{
		{ID: "long", Term: "REPS (Real Estate Professional Status)"},
		{ID: "short", Term: "REPS"},
	})
	src := "To qualify for REPS you need..."

	res := Highlight(src, idx)

	assert.Equal(t, "To qualify for "+marker("reps", "REPS")+" you need...", res.HTML)
	require.Len(t, res.Annotations, 1)
	ann := res.Annotations[0]
	assert.Equal(t, "reps", ann.Key)
	assert.Equal(t, "short", ann.TermID)
	assert.Equal(t, "REPS", src[ann.Start:ann.End])
}

func TestHighlightTwoTermsInPlace(t *testing.T) {
	idx := BuildIndex([]Term{{ID: "1", Term: "REPS"}, {ID: "2", Term: "Material Participation"}})
	src := "Material Participation and REPS both matter"

	res := Highlight(src, idx)

	want := marker("material participation", "Material Participation") + " and " + marker("reps", "REPS") + " both matter"
	assert.Equal(t, want, res.HTML)
	require.Len(t, res.Annotations, 2)
	assert.Equal(t, "Material Participation", src[res.Annotations[0].Start:res.Annotations[0].End])
	assert.Equal(t, "REPS", src[res.Annotations[1].Start:res.Annotations[1].End])
	assert.Len(t, res.Terms, 2)
}

func TestHighlightLongestFirst(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "Tax"}, {Term: "Tax Planning"}})

	res := Highlight("Tax Planning matters", idx)

	assert.Equal(t, marker("tax planning", "Tax Planning")+" matters", res.HTML)
	assert.Equal(t, 1, strings.Count(res.HTML, "glossary-term"))
}

func TestHighlightFirstOccurrenceOnly(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}})

	res := Highlight("REPS then reps then Reps", idx)

	assert.Equal(t, marker("reps", "REPS")+" then reps then Reps", res.HTML)
}

func TestHighlightPreservesCase(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "Bonus Depreciation"}})

	res := Highlight("claim bonus depreciation early", idx)

	assert.Equal(t, "claim "+marker("bonus depreciation", "bonus depreciation")+" early", res.HTML)
}

func TestHighlightWordBoundary(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "STR"}})

	res := Highlight("A STRATEGY built on an STR rental", idx)

	assert.Equal(t, "A STRATEGY built on an "+marker("str", "STR")+" rental", res.HTML)
}

func TestHighlightLiteralMetacharacters(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "83(b) Election"}, {Term: "A.B"}})

	res := Highlight("AxB is not A.B, but an 83(b) election is", idx)

	assert.Contains(t, res.HTML, "AxB is not "+marker("a.b", "A.B"))
	assert.Contains(t, res.HTML, marker("83(b) election", "83(b) election"))
}

func TestHighlightIdempotent(t *testing.T) {
	idx := BuildIndex([]Term{
		{Term: "REPS"},
		{Term: "Material Participation"},
		{Term: "STR"},
	})
	src := "<p>Material Participation and REPS both matter. REPS again, and an STR.</p>"

	once := Highlight(src, idx)
	twice := Highlight(once.HTML, idx)

	assert.Equal(t, once.HTML, twice.HTML)
	assert.Empty(t, twice.Annotations)
	assert.Len(t, twice.Terms, 3)
	assert.Equal(t, 3, strings.Count(twice.HTML, "glossary-term"))
}

func TestHighlightSkipsMarkupContexts(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"attribute",
			`<p title="REPS">none here</p>`,
			`<p title="REPS">none here</p>`,
		},
		{
			"link text",
			`<p><a href="/reps">REPS</a> and REPS</p>`,
			`<p><a href="/reps">REPS</a> and ` + marker("reps", "REPS") + `</p>`,
		},
		{
			"code",
			"<pre><code>REPS</code></pre><p>REPS</p>",
			"<pre><code>REPS</code></pre><p>" + marker("reps", "REPS") + "</p>",
		},
		{
			"script",
			`<script>var REPS = 1;</script>REPS`,
			`<script>var REPS = 1;</script>` + marker("reps", "REPS"),
		},
		{
			"title",
			`<html><head><title>REPS guide</title></head><body>REPS</body></html>`,
			`<html><head><title>REPS guide</title></head><body>` + marker("reps", "REPS") + `</body></html>`,
		},
		{
			"noscript",
			`<noscript>REPS</noscript><p>REPS</p>`,
			`<noscript>REPS</noscript><p>` + marker("reps", "REPS") + `</p>`,
		},
		{
			"nested inline",
			`<p><strong>REPS</strong> status</p>`,
			`<p><strong>` + marker("reps", "REPS") + `</strong> status</p>`,
		},
		{
			"void element",
			`<p>line<br>REPS</p>`,
			`<p>line<br>` + marker("reps", "REPS") + `</p>`,
		},
	}
	for _, tt := range tests {
		res := Highlight(tt.src, idx)
		assert.Equal(t, tt.want, res.HTML, tt.name)
	}
}

func TestHighlightEntities(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}, {Term: "Ordinary & Necessary"}})
	src := "<p>Tax &amp; REPS. Ordinary &amp; Necessary costs.</p>"

	res := Highlight(src, idx)

	assert.Equal(t,
		"<p>Tax &amp; "+marker("reps", "REPS")+". "+marker("ordinary &amp; necessary", "Ordinary &amp; Necessary")+" costs.</p>",
		res.HTML)
	require.Len(t, res.Annotations, 2)
	assert.Equal(t, "REPS", src[res.Annotations[0].Start:res.Annotations[0].End])
	assert.Equal(t, "Ordinary &amp; Necessary", src[res.Annotations[1].Start:res.Annotations[1].End])
}

func TestHighlightLegacyEntityOffsets(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}})

	tests := []struct {
		name       string
		src        string
		start, end int
	}{
		{"no semicolon", "R&amp D then REPS", 13, 17},
		{"semicolon", "R&amp; D then REPS", 14, 18},
		{"numeric no semicolon", "A&#38 B REPS", 8, 12},
		{"longer named", "&notin; REPS", 8, 12},
		{"unknown name", "&bogus; REPS", 8, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Highlight(tt.src, idx)
			require.Len(t, res.Annotations, 1)
			ann := res.Annotations[0]
			assert.Equal(t, tt.start, ann.Start)
			assert.Equal(t, tt.end, ann.End)
			assert.Equal(t, "REPS", tt.src[ann.Start:ann.End])
		})
	}
}

func TestHighlightEmptyInputs(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}})

	assert.Equal(t, "", Highlight("", idx).HTML)
	assert.Equal(t, "REPS here", Highlight("REPS here", BuildIndex(nil)).HTML)
	assert.Equal(t, "REPS here", Highlight("REPS here", nil).HTML)
	assert.Empty(t, Highlight("no terms", idx).Annotations)
}

func TestHighlightTruncatedMarkup(t *testing.T) {
	idx := BuildIndex([]Term{{Term: "REPS"}})
	src := "REPS <p class=\"x"

	res := Highlight(src, idx)

	assert.True(t, strings.HasPrefix(res.HTML, marker("reps", "REPS")))
}

func TestHighlightSideChannelResolves(t *testing.T) {
	terms := []Term{{ID: "t1", Term: "QSBS (Qualified Small Business Stock)"}}
	idx := BuildIndex(terms)

	res := Highlight("Founders love QSBS (Qualified Small Business Stock) exits.", idx)

	require.Len(t, res.Annotations, 1)
	key := res.Annotations[0].Key
	assert.Equal(t, "t1", res.Terms[key].ID)

	got, err := idx.Resolve(key)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
}
