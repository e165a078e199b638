package glossary

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Marker attributes written around matched terms.
const (
	MarkerClass = "glossary-term"
	MarkerAttr  = "data-term"
)

// Annotation records one wrapped term occurrence. Start and End are byte
// offsets of the matched text in the source passed to Highlight.
type Annotation struct {
	Key    string `json:"key"`
	TermID string `json:"term_id"`
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Result is the output of Highlight.
type Result struct {
	HTML        string          `json:"html"`
	Annotations []Annotation    `json:"annotations"`
	Terms       map[string]Term `json:"terms"` // marker key -> term, for click dispatch
}

// skipElements never have their text highlighted.
var skipElements = map[string]bool{
	"a":         true,
	"code":      true,
	"pre":       true,
	"script":    true,
	"style":     true,
	"textarea":  true,
	"button":    true,
	"title":     true,
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"xmp":       true,
	"plaintext": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// segment is a run of source bytes. Eligible segments are text outside any
// marker or skipped element; generated markers are never eligible.
type segment struct {
	raw      string // emitted as-is when the segment is untouched
	text     string // unescaped text of an eligible segment
	dirty    bool   // split from a text token; emit text instead of raw
	eligible bool

	src      int    // source offset of the originating token
	tokRaw   string // raw bytes of the originating token
	base     int    // offset of text within the token's unescaped text
	verbatim bool   // the token contained no character references
}

// Highlight wraps the first case-insensitive, boundary-delimited occurrence
// of every indexed term in source with a marker span carrying the term key.
// Longer keys are matched first so a shorter key never fragments a longer
// one. Text already inside a marker is left alone and keys already marked in
// source count as wrapped, so highlighting its own output is a no-op.
// Empty source or an empty index returns source unchanged.
func Highlight(source string, idx *Index) Result {
	if source == "" || idx.Len() == 0 {
		return Result{HTML: source}
	}

	segs, existing := tokenize(source)

	res := Result{Terms: make(map[string]Term)}
	wrapped := make(map[string]bool, len(existing))
	for key := range existing {
		wrapped[key] = true
		if t, ok := idx.terms[key]; ok {
			res.Terms[key] = t
		}
	}

	for _, e := range idx.ordered() {
		if wrapped[e.key] {
			continue
		}
		for i := range segs {
			if !segs[i].eligible {
				continue
			}
			loc := e.pattern.FindStringIndex(segs[i].text)
			if loc == nil {
				continue
			}
			term := idx.terms[e.key]
			var ann Annotation
			segs, ann = splice(segs, i, loc, e.key)
			ann.TermID = term.ID
			res.Annotations = append(res.Annotations, ann)
			res.Terms[e.key] = term
			wrapped[e.key] = true
			break
		}
	}

	sort.Slice(res.Annotations, func(i, j int) bool {
		return res.Annotations[i].Start < res.Annotations[j].Start
	})

	var b strings.Builder
	b.Grow(len(source) + len(res.Annotations)*48)
	for _, s := range segs {
		if s.dirty {
			b.WriteString(s.emitText(s.text))
		} else {
			b.WriteString(s.raw)
		}
	}
	res.HTML = b.String()
	return res
}

// tokenize splits source into segments and collects the keys of markers
// already present in it.
func tokenize(source string) ([]segment, map[string]bool) {
	var segs []segment
	existing := make(map[string]bool)

	z := html.NewTokenizer(strings.NewReader(source))
	offset := 0
	var stack []string // open elements inside an ineligible region

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		start := offset
		offset += len(raw)

		switch tt {
		case html.TextToken:
			seg := segment{raw: raw, src: start, tokRaw: raw, eligible: len(stack) == 0}
			if seg.eligible {
				seg.text = html.UnescapeString(raw)
				seg.verbatim = seg.text == raw
			}
			segs = append(segs, seg)

		case html.StartTagToken:
			name, key, isMarker := inspectTag(z)
			if isMarker && key != "" {
				existing[key] = true
			}
			if !voidElements[name] && (len(stack) > 0 || isMarker || skipElements[name]) {
				stack = append(stack, name)
			}
			segs = append(segs, segment{raw: raw, src: start})

		case html.SelfClosingTagToken:
			_, key, isMarker := inspectTag(z)
			if isMarker && key != "" {
				existing[key] = true
			}
			segs = append(segs, segment{raw: raw, src: start})

		case html.EndTagToken:
			name, _ := z.TagName()
			stack = popElement(stack, string(name))
			segs = append(segs, segment{raw: raw, src: start})

		default:
			segs = append(segs, segment{raw: raw, src: start})
		}
	}

	// Anything the tokenizer did not hand back (a truncated tag at EOF) is
	// kept verbatim.
	if offset < len(source) {
		segs = append(segs, segment{raw: source[offset:], src: offset})
	}
	return segs, existing
}

// inspectTag reads the current tag's name and reports whether it is a
// glossary marker, returning its key.
func inspectTag(z *html.Tokenizer) (name, key string, isMarker bool) {
	n, hasAttr := z.TagName()
	name = string(n)
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		switch string(k) {
		case MarkerAttr:
			key = Key(string(v))
			isMarker = true
		case "class":
			for _, c := range strings.Fields(string(v)) {
				if c == MarkerClass {
					isMarker = true
				}
			}
		}
	}
	return name, key, isMarker
}

// popElement closes name, dropping any unclosed children above it.
func popElement(stack []string, name string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return stack[:i]
		}
	}
	return stack
}

// splice replaces the match at loc inside segs[i] with a marker segment.
func splice(segs []segment, i int, loc []int, key string) ([]segment, Annotation) {
	s := segs[i]
	before, match, after := s.text[:loc[0]], s.text[loc[0]:loc[1]], s.text[loc[1]:]

	ann := Annotation{
		Key:   key,
		Text:  match,
		Start: s.src + s.sourceOffset(s.base+loc[0]),
		End:   s.src + s.sourceOffset(s.base+loc[1]),
	}

	marker := segment{
		raw: `<span class="` + MarkerClass + `" ` + MarkerAttr + `="` + html.EscapeString(key) + `">` +
			s.emitText(match) + `</span>`,
		src: ann.Start,
	}

	repl := make([]segment, 0, 3)
	if before != "" {
		b := s
		b.text, b.dirty = before, true
		repl = append(repl, b)
	}
	repl = append(repl, marker)
	if after != "" {
		a := s
		a.text, a.dirty, a.base = after, true, s.base+loc[1]
		repl = append(repl, a)
	}

	out := make([]segment, 0, len(segs)+len(repl)-1)
	out = append(out, segs[:i]...)
	out = append(out, repl...)
	out = append(out, segs[i+1:]...)
	return out, ann
}

// emitText renders unescaped text from this segment's token back to markup.
// Tokens without character references are copied byte-for-byte.
func (s segment) emitText(text string) string {
	if s.verbatim {
		return text
	}
	return textEscaper.Replace(text)
}

// sourceOffset maps an offset in the token's unescaped text to an offset in
// its raw bytes.
func (s segment) sourceOffset(off int) int {
	if s.verbatim {
		return off
	}
	raw := s.tokRaw
	u, i := 0, 0
	for i < len(raw) && u < off {
		if raw[i] == '&' {
			if n, dec := charRef(raw[i:]); n > 0 {
				u += len(dec)
				i += n
				continue
			}
		}
		u++
		i++
	}
	return i
}

// maxRefWindow bounds the lookahead used by charRef. It is longer than any
// named or numeric reference.
const maxRefWindow = 64

// charRef reports the length and decoded text of the character reference at
// the start of raw, or 0 when html.UnescapeString leaves the '&' alone. It
// handles legacy references with no trailing ';' the way the decoder does.
func charRef(raw string) (int, string) {
	w := min(len(raw), maxRefWindow)
	whole := html.UnescapeString(raw[:w])
	for n := 2; n <= w; n++ {
		dec := html.UnescapeString(raw[:n])
		if dec == raw[:n] {
			continue
		}
		if dec+html.UnescapeString(raw[n:w]) == whole {
			return n, dec
		}
	}
	return 0, ""
}
