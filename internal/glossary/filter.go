package glossary

import (
	"regexp"
	"strings"
)

// DefaultCourse is the course a term belongs to when the course mapping
// does not mention it.
const DefaultCourse = "Business Owner Escape Plan"

// CourseResolver returns the course in which a term first appears.
type CourseResolver func(termName string) string

// MappedCourses builds a CourseResolver from a term->course table, falling
// back to DefaultCourse.
func MappedCourses(mapping map[string]string) CourseResolver {
	return func(termName string) string {
		if c, ok := mapping[termName]; ok && c != "" {
			return c
		}
		return DefaultCourse
	}
}

// FilterByCourse keeps the terms whose resolved course equals course.
// An empty course or AllCourses keeps everything.
func FilterByCourse(terms []Term, course string, resolve CourseResolver) []Term {
	if course == "" || course == AllCourses || resolve == nil {
		return terms
	}
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if resolve(t.Term) == course {
			out = append(out, t)
		}
	}
	return out
}

var moduleRef = regexp.MustCompile(`Module \d+[^,.]*`)

// LinkedModules returns the distinct "Module N ..." references found in a
// term's case study and definition, in order of first appearance.
func LinkedModules(t Term) []string {
	seen := make(map[string]bool)
	var out []string
	for _, text := range []string{t.CaseStudy, t.Definition} {
		if !strings.Contains(text, "Module") {
			continue
		}
		for _, m := range moduleRef.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// BestMatch picks the hit a lookup for q most likely means: a term named
// q, then one whose name starts with q, then one whose name contains q,
// then the first hit. hits must not be empty.
func BestMatch(hits []Term, q string) Term {
	q = strings.ToLower(q)
	rank := func(t Term) int {
		name := strings.ToLower(t.Term)
		switch {
		case name == q:
			return 0
		case strings.HasPrefix(name, q+" "), strings.HasPrefix(name, q+"-"):
			return 1
		case strings.Contains(name, q):
			return 2
		}
		return 3
	}
	best := hits[0]
	for _, t := range hits[1:] {
		if rank(t) < rank(best) {
			best = t
		}
	}
	return best
}
