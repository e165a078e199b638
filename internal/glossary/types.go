package glossary

import "time"

// Term is a named tax-strategy concept shown in the glossary and linked
// from course content.
type Term struct {
	ID           string    `json:"id" yaml:"id"`
	Term         string    `json:"term" yaml:"term"`
	Definition   string    `json:"definition" yaml:"definition"`
	PlainEnglish string    `json:"plain_english,omitempty" yaml:"plain_english"`
	CaseStudy    string    `json:"case_study,omitempty" yaml:"case_study"`
	KeyBenefit   string    `json:"key_benefit,omitempty" yaml:"key_benefit"`
	Category     string    `json:"category" yaml:"category"`
	RelatedTerms []string  `json:"related_terms,omitempty" yaml:"related_terms"`
	Tags         []string  `json:"tags,omitempty" yaml:"tags"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// ListFilter controls which terms to return.
type ListFilter struct {
	Query    string // substring of term, definition or plain_english
	Category string
	Course   string // resolved through a CourseResolver, not stored
	Limit    int
	Offset   int
}

// AllCourses is the Course filter value that disables course filtering.
const AllCourses = "all"
