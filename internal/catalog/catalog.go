// Package catalog loads the declarative course catalog: glossary terms,
// courses and lessons, tools, per-module side content, the term to course
// mapping and pricing.
package catalog

import (
	"sync/atomic"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/pricing"
	"github.com/ziadkadry99/escape-plan/internal/render"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

// DefaultCaseStudy is shown for modules without a case study entry.
var DefaultCaseStudy = courses.CaseStudy{
	Client:   "Strategic Client",
	Strategy: "Advanced tax optimization",
	Result:   "Significant tax savings achieved",
}

// CourseEntry is a course with its lessons.
type CourseEntry struct {
	Course  courses.Course
	Lessons []courses.Lesson
}

type moduleKey struct {
	course courses.Type
	module int
}

// Catalog is an immutable, merged view of all catalog files.
type Catalog struct {
	Terms       []glossary.Term
	Courses     []CourseEntry
	Tools       []tools.Tool
	Summaries   []render.SummaryRule
	TermCourses map[string]string
	Pricing     pricing.Table

	caseStudies map[moduleKey]courses.CaseStudy
	keyTerms    map[moduleKey][]string
}

// CaseStudy returns the case study for a module, or DefaultCaseStudy.
func (c *Catalog) CaseStudy(t courses.Type, orderIndex int) courses.CaseStudy {
	if cs, ok := c.caseStudies[moduleKey{t, orderIndex}]; ok {
		return cs
	}
	return DefaultCaseStudy
}

// KeyTerms returns the glossary term names featured by a module.
func (c *Catalog) KeyTerms(t courses.Type, orderIndex int) []string {
	return c.keyTerms[moduleKey{t, orderIndex}]
}

// SummaryRules returns the title keyword rules for lesson summaries.
func (c *Catalog) SummaryRules() []render.SummaryRule {
	return c.Summaries
}

// CourseOf returns the course a term first appears in.
func (c *Catalog) CourseOf(termName string) string {
	return glossary.MappedCourses(c.TermCourses)(termName)
}

// LessonCount returns the number of lessons across all courses.
func (c *Catalog) LessonCount() int {
	n := 0
	for _, e := range c.Courses {
		n += len(e.Lessons)
	}
	return n
}

// Holder publishes the current catalog to readers while Watch swaps in
// reloaded versions.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder serving c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Get returns the current catalog.
func (h *Holder) Get() *Catalog { return h.current.Load() }

// Set replaces the current catalog.
func (h *Holder) Set(c *Catalog) { h.current.Store(c) }

func (h *Holder) CaseStudy(t courses.Type, orderIndex int) courses.CaseStudy {
	return h.Get().CaseStudy(t, orderIndex)
}

func (h *Holder) KeyTerms(t courses.Type, orderIndex int) []string {
	return h.Get().KeyTerms(t, orderIndex)
}

func (h *Holder) SummaryRules() []render.SummaryRule {
	return h.Get().SummaryRules()
}

// CourseOf resolves against whichever catalog is current at call time.
func (h *Holder) CourseOf(termName string) string {
	return h.Get().CourseOf(termName)
}

// Pricing returns the current pricing table.
func (h *Holder) Pricing() pricing.Table {
	return h.Get().Pricing
}
