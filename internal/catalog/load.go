package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/pricing"
	"github.com/ziadkadry99/escape-plan/internal/render"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

// Pattern matches catalog files anywhere under the catalog root.
const Pattern = "**/*.{yaml,yml}"

// maxParallel bounds concurrent file parsing.
const maxParallel = 8

// document is the shape of one catalog file. Every section is optional.
type document struct {
	Terms       []glossary.Term      `yaml:"terms"`
	Courses     []courseDoc          `yaml:"courses"`
	Tools       []tools.Tool         `yaml:"tools"`
	CaseStudies []caseStudyDoc       `yaml:"case_studies"`
	KeyTerms    []keyTermsDoc        `yaml:"key_terms"`
	Summaries   []render.SummaryRule `yaml:"summaries"`
	TermCourses map[string]string    `yaml:"term_courses"`
	Pricing     *pricing.Table       `yaml:"pricing"`
}

type courseDoc struct {
	courses.Course `yaml:",inline"`
	Lessons        []courses.Lesson `yaml:"lessons"`
}

type caseStudyDoc struct {
	Course            courses.Type `yaml:"course"`
	Module            int          `yaml:"module"`
	courses.CaseStudy `yaml:",inline"`
}

type keyTermsDoc struct {
	Course courses.Type `yaml:"course"`
	Module int          `yaml:"module"`
	Terms  []string     `yaml:"terms"`
}

// Load reads every catalog file under fsys and merges them in path order.
// Entries with the same id in a later file replace earlier ones.
func Load(fsys fs.FS) (*Catalog, error) {
	paths, err := doublestar.Glob(fsys, Pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing catalog files: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	docs := make([]document, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(maxParallel)
	for i, p := range paths {
		g.Go(func() error {
			doc, err := parseFile(fsys, p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := merge(docs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func parseFile(fsys fs.FS, path string) (document, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return document{}, err
	}
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return document{}, err
	}
	return doc, nil
}

func merge(docs []document) (*Catalog, error) {
	c := &Catalog{
		TermCourses: make(map[string]string),
		caseStudies: make(map[moduleKey]courses.CaseStudy),
		keyTerms:    make(map[moduleKey][]string),
	}
	termPos := make(map[string]int)
	coursePos := make(map[string]int)
	toolPos := make(map[string]int)

	for _, doc := range docs {
		for _, t := range doc.Terms {
			if t.ID == "" || t.Term == "" {
				return nil, fmt.Errorf("glossary term needs both id and term (id=%q, term=%q)", t.ID, t.Term)
			}
			if i, ok := termPos[t.ID]; ok {
				c.Terms[i] = t
				continue
			}
			termPos[t.ID] = len(c.Terms)
			c.Terms = append(c.Terms, t)
		}

		for _, cd := range doc.Courses {
			entry, err := courseEntry(cd)
			if err != nil {
				return nil, err
			}
			if i, ok := coursePos[entry.Course.ID]; ok {
				c.Courses[i] = entry
				continue
			}
			coursePos[entry.Course.ID] = len(c.Courses)
			c.Courses = append(c.Courses, entry)
		}

		for _, t := range doc.Tools {
			if t.ID == "" {
				return nil, fmt.Errorf("tool %q has no id", t.Name)
			}
			if i, ok := toolPos[t.ID]; ok {
				c.Tools[i] = t
				continue
			}
			toolPos[t.ID] = len(c.Tools)
			c.Tools = append(c.Tools, t)
		}

		for _, cs := range doc.CaseStudies {
			if !cs.Course.Valid() {
				return nil, fmt.Errorf("case study for unknown course type %q", cs.Course)
			}
			c.caseStudies[moduleKey{cs.Course, cs.Module}] = cs.CaseStudy
		}
		for _, kt := range doc.KeyTerms {
			if !kt.Course.Valid() {
				return nil, fmt.Errorf("key terms for unknown course type %q", kt.Course)
			}
			c.keyTerms[moduleKey{kt.Course, kt.Module}] = kt.Terms
		}

		c.Summaries = append(c.Summaries, doc.Summaries...)
		for term, course := range doc.TermCourses {
			c.TermCourses[term] = course
		}
		if doc.Pricing != nil {
			if err := doc.Pricing.Validate(); err != nil {
				return nil, fmt.Errorf("pricing: %w", err)
			}
			c.Pricing = *doc.Pricing
		}
	}
	return c, nil
}

func courseEntry(cd courseDoc) (CourseEntry, error) {
	if cd.ID == "" {
		return CourseEntry{}, fmt.Errorf("course %q has no id", cd.Title)
	}
	if !cd.Type.Valid() {
		return CourseEntry{}, fmt.Errorf("course %s: invalid type %q", cd.ID, cd.Type)
	}
	seen := make(map[string]bool, len(cd.Lessons))
	lessons := make([]courses.Lesson, 0, len(cd.Lessons))
	for _, l := range cd.Lessons {
		if l.ID == "" {
			return CourseEntry{}, fmt.Errorf("course %s: lesson %q has no id", cd.ID, l.Title)
		}
		if seen[l.ID] {
			return CourseEntry{}, fmt.Errorf("course %s: duplicate lesson id %q", cd.ID, l.ID)
		}
		seen[l.ID] = true
		l.CourseID = cd.ID
		lessons = append(lessons, l)
	}
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].OrderIndex < lessons[j].OrderIndex })

	course := cd.Course
	course.TotalLessons = len(lessons)
	return CourseEntry{Course: course, Lessons: lessons}, nil
}
