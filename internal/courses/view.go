package courses

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/render"
)

// ModuleContent supplies the per-module lookup tables shown beside a lesson.
type ModuleContent interface {
	CaseStudy(t Type, orderIndex int) CaseStudy
	KeyTerms(t Type, orderIndex int) []string
	SummaryRules() []render.SummaryRule
}

// LessonView is a lesson rendered for display.
type LessonView struct {
	Lesson         Lesson                   `json:"lesson"`
	CourseID       string                   `json:"course_id"`
	CourseTitle    string                   `json:"course_title"`
	CourseType     Type                     `json:"course_type"`
	ModuleNumber   int                      `json:"module_number"`
	HTML           string                   `json:"html"`
	Annotations    []glossary.Annotation    `json:"annotations"`
	Terms          map[string]glossary.Term `json:"terms"`
	Summary        string                   `json:"summary"`
	WhatYoullLearn []string                 `json:"what_youll_learn"`
	CaseStudy      CaseStudy                `json:"case_study"`
	KeyTerms       []glossary.Term          `json:"key_terms"`
	Completed      bool                     `json:"completed"`
}

// Viewer assembles lesson views.
type Viewer struct {
	store    *Store
	glossary *glossary.Service
	renderer *render.Renderer
	content  ModuleContent
}

// NewViewer creates a Viewer. content may be nil.
func NewViewer(store *Store, gloss *glossary.Service, renderer *render.Renderer, content ModuleContent) *Viewer {
	return &Viewer{store: store, glossary: gloss, renderer: renderer, content: content}
}

// View renders lessonID of courseID for userID. It returns nil when the
// course or lesson does not exist.
func (v *Viewer) View(ctx context.Context, courseID, lessonID, userID string) (*LessonView, error) {
	course, err := v.store.GetCourse(ctx, courseID)
	if err != nil || course == nil {
		return nil, err
	}
	lesson, err := v.store.GetLesson(ctx, courseID, lessonID)
	if err != nil || lesson == nil {
		return nil, err
	}

	body, err := v.renderer.HTML(lesson.Content)
	if err != nil {
		return nil, err
	}
	idx, err := v.glossary.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading glossary: %w", err)
	}
	hl := glossary.Highlight(body, idx)

	view := &LessonView{
		Lesson:         *lesson,
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		CourseType:     course.Type,
		ModuleNumber:   lesson.OrderIndex + 1,
		HTML:           hl.HTML,
		Annotations:    hl.Annotations,
		Terms:          hl.Terms,
		WhatYoullLearn: render.WhatYoullLearn(lesson.Content),
		KeyTerms:       []glossary.Term{},
	}
	if view.Annotations == nil {
		view.Annotations = []glossary.Annotation{}
	}

	var rules []render.SummaryRule
	if v.content != nil {
		rules = v.content.SummaryRules()
		view.CaseStudy = v.content.CaseStudy(course.Type, lesson.OrderIndex)
		for _, name := range v.content.KeyTerms(course.Type, lesson.OrderIndex) {
			if t, ok := idx.Lookup(name); ok {
				view.KeyTerms = append(view.KeyTerms, t)
			}
		}
	}
	view.Summary = render.Summary(lesson.Content, lesson.Title, rules)

	if userID != "" {
		done, err := v.store.CompletedLessons(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		view.Completed = done[lessonID]
	}
	return view, nil
}
