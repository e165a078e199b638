package catalog

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/escape-plan/internal/courses"
	"github.com/ziadkadry99/escape-plan/internal/glossary"
	"github.com/ziadkadry99/escape-plan/internal/progress"
	"github.com/ziadkadry99/escape-plan/internal/tools"
)

// Stores are the tables the catalog is seeded into.
type Stores struct {
	Glossary *glossary.Store
	Courses  *courses.Store
	Tools    *tools.Store
}

// SeedStats counts the records written by Seed.
type SeedStats struct {
	Terms   int
	Courses int
	Lessons int
	Tools   int
}

// Total is the number of records written.
func (s SeedStats) Total() int { return s.Terms + s.Courses + s.Lessons + s.Tools }

// Seed upserts every catalog record into stores. It is safe to run
// repeatedly; records removed from the catalog are left in place.
func Seed(ctx context.Context, c *Catalog, stores Stores, rep progress.Reporter) (SeedStats, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	var stats SeedStats
	rep.Start(progress.Plan{
		progress.KindTerm:   len(c.Terms),
		progress.KindCourse: len(c.Courses),
		progress.KindLesson: c.LessonCount(),
		progress.KindTool:   len(c.Tools),
	})
	defer rep.Finish()

	for _, t := range c.Terms {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := stores.Glossary.Upsert(ctx, t); err != nil {
			return stats, fmt.Errorf("seeding glossary: %w", err)
		}
		stats.Terms++
		rep.Record(progress.KindTerm, t.Term)
	}

	for _, e := range c.Courses {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if _, err := stores.Courses.UpsertCourse(ctx, e.Course); err != nil {
			return stats, fmt.Errorf("seeding courses: %w", err)
		}
		stats.Courses++
		rep.Record(progress.KindCourse, e.Course.Title)
		for _, l := range e.Lessons {
			if _, err := stores.Courses.UpsertLesson(ctx, l); err != nil {
				return stats, fmt.Errorf("seeding lessons: %w", err)
			}
			stats.Lessons++
			rep.Record(progress.KindLesson, l.Title)
		}
	}

	for _, t := range c.Tools {
		if err := stores.Tools.Upsert(ctx, t); err != nil {
			return stats, fmt.Errorf("seeding tools: %w", err)
		}
		stats.Tools++
		rep.Record(progress.KindTool, t.Name)
	}
	return stats, nil
}
