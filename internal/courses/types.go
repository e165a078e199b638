package courses

import "time"

// Type distinguishes the three course tracks.
type Type string

const (
	TypePrimer   Type = "primer"
	TypeW2       Type = "w2"
	TypeBusiness Type = "business"
)

// Valid reports whether t is a known course type.
func (t Type) Valid() bool {
	switch t {
	case TypePrimer, TypeW2, TypeBusiness:
		return true
	}
	return false
}

// Course is a sequence of lessons.
type Course struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Description    string    `json:"description" yaml:"description"`
	Type           Type      `json:"type" yaml:"type"`
	TotalLessons   int       `json:"total_lessons" yaml:"-"`
	EstimatedHours int       `json:"estimated_hours" yaml:"estimated_hours"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
}

// Lesson is one module of a course. OrderIndex is zero-based.
type Lesson struct {
	ID              string `json:"id" yaml:"id"`
	CourseID        string `json:"course_id" yaml:"-"`
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Content         string `json:"content" yaml:"content"`
	OrderIndex      int    `json:"order_index" yaml:"order_index"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	XPAvailable     int    `json:"xp_available" yaml:"xp_available"`
}

// CaseStudy is the client story shown beside a lesson.
type CaseStudy struct {
	Client   string `json:"client" yaml:"client"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Result   string `json:"result" yaml:"result"`
}

// CourseProgress summarises one user's completion of one course.
type CourseProgress struct {
	CourseID         string     `json:"course_id"`
	CourseTitle      string     `json:"course_title"`
	CompletedLessons int        `json:"completed_lessons"`
	TotalLessons     int        `json:"total_lessons"`
	Percent          int        `json:"percent"`
	LastCompletedAt  *time.Time `json:"last_completed_at,omitempty"`
}
