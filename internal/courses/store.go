package courses

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/escape-plan/internal/db"
)

// Store manages persistence of courses, lessons and lesson progress.
type Store struct {
	db *db.DB
}

// NewStore creates a new course store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// UpsertCourse inserts or replaces a course. TotalLessons is derived from
// the lessons table and ignored here.
func (s *Store) UpsertCourse(ctx context.Context, c Course) (*Course, error) {
	if !c.Type.Valid() {
		return nil, fmt.Errorf("invalid course type %q", c.Type)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, type, estimated_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   type = excluded.type,
		   estimated_hours = excluded.estimated_hours`,
		c.ID, c.Title, c.Description, c.Type, c.EstimatedHours, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting course %s: %w", c.ID, err)
	}
	return &c, nil
}

// UpsertLesson inserts or replaces a lesson and refreshes the course's
// lesson count.
func (s *Store) UpsertLesson(ctx context.Context, l Lesson) (*Lesson, error) {
	if l.CourseID == "" {
		return nil, fmt.Errorf("lesson course_id is required")
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning lesson upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lessons (id, course_id, title, description, content, order_index, duration_minutes, xp_available)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   course_id = excluded.course_id,
		   title = excluded.title,
		   description = excluded.description,
		   content = excluded.content,
		   order_index = excluded.order_index,
		   duration_minutes = excluded.duration_minutes,
		   xp_available = excluded.xp_available`,
		l.ID, l.CourseID, l.Title, l.Description, l.Content, l.OrderIndex, l.DurationMinutes, l.XPAvailable,
	); err != nil {
		return nil, fmt.Errorf("upserting lesson %s: %w", l.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE courses SET total_lessons = (SELECT COUNT(*) FROM lessons WHERE course_id = ?) WHERE id = ?`,
		l.CourseID, l.CourseID,
	); err != nil {
		return nil, fmt.Errorf("updating lesson count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing lesson upsert: %w", err)
	}
	return &l, nil
}

// ListCourses returns all courses in primer, w2, business order.
func (s *Store) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, type, total_lessons, estimated_hours, created_at
		 FROM courses
		 ORDER BY CASE type WHEN 'primer' THEN 0 WHEN 'w2' THEN 1 ELSE 2 END, title`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Type, &c.TotalLessons, &c.EstimatedHours, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCourse retrieves a course by its ID.
func (s *Store) GetCourse(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, type, total_lessons, estimated_hours, created_at
		 FROM courses WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Type, &c.TotalLessons, &c.EstimatedHours, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	return &c, nil
}

// ListLessons returns the lessons of a course in order.
func (s *Store) ListLessons(ctx context.Context, courseID string) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_id, title, description, content, order_index, duration_minutes, xp_available
		 FROM lessons WHERE course_id = ? ORDER BY order_index`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var out []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Content, &l.OrderIndex, &l.DurationMinutes, &l.XPAvailable); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetLesson retrieves a lesson of a course.
func (s *Store) GetLesson(ctx context.Context, courseID, lessonID string) (*Lesson, error) {
	var l Lesson
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_id, title, description, content, order_index, duration_minutes, xp_available
		 FROM lessons WHERE id = ? AND course_id = ?`, lessonID, courseID,
	).Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Content, &l.OrderIndex, &l.DurationMinutes, &l.XPAvailable)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lesson: %w", err)
	}
	return &l, nil
}

// MarkComplete records a completed lesson. It reports false when the lesson
// was already complete for userID.
func (s *Store) MarkComplete(ctx context.Context, userID, courseID, lessonID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, course_id, lesson_id, completed, completed_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT(user_id, lesson_id) DO NOTHING`,
		userID, courseID, lessonID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("marking lesson complete: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// CompletedLessons returns the IDs of lessons userID completed in courseID.
func (s *Store) CompletedLessons(ctx context.Context, userID, courseID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lesson_id FROM user_progress WHERE user_id = ? AND course_id = ? AND completed = 1`,
		userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing completed lessons: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completed lesson: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}

// Progress returns per-course completion for userID, one entry per course.
func (s *Store) Progress(ctx context.Context, userID string) ([]CourseProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.total_lessons,
		        COUNT(p.lesson_id), MAX(p.completed_at)
		 FROM courses c
		 LEFT JOIN user_progress p ON p.course_id = c.id AND p.user_id = ? AND p.completed = 1
		 GROUP BY c.id
		 ORDER BY CASE c.type WHEN 'primer' THEN 0 WHEN 'w2' THEN 1 ELSE 2 END, c.title`, userID)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	defer rows.Close()

	var out []CourseProgress
	for rows.Next() {
		var p CourseProgress
		var last sql.NullString
		if err := rows.Scan(&p.CourseID, &p.CourseTitle, &p.TotalLessons, &p.CompletedLessons, &last); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		if p.TotalLessons > 0 {
			p.Percent = p.CompletedLessons * 100 / p.TotalLessons
		}
		if last.Valid {
			if ts, err := parseTimestamp(last.String); err == nil {
				p.LastCompletedAt = &ts
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// parseTimestamp reads a DATETIME value returned through an aggregate,
// which the driver hands back as text.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Mentioning returns up to limit courses whose description or lesson
// content contains term, case-insensitively.
func (s *Store) Mentioning(ctx context.Context, term string, limit int) ([]Course, error) {
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	like := "%" + strings.ToLower(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.description, c.type, c.total_lessons, c.estimated_hours, c.created_at
		 FROM courses c
		 WHERE lower(c.description) LIKE ?
		    OR EXISTS (SELECT 1 FROM lessons l WHERE l.course_id = c.id AND lower(l.content) LIKE ?)
		 ORDER BY CASE c.type WHEN 'primer' THEN 0 WHEN 'w2' THEN 1 ELSE 2 END, c.title
		 LIMIT ?`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("finding courses mentioning %q: %w", term, err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Type, &c.TotalLessons, &c.EstimatedHours, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
