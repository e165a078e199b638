package glossary

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/escape-plan/internal/db"
)

// Store manages persistence of glossary terms.
type Store struct {
	db *db.DB
}

// NewStore creates a new glossary store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const termColumns = `id, term, definition, plain_english, case_study, key_benefit, category, related_terms, tags, created_at, updated_at`

// Create adds a new term.
func (s *Store) Create(ctx context.Context, t Term) (*Term, error) {
	if strings.TrimSpace(t.Term) == "" {
		return nil, fmt.Errorf("term text is required")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	related, tags, err := encodeLists(t)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO glossary_terms (`+termColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Term, t.Definition, t.PlainEnglish, t.CaseStudy, t.KeyBenefit, t.Category, related, tags, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting term: %w", err)
	}
	return &t, nil
}

// Upsert inserts the term or replaces the stored one with the same id.
// Catalog seeding relies on this being repeatable.
func (s *Store) Upsert(ctx context.Context, t Term) error {
	if t.ID == "" {
		return fmt.Errorf("term id is required")
	}
	related, tags, err := encodeLists(t)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO glossary_terms (`+termColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   term = excluded.term,
		   definition = excluded.definition,
		   plain_english = excluded.plain_english,
		   case_study = excluded.case_study,
		   key_benefit = excluded.key_benefit,
		   category = excluded.category,
		   related_terms = excluded.related_terms,
		   tags = excluded.tags,
		   updated_at = excluded.updated_at`,
		t.ID, t.Term, t.Definition, t.PlainEnglish, t.CaseStudy, t.KeyBenefit, t.Category, related, tags, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting term %s: %w", t.ID, err)
	}
	return nil
}

// GetByID retrieves a term by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Term, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM glossary_terms WHERE id = ?`, id)
	t, err := scanTerm(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting term: %w", err)
	}
	return t, nil
}

// List returns terms matching the filter ordered by term text. The Course
// field is ignored here; see FilterByCourse.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Term, error) {
	query := `SELECT ` + termColumns + ` FROM glossary_terms WHERE 1=1`
	args := []interface{}{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		query += ` AND (lower(term) LIKE ? ESCAPE '\' OR lower(definition) LIKE ? ESCAPE '\' OR lower(plain_english) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}

	query += " ORDER BY term COLLATE NOCASE ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return s.query(ctx, query, args...)
}

// Search matches q against term text, definition and tags.
func (s *Store) Search(ctx context.Context, q string) ([]Term, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	like := "%" + escapeLike(strings.ToLower(q)) + "%"
	return s.query(ctx,
		`SELECT `+termColumns+` FROM glossary_terms
		 WHERE lower(term) LIKE ? ESCAPE '\' OR lower(definition) LIKE ? ESCAPE '\' OR lower(tags) LIKE ? ESCAPE '\'
		 ORDER BY term COLLATE NOCASE ASC`,
		like, like, like)
}

// All returns every stored term in insertion order, the order BuildIndex
// uses to settle case collisions.
func (s *Store) All(ctx context.Context) ([]Term, error) {
	return s.query(ctx, `SELECT `+termColumns+` FROM glossary_terms ORDER BY created_at ASC, rowid ASC`)
}

// Delete removes a term.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM glossary_terms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting term: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("term not found: %s", id)
	}
	return nil
}

// Categories returns the distinct term categories.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM glossary_terms WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Revision returns the glossary write counter. Every insert, update or
// delete on the table bumps it, including writes by another process.
func (s *Store) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx,
		`SELECT revision FROM glossary_revision WHERE id = 1`).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("reading glossary revision: %w", err)
	}
	return rev, nil
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		terms = append(terms, *t)
	}
	return terms, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTerm(sc scanner) (*Term, error) {
	var t Term
	var related, tags string
	if err := sc.Scan(&t.ID, &t.Term, &t.Definition, &t.PlainEnglish, &t.CaseStudy, &t.KeyBenefit, &t.Category,
		&related, &tags, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if related != "" {
		if err := json.Unmarshal([]byte(related), &t.RelatedTerms); err != nil {
			return nil, fmt.Errorf("decoding related_terms of %s: %w", t.ID, err)
		}
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags of %s: %w", t.ID, err)
		}
	}
	return &t, nil
}

func encodeLists(t Term) (related, tags string, err error) {
	r := t.RelatedTerms
	if r == nil {
		r = []string{}
	}
	g := t.Tags
	if g == nil {
		g = []string{}
	}
	rb, err := json.Marshal(r)
	if err != nil {
		return "", "", fmt.Errorf("encoding related_terms: %w", err)
	}
	gb, err := json.Marshal(g)
	if err != nil {
		return "", "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(rb), string(gb), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
