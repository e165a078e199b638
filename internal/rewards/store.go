package rewards

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/escape-plan/internal/db"
)

// UserXP is the persisted XP summary for one user.
type UserXP struct {
	UserID      string    `json:"user_id"`
	TotalXP     int       `json:"total_xp"`
	GlossaryXP  int       `json:"glossary_xp"`
	QuizXP      int       `json:"quiz_xp"`
	TermsViewed int       `json:"terms_viewed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists per-user ledgers in user_xp and viewed_terms.
type Store struct {
	db *db.DB
}

// NewStore creates a new rewards store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Ledger loads the ledger for userID. Unknown users get an empty ledger.
func (s *Store) Ledger(ctx context.Context, userID string) (Ledger, error) {
	return loadLedger(ctx, s.db, userID)
}

func loadLedger(ctx context.Context, q queryer, userID string) (Ledger, error) {
	l := Ledger{Viewed: make(map[string]bool)}
	err := q.QueryRowContext(ctx,
		`SELECT total_xp, glossary_xp FROM user_xp WHERE user_id = ?`, userID,
	).Scan(&l.TotalXP, &l.GlossaryXP)
	if err != nil && err != sql.ErrNoRows {
		return Ledger{}, fmt.Errorf("loading xp for %s: %w", userID, err)
	}

	rows, err := q.QueryContext(ctx, `SELECT term_id FROM viewed_terms WHERE user_id = ?`, userID)
	if err != nil {
		return Ledger{}, fmt.Errorf("loading viewed terms for %s: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return Ledger{}, fmt.Errorf("scanning viewed term: %w", err)
		}
		l.Viewed[id] = true
	}
	return l, rows.Err()
}

// AwardGlossaryView applies Ledger.AwardIfFirstViewXP to the stored ledger
// of userID inside one transaction.
func (s *Store) AwardGlossaryView(ctx context.Context, userID, termID string, xp int) (Award, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Award{}, fmt.Errorf("beginning award: %w", err)
	}
	defer tx.Rollback()

	current, err := loadLedger(ctx, tx, userID)
	if err != nil {
		return Award{}, err
	}
	next, award := current.AwardIfFirstViewXP(termID, xp)
	if !award.Awarded {
		return award, nil
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO viewed_terms (user_id, term_id, viewed_at) VALUES (?, ?, ?)`,
		userID, termID, now,
	); err != nil {
		return Award{}, fmt.Errorf("recording viewed term: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_xp (user_id, total_xp, glossary_xp, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_xp = excluded.total_xp,
		   glossary_xp = excluded.glossary_xp,
		   updated_at = excluded.updated_at`,
		userID, next.TotalXP, next.GlossaryXP, now,
	); err != nil {
		return Award{}, fmt.Errorf("updating xp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Award{}, fmt.Errorf("committing award: %w", err)
	}
	return award, nil
}

// AddLessonXP credits xp for a completed lesson to the user's total.
func (s *Store) AddLessonXP(ctx context.Context, userID string, xp int) error {
	if xp <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_xp (user_id, total_xp, quiz_xp, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_xp = user_xp.total_xp + excluded.total_xp,
		   quiz_xp = user_xp.quiz_xp + excluded.quiz_xp,
		   updated_at = excluded.updated_at`,
		userID, xp, xp, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("adding lesson xp: %w", err)
	}
	return nil
}

// GetXP returns the XP summary for userID. Unknown users get a zero summary.
func (s *Store) GetXP(ctx context.Context, userID string) (*UserXP, error) {
	x := UserXP{UserID: userID}
	var updated sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT total_xp, glossary_xp, quiz_xp, updated_at FROM user_xp WHERE user_id = ?`, userID,
	).Scan(&x.TotalXP, &x.GlossaryXP, &x.QuizXP, &updated)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting xp: %w", err)
	}
	if updated.Valid {
		x.UpdatedAt = updated.Time
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM viewed_terms WHERE user_id = ?`, userID,
	).Scan(&x.TermsViewed); err != nil {
		return nil, fmt.Errorf("counting viewed terms: %w", err)
	}
	return &x, nil
}
